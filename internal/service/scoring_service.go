package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/repository"
	"gorm.io/gorm"
)

// ScoringService runs the asynchronous scoring pipeline. Trigger enqueues
// durable jobs and returns immediately; clients poll Status for progress.
type ScoringService interface {
	Trigger(examID, teacherID uint, participantIDs []uint) (*dto.TriggerScoringResponse, error)
	Status(examID, teacherID uint) (*dto.ScoringStatusResponse, error)
	OverrideScore(answerID, teacherID uint, req dto.OverrideScoreRequest) (*dto.AnswerResponse, error)
}

type scoringService struct {
	examRepo        repository.ExamRepository
	participantRepo repository.ParticipantRepository
	answerRepo      repository.AnswerRepository
	statRepo        repository.StatisticRepository
	jobRepo         repository.ScoringJobRepository
	scorer          EssayScorer
	cfg             *config.Config
}

func NewScoringService(
	examRepo repository.ExamRepository,
	participantRepo repository.ParticipantRepository,
	answerRepo repository.AnswerRepository,
	statRepo repository.StatisticRepository,
	jobRepo repository.ScoringJobRepository,
	scorer EssayScorer,
	cfg *config.Config,
) ScoringService {
	return &scoringService{
		examRepo:        examRepo,
		participantRepo: participantRepo,
		answerRepo:      answerRepo,
		statRepo:        statRepo,
		jobRepo:         jobRepo,
		scorer:          scorer,
		cfg:             cfg,
	}
}

// NormalizeAnswer prepares a multiple-choice answer for comparison:
// surrounding whitespace is trimmed and casing is folded.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *scoringService) ownedExam(examID, teacherID uint) (*model.Exam, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("exam %d not found", examID)
		}
		return nil, err
	}
	if exam.TeacherID != teacherID {
		return nil, apperror.NotFoundf("exam %d not found", examID)
	}
	return exam, nil
}

func (s *scoringService) Trigger(examID, teacherID uint, participantIDs []uint) (*dto.TriggerScoringResponse, error) {
	if _, err := s.ownedExam(examID, teacherID); err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.FindSubmittedByExam(examID, participantIDs)
	if err != nil {
		return nil, err
	}

	jobs := make([]model.ScoringJob, len(participants))
	for i, p := range participants {
		jobs[i] = model.ScoringJob{
			ExamID:        examID,
			ParticipantID: p.ID,
			State:         model.JobStatePending,
		}
	}
	if err := s.jobRepo.CreateBatch(jobs); err != nil {
		return nil, err
	}

	// Snapshot the response before the worker starts; the worker owns the
	// jobs slice once it is launched.
	resp := dto.TriggerScoringResponse{Triggered: len(jobs)}
	resp.Jobs = make([]dto.ScoringJobResponse, len(jobs))
	copier.Copy(&resp.Jobs, &jobs)

	// Processing runs detached; the response never waits for it.
	go s.processBatch(examID, jobs)

	return &resp, nil
}

func (s *scoringService) processBatch(examID uint, jobs []model.ScoringJob) {
	for i := range jobs {
		job := &jobs[i]

		now := time.Now()
		job.State = model.JobStateProcessing
		job.StartedAt = &now
		if err := s.jobRepo.Update(job); err != nil {
			log.Error().Err(err).Uint("job_id", job.ID).Msg("Failed to mark scoring job as processing")
		}

		err := s.scoreParticipant(job.ParticipantID)

		done := time.Now()
		job.FinishedAt = &done
		if err != nil {
			// One participant failing does not stop the rest of the batch,
			// and answers already scored for them stay scored.
			job.State = model.JobStateFailed
			job.Error = err.Error()
			log.Error().Err(err).Uint("participant_id", job.ParticipantID).Msg("Scoring job failed")
		} else {
			job.State = model.JobStateDone
		}
		if err := s.jobRepo.Update(job); err != nil {
			log.Error().Err(err).Uint("job_id", job.ID).Msg("Failed to record scoring job result")
		}
	}

	// Statistics are recomputed over the full live participant set, not just
	// this batch. A full recompute is slower than an incremental update but
	// cannot drift.
	if err := s.recomputeStatistics(examID); err != nil {
		log.Error().Err(err).Uint("exam_id", examID).Msg("Failed to recompute exam statistics")
	}
}

func (s *scoringService) scoreParticipant(participantID uint) error {
	participant, err := s.participantRepo.FindByID(participantID)
	if err != nil {
		return err
	}

	answers, err := s.answerRepo.FindUnscoredByParticipant(participantID)
	if err != nil {
		return err
	}

	for i := range answers {
		answer := &answers[i]
		s.scoreAnswer(answer)
		if err := s.answerRepo.Update(answer); err != nil {
			return err
		}
	}

	if err := s.recomputeParticipantScore(participant); err != nil {
		return err
	}
	return nil
}

// scoreAnswer computes and assigns the score in place. The essay path never
// returns an error: an AI failure falls back to a flagged placeholder score
// because scoring must not fail outright on a delegate outage.
func (s *scoringService) scoreAnswer(answer *model.Answer) {
	var score float64

	switch answer.Question.Type {
	case model.QuestionTypePG:
		if NormalizeAnswer(answer.Content) == NormalizeAnswer(answer.Question.AnswerKey) {
			score = 100
		} else {
			score = 0
		}
	case model.QuestionTypeEssay:
		eval, err := s.scorer.ScoreEssay(context.Background(), &answer.Question, answer)
		if err != nil {
			log.Warn().Err(err).Uint("answer_id", answer.ID).
				Msg("Essay scoring delegate failed, falling back to placeholder score")
			score = s.cfg.Scoring.FallbackScore
			answer.NeedsReview = true
			answer.Feedback, _ = json.Marshal(map[string]string{
				"overall": "Automatic scoring was unavailable. This answer needs manual review.",
			})
		} else {
			score = eval.Score
			answer.NeedsReview = false
			answer.Feedback, _ = json.Marshal(eval)
		}
	default:
		log.Warn().Uint("answer_id", answer.ID).Str("type", answer.Question.Type).
			Msg("Unknown question type, scoring as zero")
	}

	answer.AIScore = &score
	finalScore := score
	answer.FinalScore = &finalScore
	answer.Status = model.AnswerStatusScored
}

// recomputeParticipantScore sets the participant's aggregate to the mean of
// their final-scored answers. With zero scored answers the participant is
// left untouched.
func (s *scoringService) recomputeParticipantScore(participant *model.ExamParticipant) error {
	answers, err := s.answerRepo.FindAllByParticipant(participant.ID)
	if err != nil {
		return err
	}

	var sum float64
	var count int
	for _, a := range answers {
		if a.FinalScore != nil {
			sum += *a.FinalScore
			count++
		}
	}
	if count == 0 {
		return nil
	}

	mean := sum / float64(count)
	participant.Score = &mean
	participant.Status = model.ParticipantStatusScored
	return s.participantRepo.Update(participant)
}

func (s *scoringService) recomputeStatistics(examID uint) error {
	participants, err := s.participantRepo.FindAllByExam(examID)
	if err != nil {
		return err
	}

	stat, err := s.statRepo.FindByExam(examID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		stat = &model.ExamStatistic{ExamID: examID}
	}

	var sum, max, min float64
	var scored, submitted int
	first := true
	for _, p := range participants {
		if p.SubmitTime != nil {
			submitted++
		}
		if p.Score == nil {
			continue
		}
		scored++
		sum += *p.Score
		if first || *p.Score > max {
			max = *p.Score
		}
		if first || *p.Score < min {
			min = *p.Score
		}
		first = false
	}

	stat.ParticipantCount = len(participants)
	stat.SubmittedCount = submitted
	stat.ScoredCount = scored
	if scored > 0 {
		stat.AverageScore = sum / float64(scored)
		stat.MaxScore = max
		stat.MinScore = min
	} else {
		stat.AverageScore = 0
		stat.MaxScore = 0
		stat.MinScore = 0
	}
	return s.statRepo.Save(stat)
}

func (s *scoringService) Status(examID, teacherID uint) (*dto.ScoringStatusResponse, error) {
	if _, err := s.ownedExam(examID, teacherID); err != nil {
		return nil, err
	}

	counts, err := s.jobRepo.CountsByState(examID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return &dto.ScoringStatusResponse{
		ExamID:     examID,
		Counts:     counts,
		TotalJobs:  total,
		InProgress: counts[model.JobStatePending] > 0 || counts[model.JobStateProcessing] > 0,
	}, nil
}

// OverrideScore is the teacher's direct correction. It runs the same
// aggregate recompute as the automated path, so a score means the same thing
// regardless of where it came from.
func (s *scoringService) OverrideScore(answerID, teacherID uint, req dto.OverrideScoreRequest) (*dto.AnswerResponse, error) {
	answer, err := s.answerRepo.FindByIDWithExam(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("answer %d not found", answerID)
		}
		return nil, err
	}
	if answer.Participant.Exam.TeacherID != teacherID {
		return nil, apperror.NotFoundf("answer %d not found", answerID)
	}

	finalScore := req.FinalScore
	answer.FinalScore = &finalScore
	answer.Status = model.AnswerStatusScored
	answer.NeedsReview = false
	if req.Feedback != "" {
		answer.Feedback, _ = json.Marshal(map[string]string{"overall": req.Feedback})
	}
	if err := s.answerRepo.Update(answer); err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.FindByID(answer.ParticipantID)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeParticipantScore(participant); err != nil {
		return nil, err
	}
	if err := s.recomputeStatistics(participant.ExamID); err != nil {
		log.Error().Err(err).Uint("exam_id", participant.ExamID).Msg("Failed to recompute exam statistics after override")
	}

	var resp dto.AnswerResponse
	copier.Copy(&resp, answer)
	return &resp, nil
}
