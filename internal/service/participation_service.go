package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/repository"
	"gorm.io/gorm"
)

// ParticipationService handles the student side of an exam: joining,
// submitting answers and finishing.
type ParticipationService interface {
	Join(ctx context.Context, examID, studentID uint) (*dto.JoinExamResponse, error)
	SubmitAnswer(examID, studentID uint, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error)
	BatchSubmitAnswers(examID, studentID uint, req dto.BatchSubmitAnswersRequest) ([]dto.AnswerResponse, error)
	Finish(ctx context.Context, examID, studentID uint) (*dto.ParticipantResultResponse, error)
	Result(examID, studentID uint) (*dto.ParticipantResultResponse, error)
	ListOngoing(page, limit int) ([]dto.ExamResponse, int64, error)
	ExamQuestions(examID, studentID uint) ([]dto.StudentQuestionResponse, error)
	ListParticipants(examID, teacherID uint) ([]dto.ParticipantSummaryResponse, error)
}

type participationService struct {
	examRepo        repository.ExamRepository
	participantRepo repository.ParticipantRepository
	answerRepo      repository.AnswerRepository
	proctor         ProctorClient
}

func NewParticipationService(
	examRepo repository.ExamRepository,
	participantRepo repository.ParticipantRepository,
	answerRepo repository.AnswerRepository,
	proctor ProctorClient,
) ParticipationService {
	return &participationService{
		examRepo:        examRepo,
		participantRepo: participantRepo,
		answerRepo:      answerRepo,
		proctor:         proctor,
	}
}

// proctoringEnabled reads the exam settings JSON; missing settings mean off.
func proctoringEnabled(exam *model.Exam) bool {
	if len(exam.Settings) == 0 {
		return false
	}
	var settings struct {
		Proctoring bool `json:"proctoring"`
	}
	if err := json.Unmarshal(exam.Settings, &settings); err != nil {
		return false
	}
	return settings.Proctoring
}

// Join is idempotent: a second join returns the existing participant with the
// already_joined flag instead of erroring.
func (s *participationService) Join(ctx context.Context, examID, studentID uint) (*dto.JoinExamResponse, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("exam %d not found", examID)
		}
		return nil, err
	}
	if exam.Status != model.ExamStatusOngoing {
		return nil, apperror.BadRequestf("exam is not open for joining")
	}

	if existing, err := s.participantRepo.FindByExamAndStudent(examID, studentID); err == nil {
		return &dto.JoinExamResponse{
			ParticipantID: existing.ID,
			ExamID:        examID,
			Status:        existing.Status,
			JoinedAt:      existing.JoinedAt,
			AlreadyJoined: true,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participant := model.ExamParticipant{
		ExamID:    examID,
		StudentID: studentID,
		Status:    model.ParticipantStatusJoined,
		JoinedAt:  time.Now(),
	}

	// Best-effort: a proctoring outage must not block joining.
	if proctoringEnabled(exam) {
		sessionID, err := s.proctor.StartSession(ctx, examID, studentID)
		if err != nil {
			log.Warn().Err(err).Uint("exam_id", examID).Uint("student_id", studentID).
				Msg("Failed to start proctoring session, continuing without it")
		} else if sessionID != "" {
			participant.ProctoringSessionID = &sessionID
		}
	}

	if err := s.participantRepo.Create(&participant); err != nil {
		return nil, err
	}
	if err := s.examRepo.IncrementParticipantCount(examID); err != nil {
		log.Error().Err(err).Uint("exam_id", examID).Msg("Failed to increment participant counter")
	}

	return &dto.JoinExamResponse{
		ParticipantID: participant.ID,
		ExamID:        examID,
		Status:        participant.Status,
		JoinedAt:      participant.JoinedAt,
		AlreadyJoined: false,
	}, nil
}

// activeParticipant enforces the shared submit/finish guards: the student
// must have joined and must not have finalized yet.
func (s *participationService) activeParticipant(examID, studentID uint) (*model.ExamParticipant, error) {
	participant, err := s.participantRepo.FindByExamAndStudent(examID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbiddenf("you have not joined this exam")
		}
		return nil, err
	}
	if participant.Submitted() {
		return nil, apperror.BadRequestf("exam has already been submitted")
	}
	return participant, nil
}

func (s *participationService) SubmitAnswer(examID, studentID uint, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error) {
	answers, err := s.BatchSubmitAnswers(examID, studentID, dto.BatchSubmitAnswersRequest{
		Answers: []dto.SubmitAnswerRequest{req},
	})
	if err != nil {
		return nil, err
	}
	return &answers[0], nil
}

func (s *participationService) BatchSubmitAnswers(examID, studentID uint, req dto.BatchSubmitAnswersRequest) ([]dto.AnswerResponse, error) {
	participant, err := s.activeParticipant(examID, studentID)
	if err != nil {
		return nil, err
	}

	links, err := s.examRepo.FindQuestionLinks(examID)
	if err != nil {
		return nil, err
	}
	linked := make(map[uint]bool, len(links))
	for _, link := range links {
		linked[link.QuestionID] = true
	}

	for _, a := range req.Answers {
		if !linked[a.QuestionID] {
			return nil, apperror.NotFoundf("question %d is not part of this exam", a.QuestionID)
		}
	}

	responses := make([]dto.AnswerResponse, 0, len(req.Answers))
	for _, a := range req.Answers {
		answer := model.Answer{
			ParticipantID: participant.ID,
			QuestionID:    a.QuestionID,
			Content:       a.Content,
			FileURL:       a.FileURL,
			Status:        model.AnswerStatusPending,
		}
		if err := s.answerRepo.Upsert(&answer); err != nil {
			return nil, err
		}
		var resp dto.AnswerResponse
		copier.Copy(&resp, &answer)
		responses = append(responses, resp)
	}

	if participant.Status == model.ParticipantStatusJoined {
		participant.Status = model.ParticipantStatusInProgress
		if err := s.participantRepo.Update(participant); err != nil {
			return nil, err
		}
	}
	return responses, nil
}

func (s *participationService) Finish(ctx context.Context, examID, studentID uint) (*dto.ParticipantResultResponse, error) {
	participant, err := s.activeParticipant(examID, studentID)
	if err != nil {
		return nil, err
	}

	// Best-effort, same as session start.
	if participant.ProctoringSessionID != nil {
		if err := s.proctor.EndSession(ctx, *participant.ProctoringSessionID); err != nil {
			log.Warn().Err(err).Uint("participant_id", participant.ID).
				Msg("Failed to end proctoring session")
		}
	}

	now := time.Now()
	participant.SubmitTime = &now
	participant.Status = model.ParticipantStatusSubmitted
	if err := s.participantRepo.Update(participant); err != nil {
		return nil, err
	}
	if err := s.examRepo.IncrementSubmittedCount(examID); err != nil {
		log.Error().Err(err).Uint("exam_id", examID).Msg("Failed to increment submitted counter")
	}

	return s.Result(examID, studentID)
}

// Result hides answer detail until the exam has finished, so students cannot
// see scored feedback while others may still be taking the exam.
func (s *participationService) Result(examID, studentID uint) (*dto.ParticipantResultResponse, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("exam %d not found", examID)
		}
		return nil, err
	}

	participant, err := s.participantRepo.FindByExamAndStudent(examID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbiddenf("you have not joined this exam")
		}
		return nil, err
	}

	answered, err := s.answerRepo.CountByParticipant(participant.ID)
	if err != nil {
		return nil, err
	}
	scored, err := s.answerRepo.CountScoredByParticipant(participant.ID)
	if err != nil {
		return nil, err
	}

	result := dto.ParticipantResultResponse{
		ParticipantID: participant.ID,
		ExamID:        examID,
		Status:        participant.Status,
		JoinedAt:      participant.JoinedAt,
		SubmitTime:    participant.SubmitTime,
		AnsweredCount: int(answered),
		ScoredCount:   int(scored),
	}

	if exam.Status == model.ExamStatusFinished || exam.Status == model.ExamStatusPublished {
		result.Score = participant.Score
		answers, err := s.answerRepo.FindAllByParticipant(participant.ID)
		if err != nil {
			return nil, err
		}
		result.Answers = make([]dto.AnswerResponse, len(answers))
		copier.Copy(&result.Answers, &answers)
	}
	return &result, nil
}

func (s *participationService) ListOngoing(page, limit int) ([]dto.ExamResponse, int64, error) {
	exams, total, err := s.examRepo.FindAllByStatus(model.ExamStatusOngoing, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ExamResponse, len(exams))
	copier.Copy(&resp, &exams)
	return resp, total, nil
}

// ExamQuestions lists the linked questions without answer keys or rubrics.
func (s *participationService) ExamQuestions(examID, studentID uint) ([]dto.StudentQuestionResponse, error) {
	if _, err := s.participantRepo.FindByExamAndStudent(examID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbiddenf("you have not joined this exam")
		}
		return nil, err
	}

	links, err := s.examRepo.FindQuestionLinks(examID)
	if err != nil {
		return nil, err
	}
	questions := make([]dto.StudentQuestionResponse, len(links))
	for i, link := range links {
		questions[i] = dto.StudentQuestionResponse{
			ID:      link.QuestionID,
			Type:    link.Question.Type,
			Prompt:  link.Question.Prompt,
			Options: link.Question.Options,
			Order:   link.Order,
			Points:  link.Points,
		}
	}
	return questions, nil
}

func (s *participationService) ListParticipants(examID, teacherID uint) ([]dto.ParticipantSummaryResponse, error) {
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

	participants, err := s.participantRepo.FindAllByExam(examID)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.ParticipantSummaryResponse, len(participants))
	for i, p := range participants {
		summaries[i] = dto.ParticipantSummaryResponse{
			ParticipantID: p.ID,
			StudentID:     p.StudentID,
			StudentName:   p.Student.Name,
			Status:        p.Status,
			JoinedAt:      p.JoinedAt,
			SubmitTime:    p.SubmitTime,
			Score:         p.Score,
		}
	}
	return summaries, nil
}
