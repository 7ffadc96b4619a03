package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoringService(env *examEnv, scorer EssayScorer) *scoringService {
	return NewScoringService(
		env.examRepo, env.participantRepo, env.answerRepo,
		env.statRepo, env.jobRepo, scorer, env.cfg,
	).(*scoringService)
}

// submittedStudent joins, answers every given question and finishes.
func submittedStudent(t *testing.T, env *examEnv, examID uint, answers map[uint]string) uint {
	t.Helper()
	student := createUser(t, env.db, model.RoleStudent)
	joined, err := env.participationSvc.Join(context.Background(), examID, student.ID)
	require.NoError(t, err)
	for questionID, content := range answers {
		_, err := env.participationSvc.SubmitAnswer(examID, student.ID, dto.SubmitAnswerRequest{
			QuestionID: questionID, Content: content,
		})
		require.NoError(t, err)
	}
	_, err = env.participationSvc.Finish(context.Background(), examID, student.ID)
	require.NoError(t, err)
	return joined.ParticipantID
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "paris", NormalizeAnswer("  Paris "))
	assert.Equal(t, NormalizeAnswer("PARIS"), NormalizeAnswer("paris"))
	assert.NotEqual(t, NormalizeAnswer("Paris"), NormalizeAnswer("London"))
}

func TestScoreParticipantPG(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	svc := newScoringService(env, stubScorer{})

	t.Run("normalized match scores full", func(t *testing.T) {
		participantID := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "  pArIs "})
		require.NoError(t, svc.scoreParticipant(participantID))

		answers, err := env.answerRepo.FindAllByParticipant(participantID)
		require.NoError(t, err)
		require.Len(t, answers, 1)
		require.NotNil(t, answers[0].FinalScore)
		assert.Equal(t, float64(100), *answers[0].FinalScore)
		assert.Equal(t, model.AnswerStatusScored, answers[0].Status)

		participant, err := env.participantRepo.FindByID(participantID)
		require.NoError(t, err)
		require.NotNil(t, participant.Score)
		assert.Equal(t, float64(100), *participant.Score)
		assert.Equal(t, model.ParticipantStatusScored, participant.Status)
	})

	t.Run("wrong answer scores zero", func(t *testing.T) {
		participantID := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "London"})
		require.NoError(t, svc.scoreParticipant(participantID))

		answers, err := env.answerRepo.FindAllByParticipant(participantID)
		require.NoError(t, err)
		require.NotNil(t, answers[0].FinalScore)
		assert.Zero(t, *answers[0].FinalScore)
	})
}

func TestScoreParticipantEssayFallback(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)

	exam, err := env.examSvc.Create(teacher.ID, dto.CreateExamRequest{Title: "Essay exam"})
	require.NoError(t, err)
	essay := createEssayQuestion(t, env.db, teacher.ID)
	require.NoError(t, env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{
		QuestionID: essay.ID, Order: 1,
	}))
	_, err = env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusOngoing)
	require.NoError(t, err)

	t.Run("delegate failure falls back and flags review", func(t *testing.T) {
		svc := newScoringService(env, stubScorer{err: errors.New("model unavailable")})
		participantID := submittedStudent(t, env, exam.ID, map[uint]string{essay.ID: "Plants eat light."})
		require.NoError(t, svc.scoreParticipant(participantID))

		answers, err := env.answerRepo.FindAllByParticipant(participantID)
		require.NoError(t, err)
		require.Len(t, answers, 1)
		require.NotNil(t, answers[0].FinalScore)
		assert.Equal(t, env.cfg.Scoring.FallbackScore, *answers[0].FinalScore)
		assert.True(t, answers[0].NeedsReview)
	})

	t.Run("delegate result is recorded with feedback", func(t *testing.T) {
		svc := newScoringService(env, stubScorer{eval: &EssayEvaluation{Score: 85, Overall: "Solid answer."}})
		participantID := submittedStudent(t, env, exam.ID, map[uint]string{essay.ID: "Light becomes sugar."})
		require.NoError(t, svc.scoreParticipant(participantID))

		answers, err := env.answerRepo.FindAllByParticipant(participantID)
		require.NoError(t, err)
		require.NotNil(t, answers[0].FinalScore)
		assert.Equal(t, float64(85), *answers[0].FinalScore)
		assert.False(t, answers[0].NeedsReview)
		assert.Contains(t, string(answers[0].Feedback), "Solid answer.")
	})
}

func TestParticipantMeanAndStatistics(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)

	exam, err := env.examSvc.Create(teacher.ID, dto.CreateExamRequest{Title: "Mixed"})
	require.NoError(t, err)
	pg := createPGQuestion(t, env.db, teacher.ID, "Paris")
	essay := createEssayQuestion(t, env.db, teacher.ID)
	require.NoError(t, env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{QuestionID: pg.ID, Order: 1}))
	require.NoError(t, env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{QuestionID: essay.ID, Order: 2}))
	_, err = env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusOngoing)
	require.NoError(t, err)

	svc := newScoringService(env, stubScorer{eval: &EssayEvaluation{Score: 60, Overall: "ok"}})

	// Student A: PG right (100) + essay 60 -> mean 80.
	aID := submittedStudent(t, env, exam.ID, map[uint]string{pg.ID: "Paris", essay.ID: "text"})
	// Student B: PG wrong (0) + essay 60 -> mean 30.
	bID := submittedStudent(t, env, exam.ID, map[uint]string{pg.ID: "Rome", essay.ID: "text"})

	require.NoError(t, svc.scoreParticipant(aID))
	require.NoError(t, svc.scoreParticipant(bID))
	require.NoError(t, svc.recomputeStatistics(exam.ID))

	a, err := env.participantRepo.FindByID(aID)
	require.NoError(t, err)
	require.NotNil(t, a.Score)
	assert.InDelta(t, 80, *a.Score, 0.001)

	b, err := env.participantRepo.FindByID(bID)
	require.NoError(t, err)
	require.NotNil(t, b.Score)
	assert.InDelta(t, 30, *b.Score, 0.001)

	stat, err := env.statRepo.FindByExam(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stat.ParticipantCount)
	assert.Equal(t, 2, stat.SubmittedCount)
	assert.Equal(t, 2, stat.ScoredCount)
	assert.InDelta(t, 55, stat.AverageScore, 0.001)
	assert.InDelta(t, 80, stat.MaxScore, 0.001)
	assert.InDelta(t, 30, stat.MinScore, 0.001)
}

func TestOverrideScoreRecomputesAggregates(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	svc := newScoringService(env, stubScorer{})

	participantID := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "London"})
	require.NoError(t, svc.scoreParticipant(participantID))
	require.NoError(t, svc.recomputeStatistics(exam.ID))

	answers, err := env.answerRepo.FindAllByParticipant(participantID)
	require.NoError(t, err)
	require.Len(t, answers, 1)

	updated, err := svc.OverrideScore(answers[0].ID, teacher.ID, dto.OverrideScoreRequest{
		FinalScore: 75, Feedback: "partial credit for reasoning",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FinalScore)
	assert.Equal(t, float64(75), *updated.FinalScore)
	assert.False(t, updated.NeedsReview)

	participant, err := env.participantRepo.FindByID(participantID)
	require.NoError(t, err)
	require.NotNil(t, participant.Score)
	assert.InDelta(t, 75, *participant.Score, 0.001)

	stat, err := env.statRepo.FindByExam(exam.ID)
	require.NoError(t, err)
	assert.InDelta(t, 75, stat.AverageScore, 0.001)
}

func TestOverrideScoreOwnership(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	other := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	svc := newScoringService(env, stubScorer{})

	participantID := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Paris"})
	answers, err := env.answerRepo.FindAllByParticipant(participantID)
	require.NoError(t, err)

	_, err = svc.OverrideScore(answers[0].ID, other.ID, dto.OverrideScoreRequest{FinalScore: 100})
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestTriggerReturnsPendingSnapshot(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	svc := newScoringService(env, stubScorer{})

	submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Paris"})

	resp, err := svc.Trigger(exam.ID, teacher.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Triggered)
	require.Len(t, resp.Jobs, 1)

	// The response reflects enqueue time, not whatever the detached worker
	// has done since.
	assert.Equal(t, model.JobStatePending, resp.Jobs[0].State)
	assert.Nil(t, resp.Jobs[0].StartedAt)
	assert.Nil(t, resp.Jobs[0].FinishedAt)

	require.Eventually(t, func() bool {
		status, err := svc.Status(exam.ID, teacher.ID)
		return err == nil && !status.InProgress
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := env.jobRepo.FindByExam(exam.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, model.JobStateDone, stored[0].State)
}

func TestTriggerScopesToRequestedParticipants(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	svc := newScoringService(env, stubScorer{})

	chosen := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Paris"})
	submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "London"})

	resp, err := svc.Trigger(exam.ID, teacher.ID, []uint{chosen})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Triggered)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, chosen, resp.Jobs[0].ParticipantID)

	require.Eventually(t, func() bool {
		status, err := svc.Status(exam.ID, teacher.ID)
		return err == nil && !status.InProgress
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := env.jobRepo.FindByExam(exam.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, chosen, stored[0].ParticipantID)
}

func TestTriggerAndStatus(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	svc := newScoringService(env, stubScorer{})

	participantID := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Paris"})

	// Drive the jobs synchronously to avoid racing the detached worker.
	jobs := []model.ScoringJob{{ExamID: exam.ID, ParticipantID: participantID, State: model.JobStatePending}}
	require.NoError(t, env.jobRepo.CreateBatch(jobs))
	svc.processBatch(exam.ID, jobs)

	status, err := svc.Status(exam.ID, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalJobs)
	assert.Equal(t, 1, status.Counts[model.JobStateDone])
	assert.False(t, status.InProgress)

	stored, err := env.jobRepo.FindByExam(exam.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, model.JobStateDone, stored[0].State)
	assert.NotNil(t, stored[0].StartedAt)
	assert.NotNil(t, stored[0].FinishedAt)
}
