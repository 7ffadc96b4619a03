package service

import (
	"testing"

	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService(env *examEnv) AnalyticsService {
	return NewAnalyticsService(
		env.examRepo, env.questionRepo, repository.NewMaterialRepository(env.db),
		env.participantRepo, env.answerRepo, env.statRepo,
	)
}

func TestStatisticsBeforeStartIsZeroValued(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, err := env.examSvc.Create(teacher.ID, dto.CreateExamRequest{Title: "Unstarted"})
	require.NoError(t, err)

	svc := newAnalyticsService(env)
	stat, err := svc.Statistics(exam.ID, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.ID, stat.ExamID)
	assert.Zero(t, stat.ParticipantCount)
	assert.Zero(t, stat.AverageScore)
}

func TestStatisticsOwnership(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	other := createUser(t, env.db, model.RoleTeacher)
	exam, _ := startedExam(t, env, teacher.ID)

	svc := newAnalyticsService(env)
	_, err := svc.Statistics(exam.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	_, err = svc.QuestionBreakdown(exam.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestQuestionBreakdown(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	scoring := newScoringService(env, stubScorer{})

	right := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Paris"})
	wrong := submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Oslo"})
	require.NoError(t, scoring.scoreParticipant(right))
	require.NoError(t, scoring.scoreParticipant(wrong))

	svc := newAnalyticsService(env)
	rows, err := svc.QuestionBreakdown(exam.ID, teacher.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, question.ID, rows[0].QuestionID)
	assert.Equal(t, int64(2), rows[0].AnswerCount)
	assert.Equal(t, int64(1), rows[0].CorrectCount)
	assert.InDelta(t, 50, rows[0].AverageScore, 0.001)
}

func TestDashboardAggregates(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, question := startedExam(t, env, teacher.ID)
	_, err := env.examSvc.Create(teacher.ID, dto.CreateExamRequest{Title: "Second draft"})
	require.NoError(t, err)
	submittedStudent(t, env, exam.ID, map[uint]string{question.ID: "Paris"})

	svc := newAnalyticsService(env)
	dashboard, err := svc.Dashboard(teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.ExamsByStatus[model.ExamStatusOngoing])
	assert.Equal(t, int64(1), dashboard.ExamsByStatus[model.ExamStatusDraft])
	assert.Equal(t, int64(1), dashboard.TotalParticipants)
	assert.Equal(t, int64(1), dashboard.TotalQuestions)
	assert.Zero(t, dashboard.TotalMaterials)
}
