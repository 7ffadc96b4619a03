package service

import (
	"testing"

	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamLifecycle(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)

	exam, err := env.examSvc.Create(teacher.ID, dto.CreateExamRequest{Title: "Math Final"})
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusDraft, exam.Status)

	t.Run("cannot start without questions", func(t *testing.T) {
		_, err := env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusOngoing)
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})

	question := createPGQuestion(t, env.db, teacher.ID, "Paris")
	require.NoError(t, env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{
		QuestionID: question.ID, Order: 1, Points: 10,
	}))

	t.Run("attach twice conflicts", func(t *testing.T) {
		err := env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{
			QuestionID: question.ID, Order: 2,
		})
		require.Error(t, err)
		assert.Equal(t, apperror.Conflict, apperror.KindOf(err))
	})

	t.Run("start initializes statistics", func(t *testing.T) {
		updated, err := env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusOngoing)
		require.NoError(t, err)
		assert.Equal(t, model.ExamStatusOngoing, updated.Status)

		stat, err := env.statRepo.FindByExam(exam.ID)
		require.NoError(t, err)
		assert.Zero(t, stat.AverageScore)
	})

	t.Run("question changes rejected outside draft", func(t *testing.T) {
		err := env.examSvc.DetachQuestion(exam.ID, teacher.ID, question.ID)
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})

	t.Run("metadata locked while ongoing", func(t *testing.T) {
		_, err := env.examSvc.Update(exam.ID, teacher.ID, dto.UpdateExamRequest{Title: "Renamed"})
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})

	t.Run("finish stamps ended_at", func(t *testing.T) {
		updated, err := env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusFinished)
		require.NoError(t, err)
		assert.Equal(t, model.ExamStatusFinished, updated.Status)

		stored, err := env.examRepo.FindByID(exam.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.EndedAt)
	})

	t.Run("finished can reopen or publish", func(t *testing.T) {
		_, err := env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusPublished)
		require.NoError(t, err)

		_, err = env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusOngoing)
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})
}

func TestExamTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{model.ExamStatusDraft, model.ExamStatusOngoing, true},
		{model.ExamStatusDraft, model.ExamStatusFinished, false},
		{model.ExamStatusDraft, model.ExamStatusPublished, false},
		{model.ExamStatusOngoing, model.ExamStatusFinished, true},
		{model.ExamStatusOngoing, model.ExamStatusDraft, false},
		{model.ExamStatusFinished, model.ExamStatusOngoing, true},
		{model.ExamStatusFinished, model.ExamStatusPublished, true},
		{model.ExamStatusPublished, model.ExamStatusOngoing, false},
		{model.ExamStatusPublished, model.ExamStatusFinished, false},
	}
	for _, tc := range cases {
		exam := model.Exam{Status: tc.from}
		assert.Equalf(t, tc.allowed, exam.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestExamOwnership(t *testing.T) {
	env := newExamEnv(t)
	owner := createUser(t, env.db, model.RoleTeacher)
	other := createUser(t, env.db, model.RoleTeacher)

	exam, err := env.examSvc.Create(owner.ID, dto.CreateExamRequest{Title: "Private"})
	require.NoError(t, err)

	// Foreign exams look like they do not exist, so ids cannot be probed.
	_, err = env.examSvc.Get(exam.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	_, err = env.examSvc.Transition(exam.ID, other.ID, model.ExamStatusOngoing)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	err = env.examSvc.Delete(exam.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestAttachForeignQuestion(t *testing.T) {
	env := newExamEnv(t)
	owner := createUser(t, env.db, model.RoleTeacher)
	other := createUser(t, env.db, model.RoleTeacher)

	exam, err := env.examSvc.Create(owner.ID, dto.CreateExamRequest{Title: "Quiz"})
	require.NoError(t, err)
	foreignQuestion := createPGQuestion(t, env.db, other.ID, "Paris")

	err = env.examSvc.AttachQuestion(exam.ID, owner.ID, dto.AttachQuestionRequest{
		QuestionID: foreignQuestion.ID, Order: 1,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestReorderQuestions(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)

	exam, err := env.examSvc.Create(teacher.ID, dto.CreateExamRequest{Title: "Ordered"})
	require.NoError(t, err)

	q1 := createPGQuestion(t, env.db, teacher.ID, "A")
	q2 := createPGQuestion(t, env.db, teacher.ID, "B")
	require.NoError(t, env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{QuestionID: q1.ID, Order: 1}))
	require.NoError(t, env.examSvc.AttachQuestion(exam.ID, teacher.ID, dto.AttachQuestionRequest{QuestionID: q2.ID, Order: 2}))

	require.NoError(t, env.examSvc.ReorderQuestions(exam.ID, teacher.ID, []uint{q2.ID, q1.ID}))

	links, err := env.examRepo.FindQuestionLinks(exam.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, q2.ID, links[0].QuestionID)
	assert.Equal(t, q1.ID, links[1].QuestionID)
}

func TestReopenClearsEndTimestamp(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	exam, _ := startedExam(t, env, teacher.ID)

	_, err := env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusFinished)
	require.NoError(t, err)
	finished, err := env.examRepo.FindByID(exam.ID)
	require.NoError(t, err)
	require.NotNil(t, finished.EndedAt)

	_, err = env.examSvc.Transition(exam.ID, teacher.ID, model.ExamStatusOngoing)
	require.NoError(t, err)
	reopened, err := env.examRepo.FindByID(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusOngoing, reopened.Status)
	assert.Nil(t, reopened.EndedAt)
}
