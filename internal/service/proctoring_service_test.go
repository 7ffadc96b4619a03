package service

import (
	"context"
	"testing"

	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/event"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/realtime"
	"github.com/sahabat-guru/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProctoringService(t *testing.T, env *examEnv) ProctoringService {
	t.Helper()
	publisher, err := event.NewPublisher(env.cfg)
	require.NoError(t, err)
	return NewProctoringService(
		env.examRepo, env.participantRepo, repository.NewProctoringRepository(env.db),
		env.hub, publisher, env.cfg,
	)
}

func TestRecordEventRequiresJoin(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	student := createUser(t, env.db, model.RoleStudent)
	exam, _ := startedExam(t, env, teacher.ID)
	svc := newProctoringService(t, env)

	_, err := svc.RecordEvent(exam.ID, student.ID, dto.ProctoringEventRequest{
		EventType: "TAB_SWITCH", Confidence: 0.5,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))
}

func TestRecordEventAlertsOnHighConfidence(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	student := createUser(t, env.db, model.RoleStudent)
	exam, _ := startedExam(t, env, teacher.ID)
	svc := newProctoringService(t, env)

	_, err := env.participationSvc.Join(context.Background(), exam.ID, student.ID)
	require.NoError(t, err)

	watcher := env.hub.Subscribe(realtime.ChannelProctoring, exam.ID, teacher.ID, model.RoleTeacher)
	defer watcher.Close()

	// Below the alert confidence nothing is broadcast.
	_, err = svc.RecordEvent(exam.ID, student.ID, dto.ProctoringEventRequest{
		EventType: "TAB_SWITCH", Confidence: 0.5,
	})
	require.NoError(t, err)
	assert.Empty(t, watcher.C)

	_, err = svc.RecordEvent(exam.ID, student.ID, dto.ProctoringEventRequest{
		EventType: "MULTIPLE_FACES", Confidence: 0.95,
	})
	require.NoError(t, err)

	require.NotEmpty(t, watcher.C)
	evt := <-watcher.C
	assert.Equal(t, realtime.EventAlert, evt.Type)
	assert.Equal(t, exam.ID, evt.ExamID)
}

func TestRecordEventWarnsAtThreshold(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	student := createUser(t, env.db, model.RoleStudent)
	exam, _ := startedExam(t, env, teacher.ID)
	svc := newProctoringService(t, env)

	_, err := env.participationSvc.Join(context.Background(), exam.ID, student.ID)
	require.NoError(t, err)

	watcher := env.hub.Subscribe(realtime.ChannelProctoring, exam.ID, student.ID, model.RoleStudent)
	defer watcher.Close()

	// Threshold is 3 in the test config; the third event triggers the warning.
	for i := 0; i < env.cfg.Proctoring.SuspiciousThreshold; i++ {
		_, err := svc.RecordEvent(exam.ID, student.ID, dto.ProctoringEventRequest{
			EventType: "TAB_SWITCH", Confidence: 0.4,
		})
		require.NoError(t, err)
	}

	var warned bool
	for len(watcher.C) > 0 {
		if evt := <-watcher.C; evt.Type == realtime.EventWarning {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestSuspiciousSummary(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	quiet := createUser(t, env.db, model.RoleStudent)
	noisy := createUser(t, env.db, model.RoleStudent)
	exam, _ := startedExam(t, env, teacher.ID)
	svc := newProctoringService(t, env)

	for _, student := range []*model.User{quiet, noisy} {
		_, err := env.participationSvc.Join(context.Background(), exam.ID, student.ID)
		require.NoError(t, err)
	}

	record := func(studentID uint, n int) {
		for i := 0; i < n; i++ {
			_, err := svc.RecordEvent(exam.ID, studentID, dto.ProctoringEventRequest{
				EventType: "TAB_SWITCH", Confidence: 0.3,
			})
			require.NoError(t, err)
		}
	}
	record(quiet.ID, 1)
	record(noisy.ID, 4)

	summary, err := svc.SuspiciousSummary(exam.ID, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, env.cfg.Proctoring.SuspiciousThreshold, summary.Threshold)
	require.Len(t, summary.Participants, 1)
	assert.Equal(t, noisy.ID, summary.Participants[0].StudentID)
	assert.Equal(t, int64(4), summary.Participants[0].ViolationCount)
}

func TestProctoringOwnership(t *testing.T) {
	env := newExamEnv(t)
	teacher := createUser(t, env.db, model.RoleTeacher)
	other := createUser(t, env.db, model.RoleTeacher)
	exam, _ := startedExam(t, env, teacher.ID)
	svc := newProctoringService(t, env)

	_, _, err := svc.ListEvents(exam.ID, other.ID, nil, 1, 20)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	_, err = svc.SuspiciousSummary(exam.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}
