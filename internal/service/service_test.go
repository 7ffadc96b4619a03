package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/sahabat-guru/backend/config"
	"github.com/sahabat-guru/backend/internal/event"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/realtime"
	"github.com/sahabat-guru/backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// An in-memory sqlite database exists per connection; pin the pool to one
	// so the scoring worker goroutine sees the same data as the test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Material{},
		&model.Question{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamParticipant{},
		&model.Answer{},
		&model.ExamStatistic{},
		&model.ProctoringLog{},
		&model.ScoringJob{},
	))
	return db
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTTLMinutes = 15
	cfg.JWT.RefreshTTLHours = 24
	cfg.Proctoring.SuspiciousThreshold = 3
	cfg.Proctoring.AlertConfidence = 0.8
	cfg.Scoring.FallbackScore = 50
	return cfg
}

func createUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	user := model.User{
		Name:     fmt.Sprintf("%s-user", role),
		Email:    fmt.Sprintf("%s-%d@test.local", role, nextSeq()),
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

var seq int

func nextSeq() int {
	seq++
	return seq
}

func createPGQuestion(t *testing.T, db *gorm.DB, teacherID uint, answerKey string) *model.Question {
	t.Helper()
	q := model.Question{
		TeacherID: teacherID,
		Type:      model.QuestionTypePG,
		Prompt:    "What is the capital of France?",
		Options:   []byte(`["Paris","London","Berlin"]`),
		AnswerKey: answerKey,
	}
	require.NoError(t, db.Create(&q).Error)
	return &q
}

func createEssayQuestion(t *testing.T, db *gorm.DB, teacherID uint) *model.Question {
	t.Helper()
	q := model.Question{
		TeacherID: teacherID,
		Type:      model.QuestionTypeEssay,
		Prompt:    "Explain photosynthesis.",
		AnswerKey: "Plants convert light into chemical energy.",
		Rubric:    []byte(`{"accuracy":60,"clarity":40}`),
	}
	require.NoError(t, db.Create(&q).Error)
	return &q
}

// examEnv bundles the repositories and services most tests need.
type examEnv struct {
	db              *gorm.DB
	cfg             *config.Config
	hub             *realtime.Hub
	examRepo        repository.ExamRepository
	questionRepo    repository.QuestionRepository
	participantRepo repository.ParticipantRepository
	answerRepo      repository.AnswerRepository
	statRepo        repository.StatisticRepository
	jobRepo         repository.ScoringJobRepository
	examSvc         ExamService
	participationSvc ParticipationService
}

func newExamEnv(t *testing.T) *examEnv {
	t.Helper()
	db := newTestDB(t)
	hub := realtime.NewHub()
	env := &examEnv{
		db:              db,
		cfg:             newTestConfig(),
		hub:             hub,
		examRepo:        repository.NewExamRepository(db),
		questionRepo:    repository.NewQuestionRepository(db),
		participantRepo: repository.NewParticipantRepository(db),
		answerRepo:      repository.NewAnswerRepository(db),
		statRepo:        repository.NewStatisticRepository(db),
		jobRepo:         repository.NewScoringJobRepository(db),
	}
	publisher, err := event.NewPublisher(env.cfg)
	require.NoError(t, err)
	env.examSvc = NewExamService(env.examRepo, env.questionRepo, env.statRepo, hub, publisher)
	env.participationSvc = NewParticipationService(env.examRepo, env.participantRepo, env.answerRepo, NewProctorClient(env.cfg))
	return env
}

// stubScorer is a canned EssayScorer for pipeline tests.
type stubScorer struct {
	eval *EssayEvaluation
	err  error
}

func (s stubScorer) ScoreEssay(context.Context, *model.Question, *model.Answer) (*EssayEvaluation, error) {
	return s.eval, s.err
}
