package service

import (
	"errors"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/repository"
	"gorm.io/gorm"
)

// AnalyticsService is read-only reporting over the scored data.
type AnalyticsService interface {
	Statistics(examID, teacherID uint) (*dto.ExamStatisticResponse, error)
	QuestionBreakdown(examID, teacherID uint) ([]dto.QuestionBreakdownResponse, error)
	Dashboard(teacherID uint) (*dto.TeacherDashboardResponse, error)
}

type analyticsService struct {
	examRepo        repository.ExamRepository
	questionRepo    repository.QuestionRepository
	materialRepo    repository.MaterialRepository
	participantRepo repository.ParticipantRepository
	answerRepo      repository.AnswerRepository
	statRepo        repository.StatisticRepository
}

func NewAnalyticsService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	materialRepo repository.MaterialRepository,
	participantRepo repository.ParticipantRepository,
	answerRepo repository.AnswerRepository,
	statRepo repository.StatisticRepository,
) AnalyticsService {
	return &analyticsService{
		examRepo:        examRepo,
		questionRepo:    questionRepo,
		materialRepo:    materialRepo,
		participantRepo: participantRepo,
		answerRepo:      answerRepo,
		statRepo:        statRepo,
	}
}

func (s *analyticsService) ownedExam(examID, teacherID uint) error {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("exam %d not found", examID)
		}
		return err
	}
	if exam.TeacherID != teacherID {
		return apperror.NotFoundf("exam %d not found", examID)
	}
	return nil
}

func (s *analyticsService) Statistics(examID, teacherID uint) (*dto.ExamStatisticResponse, error) {
	if err := s.ownedExam(examID, teacherID); err != nil {
		return nil, err
	}
	stat, err := s.statRepo.FindByExam(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The row is created when the exam starts; before that there is
			// nothing to report.
			return &dto.ExamStatisticResponse{ExamID: examID}, nil
		}
		return nil, err
	}
	var resp dto.ExamStatisticResponse
	copier.Copy(&resp, stat)
	return &resp, nil
}

func (s *analyticsService) QuestionBreakdown(examID, teacherID uint) ([]dto.QuestionBreakdownResponse, error) {
	if err := s.ownedExam(examID, teacherID); err != nil {
		return nil, err
	}
	return s.answerRepo.BreakdownByQuestion(examID)
}

// Dashboard aggregates the teacher's totals. The four counts are independent
// queries, so they run concurrently and the first error wins.
func (s *analyticsService) Dashboard(teacherID uint) (*dto.TeacherDashboardResponse, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error

		examsByStatus     map[string]int64
		totalParticipants int64
		totalQuestions    int64
		totalMaterials    int64
	)

	record := func(err error) {
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		counts, err := s.examRepo.CountByTeacherGroupedByStatus(teacherID)
		record(err)
		examsByStatus = counts
	}()
	go func() {
		defer wg.Done()
		count, err := s.participantRepo.CountParticipantsForTeacher(teacherID)
		record(err)
		totalParticipants = count
	}()
	go func() {
		defer wg.Done()
		count, err := s.questionRepo.CountByTeacher(teacherID)
		record(err)
		totalQuestions = count
	}()
	go func() {
		defer wg.Done()
		count, err := s.materialRepo.CountByTeacher(teacherID)
		record(err)
		totalMaterials = count
	}()
	wg.Wait()

	if len(errs) > 0 {
		log.Error().Err(errs[0]).Uint("teacher_id", teacherID).Msg("Failed to build teacher dashboard")
		return nil, errs[0]
	}

	return &dto.TeacherDashboardResponse{
		ExamsByStatus:     examsByStatus,
		TotalParticipants: totalParticipants,
		TotalQuestions:    totalQuestions,
		TotalMaterials:    totalMaterials,
	}, nil
}
