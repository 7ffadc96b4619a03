package service

import (
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/event"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/realtime"
	"github.com/sahabat-guru/backend/internal/repository"
	"gorm.io/gorm"
)

// ExamService owns exam CRUD, the status state machine and question linking.
// Status changes are the only write path that emits exam broadcasts.
type ExamService interface {
	Create(teacherID uint, req dto.CreateExamRequest) (*dto.ExamResponse, error)
	Get(examID, teacherID uint) (*dto.ExamDetailResponse, error)
	List(teacherID uint, filter dto.ExamFilter) ([]dto.ExamResponse, int64, error)
	Update(examID, teacherID uint, req dto.UpdateExamRequest) (*dto.ExamResponse, error)
	Delete(examID, teacherID uint) error
	Transition(examID, teacherID uint, target string) (*dto.ExamResponse, error)

	AttachQuestion(examID, teacherID uint, req dto.AttachQuestionRequest) error
	DetachQuestion(examID, teacherID, questionID uint) error
	ReorderQuestions(examID, teacherID uint, questionIDs []uint) error
}

type examService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	statRepo     repository.StatisticRepository
	hub          *realtime.Hub
	publisher    event.Publisher
}

func NewExamService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	statRepo repository.StatisticRepository,
	hub *realtime.Hub,
	publisher event.Publisher,
) ExamService {
	return &examService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		statRepo:     statRepo,
		hub:          hub,
		publisher:    publisher,
	}
}

// ownedExam loads the exam and enforces ownership. A foreign exam fails
// NotFound, never Forbidden, so existence does not leak to non-owners.
func (s *examService) ownedExam(examID, teacherID uint) (*model.Exam, error) {
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

func (s *examService) Create(teacherID uint, req dto.CreateExamRequest) (*dto.ExamResponse, error) {
	exam := model.Exam{
		TeacherID:       teacherID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          model.ExamStatusDraft,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		Settings:        req.Settings,
	}
	if err := s.examRepo.Create(&exam); err != nil {
		return nil, err
	}

	var resp dto.ExamResponse
	copier.Copy(&resp, &exam)
	return &resp, nil
}

func (s *examService) Get(examID, teacherID uint) (*dto.ExamDetailResponse, error) {
	if _, err := s.ownedExam(examID, teacherID); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		return nil, err
	}

	var resp dto.ExamDetailResponse
	copier.Copy(&resp.ExamResponse, exam)
	resp.QuestionCount = len(exam.Questions)
	resp.Questions = make([]dto.ExamQuestionResponse, len(exam.Questions))
	for i, link := range exam.Questions {
		resp.Questions[i] = dto.ExamQuestionResponse{
			QuestionID: link.QuestionID,
			Order:      link.Order,
			Points:     link.Points,
		}
		copier.Copy(&resp.Questions[i].Question, &link.Question)
	}
	return &resp, nil
}

func (s *examService) List(teacherID uint, filter dto.ExamFilter) ([]dto.ExamResponse, int64, error) {
	exams, total, err := s.examRepo.FindAllByTeacher(teacherID, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ExamResponse, len(exams))
	copier.Copy(&resp, &exams)
	return resp, total, nil
}

func (s *examService) Update(examID, teacherID uint, req dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	exam, err := s.ownedExam(examID, teacherID)
	if err != nil {
		return nil, err
	}
	if !exam.Editable() {
		return nil, apperror.BadRequestf("exam cannot be edited while status is %s", exam.Status)
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.Description != "" {
		exam.Description = req.Description
	}
	if req.StartTime != nil {
		exam.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		exam.EndTime = req.EndTime
	}
	if req.DurationMinutes > 0 {
		exam.DurationMinutes = req.DurationMinutes
	}
	if req.Settings != nil {
		exam.Settings = req.Settings
	}

	if err := s.examRepo.Update(exam); err != nil {
		return nil, err
	}
	var resp dto.ExamResponse
	copier.Copy(&resp, exam)
	return &resp, nil
}

func (s *examService) Delete(examID, teacherID uint) error {
	if _, err := s.ownedExam(examID, teacherID); err != nil {
		return err
	}
	return s.examRepo.Delete(examID)
}

// Transition moves the exam through DRAFT -> ONGOING -> FINISHED -> PUBLISHED
// (FINISHED may also be reopened to ONGOING). PUBLISHED is terminal.
func (s *examService) Transition(examID, teacherID uint, target string) (*dto.ExamResponse, error) {
	exam, err := s.ownedExam(examID, teacherID)
	if err != nil {
		return nil, err
	}
	if !exam.CanTransition(target) {
		return nil, apperror.BadRequestf("cannot transition exam from %s to %s", exam.Status, target)
	}

	switch target {
	case model.ExamStatusOngoing:
		if exam.Status == model.ExamStatusDraft {
			count, err := s.examRepo.CountQuestions(examID)
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return nil, apperror.BadRequestf("exam has no questions and cannot be started")
			}
			if err := s.statRepo.Init(examID); err != nil {
				return nil, err
			}
		}
		// A reopened exam is running again; the old end timestamp no longer holds.
		exam.EndedAt = nil
	case model.ExamStatusFinished:
		now := time.Now()
		exam.EndedAt = &now
	}

	exam.Status = target
	if err := s.examRepo.Update(exam); err != nil {
		return nil, err
	}

	switch target {
	case model.ExamStatusOngoing:
		s.broadcast(exam, realtime.EventStart)
	case model.ExamStatusFinished:
		s.broadcast(exam, realtime.EventEnd)
	}

	log.Info().Uint("exam_id", examID).Str("status", target).Msg("Exam status changed")

	var resp dto.ExamResponse
	copier.Copy(&resp, exam)
	return &resp, nil
}

func (s *examService) broadcast(exam *model.Exam, eventType string) {
	payload := map[string]interface{}{"exam_id": exam.ID, "title": exam.Title, "status": exam.Status}
	s.hub.Publish(realtime.ChannelExam, exam.ID, eventType, payload)
	if err := s.publisher.Publish("exam."+eventType, payload); err != nil {
		log.Warn().Err(err).Uint("exam_id", exam.ID).Msg("Failed to publish exam event to broker")
	}
}

func (s *examService) AttachQuestion(examID, teacherID uint, req dto.AttachQuestionRequest) error {
	exam, err := s.ownedExam(examID, teacherID)
	if err != nil {
		return err
	}
	if exam.Status != model.ExamStatusDraft {
		return apperror.BadRequestf("questions can only be changed while the exam is in DRAFT")
	}

	question, err := s.questionRepo.FindByID(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("question %d not found", req.QuestionID)
		}
		return err
	}
	if question.TeacherID != teacherID {
		return apperror.NotFoundf("question %d not found", req.QuestionID)
	}

	link := model.ExamQuestion{
		ExamID:     examID,
		QuestionID: req.QuestionID,
		Order:      req.Order,
		Points:     req.Points,
	}
	if err := s.examRepo.AttachQuestion(&link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflictf("question %d is already linked to this exam", req.QuestionID)
		}
		return err
	}
	return nil
}

func (s *examService) DetachQuestion(examID, teacherID, questionID uint) error {
	exam, err := s.ownedExam(examID, teacherID)
	if err != nil {
		return err
	}
	if exam.Status != model.ExamStatusDraft {
		return apperror.BadRequestf("questions can only be changed while the exam is in DRAFT")
	}
	return s.examRepo.DetachQuestion(examID, questionID)
}

func (s *examService) ReorderQuestions(examID, teacherID uint, questionIDs []uint) error {
	exam, err := s.ownedExam(examID, teacherID)
	if err != nil {
		return err
	}
	if exam.Status != model.ExamStatusDraft {
		return apperror.BadRequestf("questions can only be changed while the exam is in DRAFT")
	}
	return s.examRepo.ReorderQuestions(examID, questionIDs)
}
