package service

import (
	"errors"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/event"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/realtime"
	"github.com/sahabat-guru/backend/internal/repository"
	"gorm.io/gorm"
)

// ProctoringService records suspicious-activity events from exam takers and
// surfaces them to the observing teacher.
type ProctoringService interface {
	RecordEvent(examID, studentID uint, req dto.ProctoringEventRequest) (*dto.ProctoringLogResponse, error)
	ListEvents(examID, teacherID uint, studentID *uint, page, limit int) ([]dto.ProctoringLogResponse, int64, error)
	SuspiciousSummary(examID, teacherID uint) (*dto.SuspiciousSummaryResponse, error)
}

type proctoringService struct {
	examRepo        repository.ExamRepository
	participantRepo repository.ParticipantRepository
	proctoringRepo  repository.ProctoringRepository
	hub             *realtime.Hub
	publisher       event.Publisher
	cfg             *config.Config
}

func NewProctoringService(
	examRepo repository.ExamRepository,
	participantRepo repository.ParticipantRepository,
	proctoringRepo repository.ProctoringRepository,
	hub *realtime.Hub,
	publisher event.Publisher,
	cfg *config.Config,
) ProctoringService {
	return &proctoringService{
		examRepo:        examRepo,
		participantRepo: participantRepo,
		proctoringRepo:  proctoringRepo,
		hub:             hub,
		publisher:       publisher,
		cfg:             cfg,
	}
}

// RecordEvent appends the event, alerts observing teachers on high-confidence
// detections, and warns the student once their event count crosses the
// suspicious threshold.
func (s *proctoringService) RecordEvent(examID, studentID uint, req dto.ProctoringEventRequest) (*dto.ProctoringLogResponse, error) {
	if _, err := s.participantRepo.FindByExamAndStudent(examID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbiddenf("you have not joined this exam")
		}
		return nil, err
	}

	logEntry := model.ProctoringLog{
		ExamID:     examID,
		StudentID:  studentID,
		EventType:  req.EventType,
		Confidence: req.Confidence,
		Detail:     req.Detail,
	}
	if err := s.proctoringRepo.Create(&logEntry); err != nil {
		return nil, err
	}

	if req.Confidence >= s.cfg.Proctoring.AlertConfidence {
		payload := map[string]interface{}{
			"student_id": studentID,
			"event_type": req.EventType,
			"confidence": req.Confidence,
		}
		s.hub.Publish(realtime.ChannelProctoring, examID, realtime.EventAlert, payload)
		if err := s.publisher.Publish("proctoring.alert", payload); err != nil {
			log.Warn().Err(err).Uint("exam_id", examID).Msg("Failed to publish proctoring alert to broker")
		}
	}

	count, err := s.proctoringRepo.CountForStudent(examID, studentID)
	if err != nil {
		log.Error().Err(err).Uint("exam_id", examID).Uint("student_id", studentID).
			Msg("Failed to count proctoring events")
	} else if count >= int64(s.cfg.Proctoring.SuspiciousThreshold) {
		s.hub.Publish(realtime.ChannelProctoring, examID, realtime.EventWarning, map[string]interface{}{
			"student_id":  studentID,
			"event_count": count,
		})
	}

	var resp dto.ProctoringLogResponse
	copier.Copy(&resp, &logEntry)
	return &resp, nil
}

func (s *proctoringService) ownedExam(examID, teacherID uint) error {
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

func (s *proctoringService) ListEvents(examID, teacherID uint, studentID *uint, page, limit int) ([]dto.ProctoringLogResponse, int64, error) {
	if err := s.ownedExam(examID, teacherID); err != nil {
		return nil, 0, err
	}
	logs, total, err := s.proctoringRepo.FindAllByExam(examID, studentID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ProctoringLogResponse, len(logs))
	copier.Copy(&resp, &logs)
	return resp, total, nil
}

func (s *proctoringService) SuspiciousSummary(examID, teacherID uint) (*dto.SuspiciousSummaryResponse, error) {
	if err := s.ownedExam(examID, teacherID); err != nil {
		return nil, err
	}
	threshold := s.cfg.Proctoring.SuspiciousThreshold
	rows, err := s.proctoringRepo.ViolationCounts(examID, threshold)
	if err != nil {
		return nil, err
	}
	return &dto.SuspiciousSummaryResponse{
		ExamID:       examID,
		Threshold:    threshold,
		Participants: rows,
	}, nil
}
