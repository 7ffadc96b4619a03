package repository

import (
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
)

type ProctoringRepository interface {
	Create(logEntry *model.ProctoringLog) error
	FindAllByExam(examID uint, studentID *uint, page, limit int) ([]model.ProctoringLog, int64, error)
	CountForStudent(examID, studentID uint) (int64, error)
	ViolationCounts(examID uint, minCount int) ([]dto.SuspiciousParticipantResponse, error)
}

type proctoringRepository struct {
	db *gorm.DB
}

func NewProctoringRepository(db *gorm.DB) ProctoringRepository {
	return &proctoringRepository{db: db}
}

func (r *proctoringRepository) Create(logEntry *model.ProctoringLog) error {
	return r.db.Create(logEntry).Error
}

func (r *proctoringRepository) FindAllByExam(examID uint, studentID *uint, page, limit int) ([]model.ProctoringLog, int64, error) {
	var logs []model.ProctoringLog
	var total int64

	query := r.db.Model(&model.ProctoringLog{}).Where("exam_id = ?", examID)
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&logs).Error
	return logs, total, err
}

func (r *proctoringRepository) CountForStudent(examID, studentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProctoringLog{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	return count, err
}

// ViolationCounts groups events per student and keeps those at or above minCount.
func (r *proctoringRepository) ViolationCounts(examID uint, minCount int) ([]dto.SuspiciousParticipantResponse, error) {
	var rows []dto.SuspiciousParticipantResponse
	err := r.db.Model(&model.ProctoringLog{}).
		Select("student_id, COUNT(*) as violation_count").
		Where("exam_id = ?", examID).
		Group("student_id").
		Having("COUNT(*) >= ?", minCount).
		Order("violation_count DESC").
		Scan(&rows).Error
	return rows, err
}
