package repository

import (
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindByIDWithQuestions(id uint) (*model.Exam, error)
	FindAllByTeacher(teacherID uint, filter dto.ExamFilter) ([]model.Exam, int64, error)
	FindAllByStatus(status string, page, limit int) ([]model.Exam, int64, error)
	Update(exam *model.Exam) error
	Delete(id uint) error

	CountQuestions(examID uint) (int64, error)
	AttachQuestion(link *model.ExamQuestion) error
	DetachQuestion(examID, questionID uint) error
	FindQuestionLinks(examID uint) ([]model.ExamQuestion, error)
	ReorderQuestions(examID uint, questionIDs []uint) error

	IncrementParticipantCount(examID uint) error
	IncrementSubmittedCount(examID uint) error
	CountByTeacherGroupedByStatus(teacherID uint) (map[string]int64, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("exam_questions.question_order ASC")
	}).Preload("Questions.Question").First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAllByTeacher(teacherID uint, filter dto.ExamFilter) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	query := r.db.Model(&model.Exam{}).Where("teacher_id = ?", teacherID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&exams).Error
	return exams, total, err
}

func (r *examRepository) FindAllByStatus(status string, page, limit int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	query := r.db.Model(&model.Exam{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("start_time ASC").Offset((page - 1) * limit).Limit(limit).Find(&exams).Error
	return exams, total, err
}

func (r *examRepository) Update(exam *model.Exam) error {
	return r.db.Save(exam).Error
}

// Delete removes the exam; question links, participants, logs and statistics
// go with it through the cascade constraints.
func (r *examRepository) Delete(id uint) error {
	return r.db.Select("Questions").Delete(&model.Exam{ID: id}).Error
}

func (r *examRepository) CountQuestions(examID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamQuestion{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *examRepository) AttachQuestion(link *model.ExamQuestion) error {
	return r.db.Create(link).Error
}

func (r *examRepository) DetachQuestion(examID, questionID uint) error {
	return r.db.Where("exam_id = ? AND question_id = ?", examID, questionID).
		Delete(&model.ExamQuestion{}).Error
}

func (r *examRepository) FindQuestionLinks(examID uint) ([]model.ExamQuestion, error) {
	var links []model.ExamQuestion
	err := r.db.Preload("Question").
		Where("exam_id = ?", examID).
		Order("question_order ASC").
		Find(&links).Error
	return links, err
}

func (r *examRepository) ReorderQuestions(examID uint, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, qid := range questionIDs {
			err := tx.Model(&model.ExamQuestion{}).
				Where("exam_id = ? AND question_id = ?", examID, qid).
				Update("question_order", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *examRepository) IncrementParticipantCount(examID uint) error {
	return r.db.Model(&model.Exam{}).Where("id = ?", examID).
		UpdateColumn("participant_count", gorm.Expr("participant_count + 1")).Error
}

func (r *examRepository) IncrementSubmittedCount(examID uint) error {
	return r.db.Model(&model.Exam{}).Where("id = ?", examID).
		UpdateColumn("submitted_count", gorm.Expr("submitted_count + 1")).Error
}

func (r *examRepository) CountByTeacherGroupedByStatus(teacherID uint) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&model.Exam{}).
		Select("status, COUNT(*) as count").
		Where("teacher_id = ?", teacherID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
