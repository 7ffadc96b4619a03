package repository

import (
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
)

type ParticipantRepository interface {
	Create(participant *model.ExamParticipant) error
	FindByID(id uint) (*model.ExamParticipant, error)
	FindByExamAndStudent(examID, studentID uint) (*model.ExamParticipant, error)
	FindAllByExam(examID uint) ([]model.ExamParticipant, error)
	FindSubmittedByExam(examID uint, participantIDs []uint) ([]model.ExamParticipant, error)
	CountParticipantsForTeacher(teacherID uint) (int64, error)
	Update(participant *model.ExamParticipant) error
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(participant *model.ExamParticipant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepository) FindByID(id uint) (*model.ExamParticipant, error) {
	var participant model.ExamParticipant
	if err := r.db.First(&participant, id).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) FindByExamAndStudent(examID, studentID uint) (*model.ExamParticipant, error) {
	var participant model.ExamParticipant
	err := r.db.Where("exam_id = ? AND student_id = ?", examID, studentID).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) FindAllByExam(examID uint) ([]model.ExamParticipant, error) {
	var participants []model.ExamParticipant
	err := r.db.Preload("Student").Where("exam_id = ?", examID).Order("joined_at ASC").Find(&participants).Error
	return participants, err
}

// FindSubmittedByExam returns participants with a final submit timestamp,
// optionally restricted to the given subset of ids.
func (r *participantRepository) FindSubmittedByExam(examID uint, participantIDs []uint) ([]model.ExamParticipant, error) {
	var participants []model.ExamParticipant
	query := r.db.Where("exam_id = ? AND submit_time IS NOT NULL", examID)
	if len(participantIDs) > 0 {
		query = query.Where("id IN ?", participantIDs)
	}
	err := query.Find(&participants).Error
	return participants, err
}

func (r *participantRepository) CountParticipantsForTeacher(teacherID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamParticipant{}).
		Joins("JOIN exams ON exams.id = exam_participants.exam_id").
		Where("exams.teacher_id = ?", teacherID).
		Count(&count).Error
	return count, err
}

func (r *participantRepository) Update(participant *model.ExamParticipant) error {
	return r.db.Save(participant).Error
}
