package repository

import (
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	Upsert(answer *model.Answer) error
	FindByID(id uint) (*model.Answer, error)
	FindByIDWithExam(id uint) (*model.Answer, error)
	FindAllByParticipant(participantID uint) ([]model.Answer, error)
	FindUnscoredByParticipant(participantID uint) ([]model.Answer, error)
	CountByParticipant(participantID uint) (int64, error)
	CountScoredByParticipant(participantID uint) (int64, error)
	Update(answer *model.Answer) error
	BreakdownByQuestion(examID uint) ([]dto.QuestionBreakdownResponse, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Upsert writes the answer keyed by (participant_id, question_id): a
// resubmission before the final submit overwrites the content in place.
func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "file_url", "updated_at"}),
	}).Create(answer).Error
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// FindByIDWithExam preloads the owning participant and exam for ownership checks.
func (r *answerRepository) FindByIDWithExam(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Preload("Participant").Preload("Participant.Exam").Preload("Question").
		First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindAllByParticipant(participantID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Preload("Question").Where("participant_id = ?", participantID).Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindUnscoredByParticipant(participantID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Preload("Question").
		Where("participant_id = ? AND status = ?", participantID, model.AnswerStatusPending).
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByParticipant(participantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("participant_id = ?", participantID).Count(&count).Error
	return count, err
}

func (r *answerRepository) CountScoredByParticipant(participantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("participant_id = ? AND status = ?", participantID, model.AnswerStatusScored).
		Count(&count).Error
	return count, err
}

func (r *answerRepository) Update(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) BreakdownByQuestion(examID uint) ([]dto.QuestionBreakdownResponse, error) {
	var rows []dto.QuestionBreakdownResponse
	err := r.db.Model(&model.Answer{}).
		Select(`answers.question_id,
			questions.type,
			COUNT(answers.id) as answer_count,
			COALESCE(AVG(answers.final_score), 0) as average_score,
			SUM(CASE WHEN answers.final_score = 100 THEN 1 ELSE 0 END) as correct_count`).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN exam_participants ON exam_participants.id = answers.participant_id").
		Where("exam_participants.exam_id = ?", examID).
		Group("answers.question_id, questions.type").
		Scan(&rows).Error
	return rows, err
}
