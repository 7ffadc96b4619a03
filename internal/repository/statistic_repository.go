package repository

import (
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticRepository interface {
	Init(examID uint) error
	FindByExam(examID uint) (*model.ExamStatistic, error)
	Save(stat *model.ExamStatistic) error
}

type statisticRepository struct {
	db *gorm.DB
}

func NewStatisticRepository(db *gorm.DB) StatisticRepository {
	return &statisticRepository{db: db}
}

// Init creates (or resets) the statistics row with zero values.
func (r *statisticRepository) Init(examID uint) error {
	stat := model.ExamStatistic{ExamID: examID}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "exam_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"average_score", "max_score", "min_score",
			"participant_count", "submitted_count", "scored_count", "updated_at",
		}),
	}).Create(&stat).Error
}

func (r *statisticRepository) FindByExam(examID uint) (*model.ExamStatistic, error) {
	var stat model.ExamStatistic
	if err := r.db.Where("exam_id = ?", examID).First(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *statisticRepository) Save(stat *model.ExamStatistic) error {
	return r.db.Save(stat).Error
}
