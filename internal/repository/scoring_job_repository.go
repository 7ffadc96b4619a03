package repository

import (
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
)

type ScoringJobRepository interface {
	CreateBatch(jobs []model.ScoringJob) error
	Update(job *model.ScoringJob) error
	FindByExam(examID uint) ([]model.ScoringJob, error)
	CountsByState(examID uint) (map[string]int, error)
}

type scoringJobRepository struct {
	db *gorm.DB
}

func NewScoringJobRepository(db *gorm.DB) ScoringJobRepository {
	return &scoringJobRepository{db: db}
}

func (r *scoringJobRepository) CreateBatch(jobs []model.ScoringJob) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.Create(&jobs).Error
}

func (r *scoringJobRepository) Update(job *model.ScoringJob) error {
	return r.db.Save(job).Error
}

func (r *scoringJobRepository) FindByExam(examID uint) ([]model.ScoringJob, error) {
	var jobs []model.ScoringJob
	err := r.db.Where("exam_id = ?", examID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *scoringJobRepository) CountsByState(examID uint) (map[string]int, error) {
	var rows []struct {
		State string
		Count int
	}
	err := r.db.Model(&model.ScoringJob{}).
		Select("state, COUNT(*) as count").
		Where("exam_id = ?", examID).
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}
