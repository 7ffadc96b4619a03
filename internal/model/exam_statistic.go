package model

import (
	"time"
)

// ExamStatistic is a derived aggregate, recomputed after each scoring pass.
// It is a cache over the participant rows, not a source of truth.
type ExamStatistic struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	ExamID           uint      `json:"exam_id" gorm:"not null;uniqueIndex"`
	Exam             Exam      `json:"-" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	AverageScore     float64   `json:"average_score"`
	MaxScore         float64   `json:"max_score"`
	MinScore         float64   `json:"min_score"`
	ParticipantCount int       `json:"participant_count"`
	SubmittedCount   int       `json:"submitted_count"`
	ScoredCount      int       `json:"scored_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
