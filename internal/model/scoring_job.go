package model

import (
	"time"
)

// Scoring job states: pending -> processing -> done | failed.
const (
	JobStatePending    = "pending"
	JobStateProcessing = "processing"
	JobStateDone       = "done"
	JobStateFailed     = "failed"
)

// ScoringJob is the durable scoring queue entry, one per participant per trigger.
// Keeping jobs in the database means pending work survives a restart and the
// status endpoint reads real state instead of a process-local map.
type ScoringJob struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ExamID        uint            `json:"exam_id" gorm:"not null;index"`
	ParticipantID uint            `json:"participant_id" gorm:"not null;index"`
	Participant   ExamParticipant `json:"-" gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`
	State         string          `json:"state" gorm:"not null;default:'pending';index"`
	Error         string          `json:"error,omitempty" gorm:"type:text"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	FinishedAt    *time.Time      `json:"finished_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
