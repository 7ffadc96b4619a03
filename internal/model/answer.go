package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AnswerStatusPending = "PENDING"
	AnswerStatusScored  = "SCORED"
)

// Answer is one row per (participant, question), upserted in place on resubmission.
type Answer struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ParticipantID uint            `json:"participant_id" gorm:"not null;uniqueIndex:idx_participant_question"`
	Participant   ExamParticipant `json:"-" gorm:"foreignKey:ParticipantID"`
	QuestionID    uint            `json:"question_id" gorm:"not null;uniqueIndex:idx_participant_question"`
	Question      Question        `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Content       string          `json:"content,omitempty" gorm:"type:text"`
	FileURL       *string         `json:"file_url,omitempty"` // image submissions go through OCR scoring
	AIScore       *float64        `json:"ai_score,omitempty"`
	FinalScore    *float64        `json:"final_score,omitempty"` // may be teacher-overridden
	Feedback      datatypes.JSON  `json:"feedback,omitempty" gorm:"type:jsonb"`
	NeedsReview   bool            `json:"needs_review" gorm:"default:false"`
	Status        string          `json:"status" gorm:"not null;default:'PENDING'"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
