package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Exam status values. PUBLISHED is part of the persisted enum: earlier iterations kept
// it only in transition logic, which left the schema and the service layer disagreeing.
const (
	ExamStatusDraft     = "DRAFT"
	ExamStatusOngoing   = "ONGOING"
	ExamStatusFinished  = "FINISHED"
	ExamStatusPublished = "PUBLISHED"
)

// examTransitions is the allowed-transition table. PUBLISHED is terminal.
var examTransitions = map[string][]string{
	ExamStatusDraft:     {ExamStatusOngoing},
	ExamStatusOngoing:   {ExamStatusFinished},
	ExamStatusFinished:  {ExamStatusPublished, ExamStatusOngoing},
	ExamStatusPublished: {},
}

type Exam struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	TeacherID        uint           `json:"teacher_id" gorm:"not null;index"`
	Teacher          User           `json:"-" gorm:"foreignKey:TeacherID"`
	Title            string         `json:"title" gorm:"not null"`
	Description      string         `json:"description,omitempty"`
	Status           string         `json:"status" gorm:"not null;default:'DRAFT';index"`
	StartTime        *time.Time     `json:"start_time,omitempty"`
	EndTime          *time.Time     `json:"end_time,omitempty"`
	DurationMinutes  int            `json:"duration_minutes"`
	Settings         datatypes.JSON `json:"settings,omitempty" gorm:"type:jsonb"` // proctoring on/off, shuffling, etc.
	ParticipantCount int            `json:"participant_count" gorm:"default:0"`
	SubmittedCount   int            `json:"submitted_count" gorm:"default:0"`
	EndedAt          *time.Time     `json:"ended_at,omitempty"`
	Questions        []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanTransition reports whether the exam may move from its current status to target.
func (e *Exam) CanTransition(target string) bool {
	for _, allowed := range examTransitions[e.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Editable reports whether exam metadata (title, window, settings) may be changed.
// Mutations are rejected while the exam is running and after it is published.
func (e *Exam) Editable() bool {
	return e.Status == ExamStatusDraft || e.Status == ExamStatusFinished
}
