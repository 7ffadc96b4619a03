package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ParticipantStatusJoined     = "JOINED"
	ParticipantStatusInProgress = "IN_PROGRESS"
	ParticipantStatusSubmitted  = "SUBMITTED"
	ParticipantStatusScored     = "SCORED"
)

// ExamParticipant is one row per (exam, student), created on join.
type ExamParticipant struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	ExamID              uint           `json:"exam_id" gorm:"not null;uniqueIndex:idx_exam_student"`
	Exam                Exam           `json:"-" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	StudentID           uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_exam_student"`
	Student             User           `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Status              string         `json:"status" gorm:"not null;default:'JOINED'"`
	JoinedAt            time.Time      `json:"joined_at"`
	SubmitTime          *time.Time     `json:"submit_time,omitempty"`
	Score               *float64       `json:"score,omitempty"`
	ProctoringSessionID *string        `json:"proctoring_session_id,omitempty"`
	Answers             []Answer       `json:"answers,omitempty" gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// Submitted reports whether the participant has finalized their submission.
func (p *ExamParticipant) Submitted() bool {
	return p.SubmitTime != nil
}
