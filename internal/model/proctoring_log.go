package model

import (
	"time"

	"gorm.io/datatypes"
)

// ProctoringLog is an append-only event record feeding suspicious-activity counts.
type ProctoringLog struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ExamID     uint           `json:"exam_id" gorm:"not null;index:idx_proctoring_exam_student"`
	Exam       Exam           `json:"-" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	StudentID  uint           `json:"student_id" gorm:"not null;index:idx_proctoring_exam_student"`
	EventType  string         `json:"event_type" gorm:"not null"` // tab_switch, face_missing, multiple_faces, ...
	Confidence float64        `json:"confidence"`
	Detail     datatypes.JSON `json:"detail,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"created_at"`
}
