package dto

import (
	"time"

	"gorm.io/datatypes"
)

type ProctoringEventRequest struct {
	EventType  string         `json:"event_type" binding:"required"`
	Confidence float64        `json:"confidence" binding:"min=0,max=1"`
	Detail     datatypes.JSON `json:"detail,omitempty"`
}

type ProctoringLogResponse struct {
	ID         uint           `json:"id"`
	ExamID     uint           `json:"exam_id"`
	StudentID  uint           `json:"student_id"`
	EventType  string         `json:"event_type"`
	Confidence float64        `json:"confidence"`
	Detail     datatypes.JSON `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type SuspiciousParticipantResponse struct {
	StudentID      uint  `json:"student_id"`
	ViolationCount int64 `json:"violation_count"`
}

type SuspiciousSummaryResponse struct {
	ExamID       uint                            `json:"exam_id"`
	Threshold    int                             `json:"threshold"`
	Participants []SuspiciousParticipantResponse `json:"participants"`
}
