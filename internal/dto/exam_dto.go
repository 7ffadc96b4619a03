package dto

import (
	"time"

	"gorm.io/datatypes"
)

type CreateExamRequest struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description,omitempty"`
	StartTime       *time.Time     `json:"start_time,omitempty"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	DurationMinutes int            `json:"duration_minutes" binding:"omitempty,min=1"`
	Settings        datatypes.JSON `json:"settings,omitempty"`
}

type UpdateExamRequest struct {
	Title           string         `json:"title,omitempty"`
	Description     string         `json:"description,omitempty"`
	StartTime       *time.Time     `json:"start_time,omitempty"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	DurationMinutes int            `json:"duration_minutes,omitempty" binding:"omitempty,min=1"`
	Settings        datatypes.JSON `json:"settings,omitempty"`
}

type TransitionExamRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT ONGOING FINISHED PUBLISHED"`
}

type AttachQuestionRequest struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Order      int     `json:"order" binding:"required,min=1"`
	Points     float64 `json:"points" binding:"omitempty,min=0"`
}

type ReorderQuestionsRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
}

type ExamResponse struct {
	ID               uint           `json:"id"`
	TeacherID        uint           `json:"teacher_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Status           string         `json:"status"`
	StartTime        *time.Time     `json:"start_time,omitempty"`
	EndTime          *time.Time     `json:"end_time,omitempty"`
	DurationMinutes  int            `json:"duration_minutes"`
	Settings         datatypes.JSON `json:"settings,omitempty"`
	ParticipantCount int            `json:"participant_count"`
	SubmittedCount   int            `json:"submitted_count"`
	QuestionCount    int            `json:"question_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ExamDetailResponse struct {
	ExamResponse
	Questions []ExamQuestionResponse `json:"questions,omitempty"`
}

type ExamQuestionResponse struct {
	QuestionID uint    `json:"question_id"`
	Order      int     `json:"order"`
	Points     float64 `json:"points"`
	Question   QuestionResponse `json:"question"`
}

type ExamFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT ONGOING FINISHED PUBLISHED"`
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}
