package dto

import (
	"time"

	"gorm.io/datatypes"
)

type CreateQuestionRequest struct {
	Type       string         `json:"type" binding:"required,oneof=PG ESSAY"`
	Prompt     string         `json:"prompt" binding:"required"`
	Options    []string       `json:"options,omitempty"` // PG only
	AnswerKey  string         `json:"answer_key,omitempty"`
	Rubric     datatypes.JSON `json:"rubric,omitempty"` // ESSAY only
	Difficulty string         `json:"difficulty,omitempty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	Category   string         `json:"category,omitempty"`
	IsHOTS     bool           `json:"is_hots"`
}

type UpdateQuestionRequest struct {
	Prompt     string         `json:"prompt,omitempty"`
	Options    []string       `json:"options,omitempty"`
	AnswerKey  string         `json:"answer_key,omitempty"`
	Rubric     datatypes.JSON `json:"rubric,omitempty"`
	Difficulty string         `json:"difficulty,omitempty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	Category   string         `json:"category,omitempty"`
	IsHOTS     *bool          `json:"is_hots,omitempty"`
}

type QuestionResponse struct {
	ID         uint           `json:"id"`
	TeacherID  uint           `json:"teacher_id"`
	Type       string         `json:"type"`
	Prompt     string         `json:"prompt"`
	Options    datatypes.JSON `json:"options,omitempty"`
	AnswerKey  string         `json:"answer_key,omitempty"`
	Rubric     datatypes.JSON `json:"rubric,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
	Category   string         `json:"category,omitempty"`
	IsHOTS     bool           `json:"is_hots"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// StudentQuestionResponse hides the answer key and rubric from exam takers.
type StudentQuestionResponse struct {
	ID      uint           `json:"id"`
	Type    string         `json:"type"`
	Prompt  string         `json:"prompt"`
	Options datatypes.JSON `json:"options,omitempty"`
	Order   int            `json:"order"`
	Points  float64        `json:"points"`
}

type QuestionFilter struct {
	Type       string `form:"type" binding:"omitempty,oneof=PG ESSAY"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	HOTS       *bool  `form:"hots"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}
