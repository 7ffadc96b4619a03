package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypePG    = "PG" // multiple choice (pilihan ganda)
	QuestionTypeEssay = "ESSAY"
)

type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TeacherID  uint           `json:"teacher_id" gorm:"not null;index"`
	Type       string         `json:"type" gorm:"not null"` // PG or ESSAY
	Prompt     string         `json:"prompt" gorm:"type:text;not null"`
	Options    datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"` // PG only: ["A. ...", "B. ..."]
	AnswerKey  string         `json:"answer_key,omitempty" gorm:"type:text"`
	Rubric     datatypes.JSON `json:"rubric,omitempty" gorm:"type:jsonb"` // essay scoring weights
	Difficulty string         `json:"difficulty,omitempty"`
	Category   string         `json:"category,omitempty" gorm:"index"`
	IsHOTS     bool           `json:"is_hots"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
