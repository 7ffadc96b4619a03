package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaterialKindSyllabus = "syllabus"
	MaterialKindSummary  = "summary"
	MaterialKindExercise = "exercise"
)

// Material is a generated teaching document owned by a teacher.
type Material struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TeacherID   uint           `json:"teacher_id" gorm:"not null;index"`
	Kind        string         `json:"kind" gorm:"not null"` // syllabus, summary, exercise
	Topic       string         `json:"topic" gorm:"not null"`
	Title       string         `json:"title" gorm:"not null"`
	DocumentURL string         `json:"document_url,omitempty"`
	PreviewURL  string         `json:"preview_url,omitempty"`
	Content     datatypes.JSON `json:"content,omitempty" gorm:"type:jsonb"` // structured generator output
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
