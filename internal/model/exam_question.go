package model

import (
	"time"
)

// ExamQuestion links a question into an exam with its order and point value.
// Questions are referenced, not owned: deleting the link leaves the question intact.
type ExamQuestion struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ExamID     uint      `json:"exam_id" gorm:"not null;uniqueIndex:idx_exam_question"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_exam_question"`
	Question   Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Order      int       `json:"order" gorm:"column:question_order;not null"`
	Points     float64   `json:"points" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
}
