package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null"`
	Email     string         `json:"email" gorm:"not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"not null"` // bcrypt hash
	Role      string         `json:"role" gorm:"not null"` // TEACHER or STUDENT
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
