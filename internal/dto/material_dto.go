package dto

import (
	"time"

	"github.com/sahabat-guru/backend/internal/apperror"
	"gorm.io/datatypes"
)

// GenerateMaterialRequest is a tagged union: Type selects which variant carries
// the generation parameters, and exactly one variant must be present.
type GenerateMaterialRequest struct {
	Type     string                   `json:"type" binding:"required,oneof=syllabus summary exercise"`
	Syllabus *SyllabusMaterialParams  `json:"syllabus,omitempty"`
	Summary  *SummaryMaterialParams   `json:"summary,omitempty"`
	Exercise *ExerciseMaterialParams  `json:"exercise,omitempty"`
}

type SyllabusMaterialParams struct {
	Topic      string `json:"topic" binding:"required"`
	Curriculum string `json:"curriculum" binding:"required"`
	GradeLevel string `json:"grade_level" binding:"required"`
	Weeks      int    `json:"weeks" binding:"required,min=1"`
}

type SummaryMaterialParams struct {
	Topic      string `json:"topic" binding:"required"`
	SourceText string `json:"source_text" binding:"required"`
	MaxWords   int    `json:"max_words,omitempty"`
}

type ExerciseMaterialParams struct {
	Topic         string `json:"topic" binding:"required"`
	Difficulty    string `json:"difficulty" binding:"required,oneof=EASY MEDIUM HARD"`
	QuestionCount int    `json:"question_count" binding:"required,min=1,max=50"`
	Template      string `json:"template,omitempty"`
}

// Resolve returns the variant selected by Type, failing BadRequest when the
// matching parameter block is missing. The switch is exhaustive over the enum.
func (r *GenerateMaterialRequest) Resolve() (topic string, params any, err error) {
	switch r.Type {
	case "syllabus":
		if r.Syllabus == nil {
			return "", nil, apperror.BadRequestf("type 'syllabus' requires the syllabus parameter block")
		}
		return r.Syllabus.Topic, r.Syllabus, nil
	case "summary":
		if r.Summary == nil {
			return "", nil, apperror.BadRequestf("type 'summary' requires the summary parameter block")
		}
		return r.Summary.Topic, r.Summary, nil
	case "exercise":
		if r.Exercise == nil {
			return "", nil, apperror.BadRequestf("type 'exercise' requires the exercise parameter block")
		}
		return r.Exercise.Topic, r.Exercise, nil
	default:
		return "", nil, apperror.BadRequestf("unknown material type %q", r.Type)
	}
}

type MaterialResponse struct {
	ID          uint           `json:"id"`
	TeacherID   uint           `json:"teacher_id"`
	Kind        string         `json:"kind"`
	Topic       string         `json:"topic"`
	Title       string         `json:"title"`
	DocumentURL string         `json:"document_url,omitempty"`
	PreviewURL  string         `json:"preview_url,omitempty"`
	Content     datatypes.JSON `json:"content,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
