package dto

import (
	"time"

	"gorm.io/datatypes"
)

type JoinExamResponse struct {
	ParticipantID uint      `json:"participant_id"`
	ExamID        uint      `json:"exam_id"`
	Status        string    `json:"status"`
	JoinedAt      time.Time `json:"joined_at"`
	AlreadyJoined bool      `json:"already_joined"`
}

type SubmitAnswerRequest struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Content    string  `json:"content,omitempty"`
	FileURL    *string `json:"file_url,omitempty"`
}

type BatchSubmitAnswersRequest struct {
	Answers []SubmitAnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

type AnswerResponse struct {
	ID          uint           `json:"id"`
	QuestionID  uint           `json:"question_id"`
	Content     string         `json:"content,omitempty"`
	FileURL     *string        `json:"file_url,omitempty"`
	AIScore     *float64       `json:"ai_score,omitempty"`
	FinalScore  *float64       `json:"final_score,omitempty"`
	Feedback    datatypes.JSON `json:"feedback,omitempty"`
	NeedsReview bool           `json:"needs_review"`
	Status      string         `json:"status"`
}

// ParticipantResultResponse exposes answer detail only once the exam has
// finished; while it is still running only the counts are filled in.
type ParticipantResultResponse struct {
	ParticipantID uint             `json:"participant_id"`
	ExamID        uint             `json:"exam_id"`
	Status        string           `json:"status"`
	JoinedAt      time.Time        `json:"joined_at"`
	SubmitTime    *time.Time       `json:"submit_time,omitempty"`
	Score         *float64         `json:"score,omitempty"`
	AnsweredCount int              `json:"answered_count"`
	ScoredCount   int              `json:"scored_count"`
	Answers       []AnswerResponse `json:"answers,omitempty"`
}

type ParticipantSummaryResponse struct {
	ParticipantID uint       `json:"participant_id"`
	StudentID     uint       `json:"student_id"`
	StudentName   string     `json:"student_name"`
	Status        string     `json:"status"`
	JoinedAt      time.Time  `json:"joined_at"`
	SubmitTime    *time.Time `json:"submit_time,omitempty"`
	Score         *float64   `json:"score,omitempty"`
}
