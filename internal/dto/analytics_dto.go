package dto

import "time"

type ExamStatisticResponse struct {
	ExamID           uint      `json:"exam_id"`
	AverageScore     float64   `json:"average_score"`
	MaxScore         float64   `json:"max_score"`
	MinScore         float64   `json:"min_score"`
	ParticipantCount int       `json:"participant_count"`
	SubmittedCount   int       `json:"submitted_count"`
	ScoredCount      int       `json:"scored_count"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type QuestionBreakdownResponse struct {
	QuestionID   uint    `json:"question_id"`
	Type         string  `json:"type"`
	AnswerCount  int64   `json:"answer_count"`
	AverageScore float64 `json:"average_score"`
	CorrectCount int64   `json:"correct_count"` // PG answers scored 100
}

type TeacherDashboardResponse struct {
	ExamsByStatus     map[string]int64 `json:"exams_by_status"`
	TotalParticipants int64            `json:"total_participants"`
	TotalQuestions    int64            `json:"total_questions"`
	TotalMaterials    int64            `json:"total_materials"`
}
