package dto

import "time"

type TriggerScoringRequest struct {
	ParticipantIDs []uint `json:"participant_ids,omitempty"` // empty means every submitted participant
}

type ScoringJobResponse struct {
	ID            uint       `json:"id"`
	ParticipantID uint       `json:"participant_id"`
	State         string     `json:"state"`
	Error         string     `json:"error,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

type TriggerScoringResponse struct {
	Triggered int                  `json:"triggered"`
	Jobs      []ScoringJobResponse `json:"jobs"`
}

type ScoringStatusResponse struct {
	ExamID     uint           `json:"exam_id"`
	Counts     map[string]int `json:"counts"` // state -> job count
	TotalJobs  int            `json:"total_jobs"`
	InProgress bool           `json:"in_progress"`
}

type OverrideScoreRequest struct {
	FinalScore float64 `json:"final_score" binding:"required,min=0,max=100"`
	Feedback   string  `json:"feedback,omitempty"`
}
