package teacher

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type ScoringController struct {
	scoringService service.ScoringService
}

func NewScoringController(scoringService service.ScoringService) *ScoringController {
	return &ScoringController{scoringService: scoringService}
}

func (ctrl *ScoringController) RegisterRoutes(teacher *gin.RouterGroup) {
	teacher.POST("/exams/:id/scoring", ctrl.Trigger)
	teacher.GET("/exams/:id/scoring", ctrl.Status)
	teacher.PUT("/answers/:id/score", ctrl.OverrideScore)
}

// Trigger godoc
// @Summary Trigger scoring for an exam
// @Description Enqueue scoring jobs for submitted participants and return immediately. With no participant_ids every submitted participant is scored.
// @Tags teacher-scoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param scope body dto.TriggerScoringRequest false "Optional participant subset"
// @Success 202 {object} dto.Response{data=dto.TriggerScoringResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/scoring [post]
func (ctrl *ScoringController) Trigger(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	// An empty body means "score every submitted participant".
	var req dto.TriggerScoringRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.HandleBindError(c, err)
		return
	}
	resp, err := ctrl.scoringService.Trigger(examID, middleware.UserID(c), req.ParticipantIDs)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Accepted(c, resp, "scoring started")
}

// Status godoc
// @Summary Scoring progress for an exam
// @Tags teacher-scoring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.ScoringStatusResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/scoring [get]
func (ctrl *ScoringController) Status(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := ctrl.scoringService.Status(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, status, "")
}

// OverrideScore godoc
// @Summary Override one answer's score
// @Description Set the final score manually; the participant aggregate and exam statistics are recomputed
// @Tags teacher-scoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param score body dto.OverrideScoreRequest true "Final score and optional feedback"
// @Success 200 {object} dto.Response{data=dto.AnswerResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/answers/{id}/score [put]
func (ctrl *ScoringController) OverrideScore(c *gin.Context) {
	answerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.OverrideScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	answer, err := ctrl.scoringService.OverrideScore(answerID, middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, answer, "score overridden")
}
