package student

import (
	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type ProctoringController struct {
	proctoringService service.ProctoringService
}

func NewProctoringController(proctoringService service.ProctoringService) *ProctoringController {
	return &ProctoringController{proctoringService: proctoringService}
}

func (ctrl *ProctoringController) RegisterRoutes(student *gin.RouterGroup) {
	student.POST("/exams/:id/proctoring/events", ctrl.RecordEvent)
}

// RecordEvent godoc
// @Summary Report a proctoring event
// @Description The exam client reports detections such as tab_switch or face_missing; high-confidence events alert the observing teacher
// @Tags student-proctoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param event body dto.ProctoringEventRequest true "Detected event"
// @Success 201 {object} dto.Response{data=dto.ProctoringLogResponse}
// @Failure 403 {object} dto.Response "Not joined"
// @Router /student/exams/{id}/proctoring/events [post]
func (ctrl *ProctoringController) RecordEvent(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProctoringEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	logEntry, err := ctrl.proctoringService.RecordEvent(examID, middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Created(c, logEntry, "event recorded")
}
