package teacher

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/apperror"
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

func (ctrl *ProctoringController) RegisterRoutes(teacher *gin.RouterGroup) {
	teacher.GET("/exams/:id/proctoring/events", ctrl.ListEvents)
	teacher.GET("/exams/:id/proctoring/suspicious", ctrl.SuspiciousSummary)
}

// ListEvents godoc
// @Summary List proctoring events for an exam
// @Tags teacher-proctoring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param student_id query int false "Filter by student"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Response{data=[]dto.ProctoringLogResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/proctoring/events [get]
func (ctrl *ProctoringController) ListEvents(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	var studentID *uint
	if raw := c.Query("student_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			dto.HandleError(c, apperror.BadRequestf("invalid student_id"))
			return
		}
		id := uint(val)
		studentID = &id
	}

	logs, total, err := ctrl.proctoringService.ListEvents(examID, middleware.UserID(c), studentID, q.Page, q.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Paginated(c, logs, dto.NewPagination(q.Page, q.Limit, total))
}

// SuspiciousSummary godoc
// @Summary Participants whose event count crosses the suspicious threshold
// @Tags teacher-proctoring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.SuspiciousSummaryResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/proctoring/suspicious [get]
func (ctrl *ProctoringController) SuspiciousSummary(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := ctrl.proctoringService.SuspiciousSummary(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, summary, "")
}
