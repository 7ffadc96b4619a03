package teacher

import (
	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

func (ctrl *AnalyticsController) RegisterRoutes(teacher *gin.RouterGroup) {
	teacher.GET("/exams/:id/statistics", ctrl.Statistics)
	teacher.GET("/exams/:id/breakdown", ctrl.QuestionBreakdown)
	teacher.GET("/dashboard", ctrl.Dashboard)
}

// Statistics godoc
// @Summary Exam score statistics
// @Tags teacher-analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.ExamStatisticResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/statistics [get]
func (ctrl *AnalyticsController) Statistics(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := ctrl.analyticsService.Statistics(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, stats, "")
}

// QuestionBreakdown godoc
// @Summary Per-question answer breakdown
// @Tags teacher-analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=[]dto.QuestionBreakdownResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/breakdown [get]
func (ctrl *AnalyticsController) QuestionBreakdown(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	breakdown, err := ctrl.analyticsService.QuestionBreakdown(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, breakdown, "")
}

// Dashboard godoc
// @Summary Teacher-wide totals
// @Tags teacher-analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.TeacherDashboardResponse}
// @Router /teacher/dashboard [get]
func (ctrl *AnalyticsController) Dashboard(c *gin.Context) {
	dashboard, err := ctrl.analyticsService.Dashboard(middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, dashboard, "")
}
