package student

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type ParticipationController struct {
	participationService service.ParticipationService
}

func NewParticipationController(participationService service.ParticipationService) *ParticipationController {
	return &ParticipationController{participationService: participationService}
}

func (ctrl *ParticipationController) RegisterRoutes(student *gin.RouterGroup) {
	exams := student.Group("/exams")
	exams.GET("", ctrl.ListOngoing)
	exams.POST("/:id/join", ctrl.Join)
	exams.GET("/:id/questions", ctrl.Questions)
	exams.POST("/:id/answers", ctrl.SubmitAnswer)
	exams.POST("/:id/answers/batch", ctrl.BatchSubmitAnswers)
	exams.POST("/:id/finish", ctrl.Finish)
	exams.GET("/:id/result", ctrl.Result)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		dto.HandleError(c, apperror.BadRequestf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// ListOngoing godoc
// @Summary List exams open for joining
// @Tags student-exams
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Response{data=[]dto.ExamResponse}
// @Router /student/exams [get]
func (ctrl *ParticipationController) ListOngoing(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	exams, total, err := ctrl.participationService.ListOngoing(q.Page, q.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Paginated(c, exams, dto.NewPagination(q.Page, q.Limit, total))
}

// Join godoc
// @Summary Join an ongoing exam
// @Description Joining twice returns the existing participation with already_joined set
// @Tags student-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.JoinExamResponse}
// @Failure 400 {object} dto.Response "Exam not open for joining"
// @Failure 404 {object} dto.Response
// @Router /student/exams/{id}/join [post]
func (ctrl *ParticipationController) Join(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := ctrl.participationService.Join(c.Request.Context(), examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, result, "joined exam")
}

// Questions godoc
// @Summary List the exam's questions without answer keys
// @Tags student-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=[]dto.StudentQuestionResponse}
// @Failure 403 {object} dto.Response "Not joined"
// @Router /student/exams/{id}/questions [get]
func (ctrl *ParticipationController) Questions(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := ctrl.participationService.ExamQuestions(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, questions, "")
}

// SubmitAnswer godoc
// @Summary Submit or overwrite one answer
// @Description Resubmitting the same question before finishing overwrites the previous answer
// @Tags student-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param answer body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.Response{data=dto.AnswerResponse}
// @Failure 400 {object} dto.Response "Already submitted"
// @Failure 403 {object} dto.Response "Not joined"
// @Failure 404 {object} dto.Response "Question not in exam"
// @Router /student/exams/{id}/answers [post]
func (ctrl *ParticipationController) SubmitAnswer(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	answer, err := ctrl.participationService.SubmitAnswer(examID, middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, answer, "answer saved")
}

// BatchSubmitAnswers godoc
// @Summary Submit several answers at once
// @Tags student-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param answers body dto.BatchSubmitAnswersRequest true "Answers"
// @Success 200 {object} dto.Response{data=[]dto.AnswerResponse}
// @Failure 400 {object} dto.Response "Already submitted"
// @Failure 403 {object} dto.Response "Not joined"
// @Failure 404 {object} dto.Response "Question not in exam"
// @Router /student/exams/{id}/answers/batch [post]
func (ctrl *ParticipationController) BatchSubmitAnswers(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BatchSubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	answers, err := ctrl.participationService.BatchSubmitAnswers(examID, middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, answers, "answers saved")
}

// Finish godoc
// @Summary Finalize the exam attempt
// @Description Marks the participation as submitted; answers can no longer change
// @Tags student-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.ParticipantResultResponse}
// @Failure 400 {object} dto.Response "Already submitted"
// @Failure 403 {object} dto.Response "Not joined"
// @Router /student/exams/{id}/finish [post]
func (ctrl *ParticipationController) Finish(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := ctrl.participationService.Finish(c.Request.Context(), examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, result, "exam submitted")
}

// Result godoc
// @Summary Own result for an exam
// @Description Scores and feedback appear only once the exam has finished
// @Tags student-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.ParticipantResultResponse}
// @Failure 403 {object} dto.Response "Not joined"
// @Router /student/exams/{id}/result [get]
func (ctrl *ParticipationController) Result(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := ctrl.participationService.Result(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, result, "")
}
