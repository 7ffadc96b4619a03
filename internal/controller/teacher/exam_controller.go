package teacher

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type ExamController struct {
	examService          service.ExamService
	participationService service.ParticipationService
}

func NewExamController(examService service.ExamService, participationService service.ParticipationService) *ExamController {
	return &ExamController{examService: examService, participationService: participationService}
}

func (ctrl *ExamController) RegisterRoutes(teacher *gin.RouterGroup) {
	exams := teacher.Group("/exams")
	exams.POST("", ctrl.Create)
	exams.GET("", ctrl.List)
	exams.GET("/:id", ctrl.Get)
	exams.PUT("/:id", ctrl.Update)
	exams.DELETE("/:id", ctrl.Delete)
	exams.POST("/:id/transition", ctrl.Transition)
	exams.POST("/:id/questions", ctrl.AttachQuestion)
	exams.DELETE("/:id/questions/:question_id", ctrl.DetachQuestion)
	exams.PUT("/:id/questions/order", ctrl.ReorderQuestions)
	exams.GET("/:id/participants", ctrl.ListParticipants)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		dto.HandleError(c, apperror.BadRequestf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// Create godoc
// @Summary Create an exam
// @Description Create a new exam in DRAFT status
// @Tags teacher-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam body dto.CreateExamRequest true "Exam data"
// @Success 201 {object} dto.Response{data=dto.ExamResponse}
// @Failure 400 {object} dto.Response
// @Router /teacher/exams [post]
func (ctrl *ExamController) Create(c *gin.Context) {
	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	exam, err := ctrl.examService.Create(middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Created(c, exam, "exam created")
}

// List godoc
// @Summary List own exams
// @Tags teacher-exams
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(DRAFT, ONGOING, FINISHED, PUBLISHED)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Response{data=[]dto.ExamResponse}
// @Router /teacher/exams [get]
func (ctrl *ExamController) List(c *gin.Context) {
	var filter dto.ExamFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	exams, total, err := ctrl.examService.List(middleware.UserID(c), filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Paginated(c, exams, dto.NewPagination(filter.Page, filter.Limit, total))
}

// Get godoc
// @Summary Get one exam with its questions
// @Tags teacher-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=dto.ExamDetailResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id} [get]
func (ctrl *ExamController) Get(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exam, err := ctrl.examService.Get(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, exam, "")
}

// Update godoc
// @Summary Update exam metadata
// @Description Only allowed while the exam is in DRAFT or FINISHED
// @Tags teacher-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param exam body dto.UpdateExamRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=dto.ExamResponse}
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id} [put]
func (ctrl *ExamController) Update(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	exam, err := ctrl.examService.Update(examID, middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, exam, "exam updated")
}

// Delete godoc
// @Summary Delete an exam
// @Description Deletes the exam and its question links, participants and answers
// @Tags teacher-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id} [delete]
func (ctrl *ExamController) Delete(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.examService.Delete(examID, middleware.UserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "exam deleted")
}

// Transition godoc
// @Summary Change exam status
// @Description Move the exam along DRAFT -> ONGOING -> FINISHED -> PUBLISHED. Starting an exam requires at least one question.
// @Tags teacher-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param transition body dto.TransitionExamRequest true "Target status"
// @Success 200 {object} dto.Response{data=dto.ExamResponse}
// @Failure 400 {object} dto.Response "Invalid transition"
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/transition [post]
func (ctrl *ExamController) Transition(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TransitionExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	exam, err := ctrl.examService.Transition(examID, middleware.UserID(c), req.Status)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, exam, "exam status changed")
}

// AttachQuestion godoc
// @Summary Link a bank question to the exam
// @Tags teacher-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param link body dto.AttachQuestionRequest true "Question link"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response "Exam not in DRAFT"
// @Failure 409 {object} dto.Response "Question already linked"
// @Router /teacher/exams/{id}/questions [post]
func (ctrl *ExamController) AttachQuestion(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AttachQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	if err := ctrl.examService.AttachQuestion(examID, middleware.UserID(c), req); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "question linked")
}

// DetachQuestion godoc
// @Summary Remove a question link from the exam
// @Tags teacher-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response "Exam not in DRAFT"
// @Router /teacher/exams/{id}/questions/{question_id} [delete]
func (ctrl *ExamController) DetachQuestion(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}
	if err := ctrl.examService.DetachQuestion(examID, middleware.UserID(c), questionID); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "question unlinked")
}

// ReorderQuestions godoc
// @Summary Reorder the exam's questions
// @Tags teacher-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param order body dto.ReorderQuestionsRequest true "Question IDs in the desired order"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response "Exam not in DRAFT"
// @Router /teacher/exams/{id}/questions/order [put]
func (ctrl *ExamController) ReorderQuestions(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReorderQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	if err := ctrl.examService.ReorderQuestions(examID, middleware.UserID(c), req.QuestionIDs); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "questions reordered")
}

// ListParticipants godoc
// @Summary List exam participants
// @Tags teacher-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.Response{data=[]dto.ParticipantSummaryResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/exams/{id}/participants [get]
func (ctrl *ExamController) ListParticipants(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}
	participants, err := ctrl.participationService.ListParticipants(examID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, participants, "")
}
