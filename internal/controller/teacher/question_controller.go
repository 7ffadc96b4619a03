package teacher

import (
	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

func (ctrl *QuestionController) RegisterRoutes(teacher *gin.RouterGroup) {
	questions := teacher.Group("/questions")
	questions.POST("", ctrl.Create)
	questions.GET("", ctrl.List)
	questions.GET("/:id", ctrl.Get)
	questions.PUT("/:id", ctrl.Update)
	questions.DELETE("/:id", ctrl.Delete)
}

// Create godoc
// @Summary Create a bank question
// @Description Add a multiple-choice (PG) or essay (ESSAY) question to the teacher's bank
// @Tags teacher-questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.Response{data=dto.QuestionResponse}
// @Failure 400 {object} dto.Response
// @Router /teacher/questions [post]
func (ctrl *QuestionController) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	question, err := ctrl.questionService.Create(middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Created(c, question, "question created")
}

// List godoc
// @Summary List own bank questions
// @Tags teacher-questions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type" Enums(PG, ESSAY)
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty" Enums(EASY, MEDIUM, HARD)
// @Param hots query bool false "Filter by HOTS flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Response{data=[]dto.QuestionResponse}
// @Router /teacher/questions [get]
func (ctrl *QuestionController) List(c *gin.Context) {
	var filter dto.QuestionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	questions, total, err := ctrl.questionService.List(middleware.UserID(c), filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Paginated(c, questions, dto.NewPagination(filter.Page, filter.Limit, total))
}

// Get godoc
// @Summary Get one bank question
// @Tags teacher-questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.Response{data=dto.QuestionResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/questions/{id} [get]
func (ctrl *QuestionController) Get(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	question, err := ctrl.questionService.Get(questionID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, question, "")
}

// Update godoc
// @Summary Update a bank question
// @Tags teacher-questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question body dto.UpdateQuestionRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=dto.QuestionResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/questions/{id} [put]
func (ctrl *QuestionController) Update(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	question, err := ctrl.questionService.Update(questionID, middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, question, "question updated")
}

// Delete godoc
// @Summary Delete a bank question
// @Tags teacher-questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /teacher/questions/{id} [delete]
func (ctrl *QuestionController) Delete(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.questionService.Delete(questionID, middleware.UserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "question deleted")
}
