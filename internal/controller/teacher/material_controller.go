package teacher

import (
	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type MaterialController struct {
	materialService service.MaterialService
}

func NewMaterialController(materialService service.MaterialService) *MaterialController {
	return &MaterialController{materialService: materialService}
}

func (ctrl *MaterialController) RegisterRoutes(teacher *gin.RouterGroup) {
	materials := teacher.Group("/materials")
	materials.POST("/generate", ctrl.Generate)
	materials.GET("", ctrl.List)
	materials.GET("/:id", ctrl.Get)
	materials.DELETE("/:id", ctrl.Delete)
}

// Generate godoc
// @Summary Generate a teaching material with AI
// @Description Generate a syllabus, summary or exercise sheet. The request type selects which parameter block is required.
// @Tags teacher-materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateMaterialRequest true "Generation request"
// @Success 201 {object} dto.Response{data=dto.MaterialResponse}
// @Failure 400 {object} dto.Response "Missing parameter block for the selected type"
// @Router /teacher/materials/generate [post]
func (ctrl *MaterialController) Generate(c *gin.Context) {
	var req dto.GenerateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	material, err := ctrl.materialService.Generate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Created(c, material, "material generated")
}

// List godoc
// @Summary List own materials
// @Tags teacher-materials
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Response{data=[]dto.MaterialResponse}
// @Router /teacher/materials [get]
func (ctrl *MaterialController) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	materials, total, err := ctrl.materialService.List(middleware.UserID(c), q.Page, q.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Paginated(c, materials, dto.NewPagination(q.Page, q.Limit, total))
}

// Get godoc
// @Summary Get one material
// @Tags teacher-materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.Response{data=dto.MaterialResponse}
// @Failure 404 {object} dto.Response
// @Router /teacher/materials/{id} [get]
func (ctrl *MaterialController) Get(c *gin.Context) {
	materialID, ok := pathID(c, "id")
	if !ok {
		return
	}
	material, err := ctrl.materialService.Get(c.Request.Context(), materialID, middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, material, "")
}

// Delete godoc
// @Summary Delete a material
// @Tags teacher-materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /teacher/materials/{id} [delete]
func (ctrl *MaterialController) Delete(c *gin.Context) {
	materialID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.materialService.Delete(c.Request.Context(), materialID, middleware.UserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "material deleted")
}
