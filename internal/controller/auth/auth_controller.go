package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (ctrl *AuthController) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/register", ctrl.Register)
	auth.POST("/login", ctrl.Login)
	auth.POST("/refresh", ctrl.Refresh)
	auth.POST("/logout", ctrl.Logout)
	auth.GET("/me", middleware.Authenticate(ctrl.authService), ctrl.Me)
}

// Register godoc
// @Summary Register a new user
// @Description Create a teacher or student account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterRequest true "Account data"
// @Success 201 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response "Validation failed"
// @Failure 409 {object} dto.Response "Email already registered"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	user, err := ctrl.authService.Register(req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.Created(c, user, "account created")
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.Response{data=dto.TokenPairResponse}
// @Failure 401 {object} dto.Response "Invalid credentials"
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	tokens, err := ctrl.authService.Login(req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, tokens, "logged in")
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Description Exchange a valid refresh token for a new token pair; the old token is revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.Response{data=dto.TokenPairResponse}
// @Failure 401 {object} dto.Response "Token expired or revoked"
// @Router /auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	tokens, err := ctrl.authService.Refresh(req.RefreshToken)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, tokens, "token refreshed")
}

// Logout godoc
// @Summary Log out
// @Description Revoke the presented refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response "Unknown refresh token"
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleBindError(c, err)
		return
	}
	if err := ctrl.authService.Logout(req.RefreshToken); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, nil, "logged out")
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 401 {object} dto.Response
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.authService.Me(middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.OK(c, user, "")
}
