package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/internal/apperror"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// PageQuery is the shared page/limit query binding for list endpoints.
type PageQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Message: message})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

func Accepted(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusAccepted, Response{Success: true, Data: data, Message: message})
}

func Paginated(c *gin.Context, data interface{}, p *Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: p})
}

// HandleError is the single boundary mapping domain errors to HTTP responses.
// Unexpected errors are logged in full but surfaced to clients as a generic message.
func HandleError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Kind.HTTPStatus(), Response{Success: false, Error: appErr.Message})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Unexpected error")
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
}

// HandleBindError reports request binding failures as a structured 400 with
// per-field messages when the error came from the validator.
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: fields, Message: "validation failed"})
		return
	}
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "value is below the allowed minimum"
	case "max":
		return "value is above the allowed maximum"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
