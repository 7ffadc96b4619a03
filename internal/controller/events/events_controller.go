package events

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/realtime"
)

// EventsController streams hub events to clients over Server-Sent Events.
type EventsController struct {
	hub *realtime.Hub
}

func NewEventsController(hub *realtime.Hub) *EventsController {
	return &EventsController{hub: hub}
}

func (ctrl *EventsController) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/events/:channel/:exam_id", ctrl.Stream)
}

// Stream godoc
// @Summary Subscribe to an exam's event stream
// @Description Server-Sent Events stream of exam or proctoring events. The subscription ends when the client disconnects.
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Param channel path string true "Channel" Enums(exam, proctoring)
// @Param exam_id path int true "Exam ID"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} dto.Response "Unknown channel"
// @Router /events/{channel}/{exam_id} [get]
func (ctrl *EventsController) Stream(c *gin.Context) {
	channel := c.Param("channel")
	if channel != realtime.ChannelExam && channel != realtime.ChannelProctoring {
		dto.HandleError(c, apperror.BadRequestf("unknown channel %q", channel))
		return
	}
	examID, err := strconv.ParseUint(c.Param("exam_id"), 10, 32)
	if err != nil {
		dto.HandleError(c, apperror.BadRequestf("invalid exam_id"))
		return
	}

	userID := middleware.UserID(c)
	role := middleware.Role(c)

	sub := ctrl.hub.Subscribe(channel, uint(examID), userID, role)
	defer sub.Close()

	ctrl.hub.Publish(channel, uint(examID), realtime.EventJoin, map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	defer ctrl.hub.Publish(channel, uint(examID), realtime.EventLeave, map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(evt.Type, evt)
			return true
		case <-clientGone:
			return false
		}
	})
}
