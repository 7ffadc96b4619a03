package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/config"
	"github.com/sahabat-guru/backend/internal/dto"
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// rateLimiter is a fixed-window counter keyed by client IP. Windows reset
// lazily on the next request after expiry.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateWindow
	limit   int
	window  time.Duration
}

// RateLimit caps requests per client per window using the configured policy.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	limiter := &rateLimiter{
		clients: make(map[string]*rateWindow),
		limit:   cfg.RateLimit.RequestsPerWindow,
		window:  time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Response{
				Success: false,
				Error:   "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}

func (l *rateLimiter) allow(clientIP string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.clients[clientIP]
	if !ok || now.After(win.resetAt) {
		l.clients[clientIP] = &rateWindow{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	win.count++
	return win.count <= l.limit
}
