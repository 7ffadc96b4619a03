package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	limiter := &rateLimiter{
		clients: make(map[string]*rateWindow),
		limit:   3,
		window:  time.Minute,
	}

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.allow("10.0.0.1"))

	// Other clients are counted separately.
	assert.True(t, limiter.allow("10.0.0.2"))
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := &rateLimiter{
		clients: make(map[string]*rateWindow),
		limit:   1,
		window:  10 * time.Millisecond,
	}

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.allow("10.0.0.1"))
}
