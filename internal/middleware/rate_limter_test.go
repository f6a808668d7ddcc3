package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCooldownLimiter_Check(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewCooldownLimiter()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Check("a", time.Minute).Allowed)

	res := limiter.Check("a", time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)

	// 不同 key 互不影响
	assert.True(t, limiter.Check("b", time.Minute).Allowed)

	now = now.Add(30 * time.Second)
	res = limiter.Check("a", time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryAfter)

	now = now.Add(30 * time.Second)
	assert.True(t, limiter.Check("a", time.Minute).Allowed)

	// 间隔为 0 时不限流
	assert.True(t, limiter.Check("c", 0).Allowed)
	assert.True(t, limiter.Check("c", 0).Allowed)
}

func TestCooldownLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewCooldownLimiter()
	limiter.now = func() time.Time { return now }

	limiter.Check("old", time.Minute)
	now = now.Add(5 * time.Minute)
	limiter.Check("fresh", time.Minute)
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, limiter.Sweep(2*time.Minute))
	assert.Equal(t, 1, limiter.size())

	// 仍在冷却中的 key 不受影响
	assert.False(t, limiter.Check("fresh", time.Minute).Allowed)
	assert.True(t, limiter.Check("old", time.Minute).Allowed)

	now = now.Add(time.Hour)
	assert.Equal(t, 2, limiter.Sweep(2*time.Minute))
	assert.Equal(t, 0, limiter.size())
}

func (r *CooldownLimiter) size() int {
	n := 0
	r.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", Throttle(NewCooldownLimiter(), time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)

	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"Request was throttled."}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
