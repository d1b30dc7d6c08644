package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_RefillsOverTime(t *testing.T) {
	l := PerMinute(2)
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.Reserve("user:1")
	assert.True(t, ok)
	ok, _ = l.Reserve("user:1")
	assert.True(t, ok)
	ok, wait := l.Reserve("user:1")
	assert.False(t, ok)
	assert.InDelta(t, float64(30*time.Second), float64(wait), float64(time.Millisecond))

	// Other keys have their own bucket.
	ok, _ = l.Reserve("user:2")
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	ok, _ = l.Reserve("user:1")
	assert.True(t, ok)
}

func TestLimiter_Cleanup(t *testing.T) {
	l := PerMinute(5)
	now := time.Now()
	l.now = func() time.Time { return now }
	l.Reserve("a")
	now = now.Add(time.Hour)
	l.Reserve("b")

	assert.Equal(t, 1, l.Cleanup(10*time.Minute))
	assert.Len(t, l.buckets, 1)
}

func TestMiddleware_KeysByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := PerMinute(1)
	r := gin.New()
	r.POST("/join", func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-User"))
		c.Next()
	}, l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(user string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/join", nil)
		req.Header.Set("X-User", user)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("alice").Code)
	w := do("alice")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too many requests")
	assert.Equal(t, http.StatusOK, do("bob").Code)
}
