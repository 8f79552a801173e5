package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func get(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRateLimitRejectsBeyondLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if code := get(r, "/ping"); code != http.StatusOK {
		t.Fatalf("first request status = %d", code)
	}
	if code := get(r, "/ping"); code != http.StatusOK {
		t.Fatalf("second request status = %d", code)
	}
	if code := get(r, "/ping"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
}

func TestSubjectRateLimitIsolatesSubjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t/:subject", SubjectRateLimit(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if code := get(r, "/t/s1"); code != http.StatusOK {
		t.Fatalf("first s1 request status = %d", code)
	}
	if code := get(r, "/t/s1"); code != http.StatusTooManyRequests {
		t.Errorf("second s1 request status = %d, want 429", code)
	}
	// a different subject has its own budget
	if code := get(r, "/t/s2"); code != http.StatusOK {
		t.Errorf("first s2 request status = %d, want 200", code)
	}
}

func TestRateLimiterWindowExpires(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("k") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("k") {
		t.Fatal("second request inside the window should be rejected")
	}
	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("k") {
		t.Error("request after the window should pass again")
	}
}
