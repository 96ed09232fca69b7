package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.GET("/limited", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	r := rateLimitedRouter(NewRateLimiter(5, time.Minute))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/limited", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	r := rateLimitedRouter(NewRateLimiter(3, time.Minute))

	var last int
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/limited", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		r.ServeHTTP(w, req)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on the 4th request, got %d", last)
	}
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	r := rateLimitedRouter(NewRateLimiter(1, time.Minute))

	first := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/limited", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	r.ServeHTTP(first, req)

	// A different client is not affected by the first one's budget.
	second := httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/limited", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	r.ServeHTTP(second, req)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected both clients allowed, got %d and %d", first.Code, second.Code)
	}
}
