package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// With rate.NewLimiter(10, 2), the limiter starts with 2 tokens in the bucket
	// Each Allow() call consumes 1 token
	limiter := NewLimiter(10, 2) // 10 requests per second, burst of 2

	// First request should pass (2 tokens -> 1 token)
	if !limiter.Allow("test-key") {
		t.Error("First request should be allowed")
	}

	// Second request should pass (1 token -> 0 tokens)
	if !limiter.Allow("test-key") {
		t.Error("Second request should be allowed")
	}

	// Third request should fail (0 tokens, need to wait for refill)
	if limiter.Allow("test-key") {
		t.Error("Third request should be rate limited")
	}

	// Wait for token refill (10 req/s = 100ms per token)
	time.Sleep(150 * time.Millisecond)

	// Should pass after waiting (refilled 1 token)
	if !limiter.Allow("test-key") {
		t.Error("Request after waiting should be allowed")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewLimiter(10, 1)

	if !limiter.Allow("a") {
		t.Error("First request for key a should be allowed")
	}
	if limiter.Allow("a") {
		t.Error("Second request for key a should be rate limited")
	}
	if !limiter.Allow("b") {
		t.Error("First request for key b should have its own bucket")
	}
}

func TestCleanupOldLimiters(t *testing.T) {
	limiter := NewLimiter(10, 1)
	limiter.Allow("stale")

	time.Sleep(20 * time.Millisecond)
	limiter.CleanupOldLimiters(10 * time.Millisecond)

	limiter.mu.RLock()
	_, exists := limiter.limiters["stale"]
	limiter.mu.RUnlock()
	if exists {
		t.Error("Stale limiter should have been removed")
	}
}

func TestMiddleware(t *testing.T) {
	limiter := NewLimiter(10, 2) // 10 requests per second, burst of 2

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := limiter.Middleware(func(r *http.Request) string {
		return "test-key"
	})

	wrappedHandler := middleware(handler)

	// First two requests should succeed
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()
		wrappedHandler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Request %d should succeed, got status %d", i+1, rr.Code)
		}
	}

	// Third request should be rejected
	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Burst-exceeding request should get 429, got status %d", rr.Code)
	}
}

func TestIPKeyFunc(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := IPKeyFunc(req); got != "10.0.0.1:1234" {
		t.Errorf("Expected RemoteAddr fallback, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := IPKeyFunc(req); got != "203.0.113.7" {
		t.Errorf("Expected X-Forwarded-For to win, got %q", got)
	}
}
