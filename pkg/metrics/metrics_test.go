package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveRequest(t *testing.T) {
	rec := NewRecorder()

	rec.ObserveRequest("GET", "/greet", http.StatusOK, 42, 5*time.Millisecond)
	rec.ObserveRequest("GET", "/greet", http.StatusOK, 8, 3*time.Millisecond)
	rec.ObserveRequest("POST", "/echo", http.StatusAccepted, 100, 7*time.Millisecond)

	snap, err := rec.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if !strings.Contains(snap, `respkit_requests_total{method="GET",path="/greet",status="200"} 2`) {
		t.Errorf("Expected request counter in snapshot, got:\n%s", snap)
	}
	if !strings.Contains(snap, `respkit_response_bytes_total{path="/greet"} 50`) {
		t.Errorf("Expected byte counter in snapshot, got:\n%s", snap)
	}
	if !strings.Contains(snap, "respkit_uptime_seconds") {
		t.Error("Expected uptime gauge in snapshot")
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveRequest("GET", "/health", http.StatusOK, 10, time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from metrics handler, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "respkit_requests_total") {
		t.Error("Expected request counter in metrics output")
	}
}
