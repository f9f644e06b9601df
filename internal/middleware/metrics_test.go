package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mockHTTPRecorder はHTTPRecorderのモック実装。
type mockHTTPRecorder struct {
	mu        sync.Mutex
	statuses  []int
	durations []time.Duration
}

func (m *mockHTTPRecorder) RecordHTTPStatus(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, statusCode)
}

func (m *mockHTTPRecorder) RecordRequestDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, duration)
}

func TestMetricsMiddleware_RecordsStatusAndDuration(t *testing.T) {
	recorder := &mockHTTPRecorder{}

	mw := NewMetricsMiddleware(recorder)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/categories/nobody@example.com", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 {
		t.Fatalf("recorded statuses = %d, want 1", len(recorder.statuses))
	}
	if recorder.statuses[0] != http.StatusNotFound {
		t.Errorf("status = %d, want %d", recorder.statuses[0], http.StatusNotFound)
	}
	if len(recorder.durations) != 1 {
		t.Fatalf("recorded durations = %d, want 1", len(recorder.durations))
	}
	if recorder.durations[0] < 0 {
		t.Errorf("duration = %v, want non-negative", recorder.durations[0])
	}
}
