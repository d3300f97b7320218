package trace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "payroll/internal/log"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	m := NewMiddleware(applog.Discard(), nil)
	var seenID string
	var seenLogger *applog.Logger
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenLogger = applog.FromContext(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/dashboard", nil))

	if !strings.HasPrefix(seenID, "req_") {
		t.Fatalf("unexpected request id %q", seenID)
	}
	if rec.Header().Get(HeaderRequestID) != seenID {
		t.Fatalf("response header %q != context id %q", rec.Header().Get(HeaderRequestID), seenID)
	}
	if seenLogger == nil || seenLogger.Component() != applog.ComponentTrace {
		t.Fatalf("request logger not installed")
	}

	metrics := m.GetMetrics()
	if metrics.TotalRequests != 1 || metrics.ServerErrors != 1 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	m := NewMiddleware(applog.Discard(), nil)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "abc123" {
		t.Fatalf("request id = %q, want abc123", got)
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
