package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	applog "payroll/internal/log"
)

// appMetrics counts what the dashboard did since start.
type appMetrics struct {
	uptime           time.Time
	employeesCreated int64
	employeesUpdated int64
	employeesDeleted int64
	reportsExported  int64
	backendFailures  int64
}

func newAppMetrics() *appMetrics {
	return &appMetrics{uptime: time.Now()}
}

func (m *appMetrics) backendFailure() { atomic.AddInt64(&m.backendFailures, 1) }

// view is one tab of the page shell.
type view struct {
	Name  string
	Title string
	Path  string
}

var views = []view{
	{Name: "dashboard", Title: "Dashboard", Path: "/views/dashboard"},
	{Name: "employees", Title: "Employees", Path: "/views/employees"},
	{Name: "payroll", Title: "Payroll", Path: "/views/payroll"},
	{Name: "reports", Title: "Reports", Path: "/views/reports"},
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady checks templates and probes the backend with a list call.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if _, err := s.backend.ListEmployees(ctx); err != nil {
		checks["backend"] = fmt.Sprintf("failed: %v", err)
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["backend"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	writeMetric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	writeMetric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric("http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	writeMetric("http_response_time_ms", "gauge", "Average response time in milliseconds", traceMetrics.AverageResponseTime.Milliseconds())
	fmt.Fprintf(w, "# HELP employee_mutations_total Successful employee mutations\n# TYPE employee_mutations_total counter\n")
	fmt.Fprintf(w, "employee_mutations_total{action=\"create\"} %d\n", atomic.LoadInt64(&s.appMetrics.employeesCreated))
	fmt.Fprintf(w, "employee_mutations_total{action=\"update\"} %d\n", atomic.LoadInt64(&s.appMetrics.employeesUpdated))
	fmt.Fprintf(w, "employee_mutations_total{action=\"delete\"} %d\n\n", atomic.LoadInt64(&s.appMetrics.employeesDeleted))
	writeMetric("report_exports_total", "counter", "PDF reports exported", atomic.LoadInt64(&s.appMetrics.reportsExported))
	writeMetric("backend_failures_total", "counter", "Views or actions abandoned because the backend failed", atomic.LoadInt64(&s.appMetrics.backendFailures))
	writeMetric("rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	writeMetric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	writeMetric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	writeMetric("blocked_requests_total", "counter", "Requests refused by the security filter", securityMetrics.BlockedRequests)
	writeMetric("uptime_seconds", "gauge", "Application uptime in seconds", fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", struct {
		Views   []view
		Default view
	}{Views: views, Default: views[0]})
}

func (s *Server) viewLogger(r *http.Request) *applog.StructuredLogger {
	return applog.NewStructuredLogger(applog.FromContext(r.Context()))
}
