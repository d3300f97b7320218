package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"payroll/internal/activity"
	"payroll/internal/employees"
	applog "payroll/internal/log"
	"payroll/internal/middleware/ratelimit"
	"payroll/internal/middleware/security"
	"payroll/internal/middleware/trace"
	"payroll/internal/report"
	appweb "payroll/web"
)

// ActivityFeed lists the latest dashboard mutations.
type ActivityFeed interface {
	RecentActivity(ctx context.Context, limit int) ([]activity.Entry, error)
}

type Server struct {
	http.Server
	logger    *applog.Logger
	templates *template.Template
	backend   employees.Backend
	activity  ActivityFeed
	reports   *report.Builder

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

type serverOptions struct {
	logger         *applog.Logger
	activity       ActivityFeed
	limiterConfig  ratelimit.Config
	trustedProxies []string
}

// Option configures a Server.
type Option func(*serverOptions)

func WithLogger(l *applog.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithActivityFeed overrides the feed detected on the backend.
func WithActivityFeed(f ActivityFeed) Option {
	return func(o *serverOptions) { o.activity = f }
}

// WithRateLimit limits mutating requests to perMinute per client.
func WithRateLimit(perMinute int) Option {
	return func(o *serverOptions) { o.limiterConfig.RequestsPerMinute = perMinute }
}

func WithTrustedProxies(cidrs ...string) Option {
	return func(o *serverOptions) { o.trustedProxies = append(o.trustedProxies, cidrs...) }
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
// When backend also implements ActivityFeed the dashboard shows recent activity.
func NewServer(addr string, backend employees.Backend, opts ...Option) *Server {
	o := serverOptions{limiterConfig: ratelimit.DefaultConfig()}
	if feed, ok := backend.(ActivityFeed); ok {
		o.activity = feed
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = applog.New(applog.DefaultConfig(slog.LevelInfo))
	}
	logger := o.logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		logger:           logger,
		backend:          backend,
		activity:         o.activity,
		reports:          report.NewBuilder(backend),
		rateLimiter:      ratelimit.NewLimiter(o.limiterConfig),
		securityDetector: security.NewDetector(),
		appMetrics:       newAppMetrics(),
	}
	for _, cidr := range o.trustedProxies {
		if err := s.securityDetector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", applog.FieldError, err)
		}
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", applog.FieldError, err, applog.FieldComponent, applog.ComponentTemplate)
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = applog.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /views/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /views/employees", s.handleEmployeeList)
	mux.HandleFunc("GET /views/payroll", s.handlePayroll)
	mux.HandleFunc("GET /views/reports", s.handleReports)
	mux.HandleFunc("GET /views/reports/content", s.handleReportContent)
	mux.HandleFunc("GET /reports/{file}", s.handleReportPDF)

	modal := applog.ComponentMiddleware(applog.ComponentEmployees)
	mux.Handle("GET /employees/new", modal(http.HandlerFunc(s.handleNewEmployee)))
	mux.Handle("GET /employees/{id}/edit", modal(http.HandlerFunc(s.handleEditEmployee)))
	mux.Handle("POST /employees/save", modal(http.HandlerFunc(s.handleSaveEmployee)))
	mux.Handle("GET /employees/{id}/delete", modal(http.HandlerFunc(s.handleConfirmDelete)))
	mux.Handle("DELETE /employees/{id}", modal(http.HandlerFunc(s.handleDeleteEmployee)))
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").Write(w)
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// render executes a template into a buffer so a failing template never
// leaves a half-written partial.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Template execution failed", err, applog.ComponentTemplate, applog.OpRender,
			applog.NewFields().WithView(name))
		http.Error(w, "Error rendering view", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// backendFailed reports a failed backend call for view: the error is logged
// and the user sees an alert while the previous view stays on screen.
func (s *Server) backendFailed(w http.ResponseWriter, r *http.Request, view string, err error) {
	s.appMetrics.backendFailure()
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogViewFailed(r.Context(), view, err)
	BadGatewayError(employees.UserMessage(err)).Write(w)
}
