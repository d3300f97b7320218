package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"payroll/internal/employees"
	applog "payroll/internal/log"
	"payroll/internal/report"
)

// reportErrorMessage replaces the report body when it cannot be built.
const reportErrorMessage = "Error loading report data."

type reportTab struct {
	Type   report.Type
	Title  string
	Active bool
}

func reportTabs(active report.Type) []reportTab {
	tabs := make([]reportTab, 0, len(report.Types()))
	for _, t := range report.Types() {
		tabs = append(tabs, reportTab{Type: t, Title: t.Title(), Active: t == active})
	}
	return tabs
}

// handleReports renders the reports shell; its content loads separately
// behind a spinner.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	t, err := report.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		BadRequestError("Unknown report type.").Write(w)
		return
	}
	s.render(w, r, "reports.html", struct {
		Type  report.Type
		Title string
		Tabs  []reportTab
	}{Type: t, Title: t.Title(), Tabs: reportTabs(t)})
}

// handleReportContent renders one report. Unlike the other views a failure
// is swapped in as an inline message.
func (s *Server) handleReportContent(w http.ResponseWriter, r *http.Request) {
	t, err := report.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		BadRequestError("Unknown report type.").Write(w)
		return
	}

	rep, err := s.reports.Build(r.Context(), t)
	if err != nil {
		s.appMetrics.backendFailure()
		s.viewLogger(r).LogError(r.Context(), "Failed to build report", err, applog.ComponentReport, applog.OpRender,
			applog.NewFields().WithView("reports"))
		NewHTMXResponse().
			TriggerErrorNotification(employees.UserMessage(err)).
			BodyHTML(`<div class="report-error">` + reportErrorMessage + `</div>`).
			Write(w)
		return
	}
	s.render(w, r, "report_content.html", rep)
}

// handleReportPDF serves /reports/{type}.pdf as a download.
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".pdf")
	if !ok {
		http.NotFound(w, r)
		return
	}
	t, err := report.ParseType(name)
	if err != nil || name == "" {
		http.NotFound(w, r)
		return
	}

	rep, err := s.reports.Build(r.Context(), t)
	if err != nil {
		s.appMetrics.backendFailure()
		s.viewLogger(r).LogError(r.Context(), "Failed to build report", err, applog.ComponentReport, applog.OpExport,
			applog.NewFields().WithView("reports"))
		http.Error(w, reportErrorMessage, http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(rep, &buf); err != nil {
		s.viewLogger(r).LogError(r.Context(), "Failed to render report PDF", err, applog.ComponentReport, applog.OpExport,
			applog.NewFields().WithView("reports"))
		http.Error(w, "Error generating PDF", http.StatusInternalServerError)
		return
	}
	atomic.AddInt64(&s.appMetrics.reportsExported, 1)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-report.pdf"`, t))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
