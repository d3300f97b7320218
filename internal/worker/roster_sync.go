// Package worker keeps an external copy of the employee roster in sync with
// the backend, driven by change events and a periodic fallback export.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"payroll/internal/amqp"
	"payroll/internal/core"
	"payroll/internal/employees"
)

// DefaultInterval is the fallback export period.
const DefaultInterval = 5 * time.Minute

// RosterExporter replaces the exported roster with list.
type RosterExporter interface {
	ExportRoster(ctx context.Context, list []core.Employee) (int, error)
}

// RosterSync re-exports the full roster whenever an employee changes.
type RosterSync struct {
	directory employees.Directory
	exporter  RosterExporter
	interval  time.Duration

	// exports are serialized so an event and a tick never interleave writes
	exportMu sync.Mutex
	lastSync time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRosterSync(directory employees.Directory, exporter RosterExporter, interval time.Duration) *RosterSync {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RosterSync{
		directory: directory,
		exporter:  exporter,
		interval:  interval,
	}
}

// HandleEmployeeChanged is the AMQP handler. The message only says something
// changed; the current roster is always fetched from the backend.
func (w *RosterSync) HandleEmployeeChanged(ctx context.Context, msg *amqp.EmployeeChangedMessage) error {
	slog.InfoContext(ctx, "Processing employee change message",
		"action", msg.Action,
		"employee_id", msg.EmployeeID)

	if _, err := w.SyncRoster(ctx); err != nil {
		return fmt.Errorf("sync roster after %s of employee %d: %w", msg.Action, msg.EmployeeID, err)
	}
	return nil
}

// SyncRoster exports the current roster and returns the number of rows written.
func (w *RosterSync) SyncRoster(ctx context.Context) (int, error) {
	w.exportMu.Lock()
	defer w.exportMu.Unlock()

	start := time.Now()
	list, err := w.directory.ListEmployees(ctx)
	if err != nil {
		return 0, fmt.Errorf("list employees: %w", err)
	}

	n, err := w.exporter.ExportRoster(ctx, list)
	if err != nil {
		return 0, fmt.Errorf("export roster: %w", err)
	}
	w.lastSync = time.Now()

	slog.InfoContext(ctx, "Roster exported",
		"rows", n,
		"duration", time.Since(start).String())
	return n, nil
}

// LastSync reports when the last successful export finished.
func (w *RosterSync) LastSync() time.Time {
	w.exportMu.Lock()
	defer w.exportMu.Unlock()
	return w.lastSync
}

// Start runs an immediate export and then one every interval, until Stop or
// ctx cancellation. Returns an error if already running.
func (w *RosterSync) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("roster sync is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Roster sync started", "interval", w.interval.String())
	return nil
}

// Stop signals the loop and waits for it to finish or ctx to expire.
func (w *RosterSync) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Roster sync stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Roster sync stop timed out")
		return ctx.Err()
	}
}

func (w *RosterSync) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *RosterSync) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.periodicSync(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.periodicSync(ctx)
		}
	}
}

func (w *RosterSync) periodicSync(ctx context.Context) {
	if _, err := w.SyncRoster(ctx); err != nil {
		slog.ErrorContext(ctx, "Periodic roster export failed", "error", err)
	}
}
