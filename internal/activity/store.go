// Package activity keeps a local SQLite log of employee mutations made through
// the dashboard so the overview can show what changed recently.
package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// DefaultRecentLimit is how many entries the dashboard shows.
const DefaultRecentLimit = 5

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var ErrInvalidAction = errors.New("invalid activity action")

type Entry struct {
	ID           int64
	Action       Action
	EmployeeID   int64
	EmployeeName string
	OccurredAt   time.Time
}

type Store struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// Open creates the database file (and its directory) if needed and migrates it.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("activity database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, queries: newQueries(db), now: time.Now}, nil
}

// Record appends an entry. A zero OccurredAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, e.Action)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now()
	}

	id, err := s.queries.InsertActivity(ctx, insertActivityParams{
		Action:       string(e.Action),
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		OccurredAt:   e.OccurredAt.UTC().Format(timeLayout),
	})
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	slog.DebugContext(ctx, "Activity recorded",
		"id", id,
		"action", e.Action,
		"employee_id", e.EmployeeID)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.queries.ListRecentActivity(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		at, err := time.Parse(timeLayout, r.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse activity %d timestamp: %w", r.ID, err)
		}
		entries = append(entries, Entry{
			ID:           r.ID,
			Action:       Action(r.Action),
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.EmployeeName,
			OccurredAt:   at,
		})
	}
	return entries, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
