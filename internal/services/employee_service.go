package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"payroll/internal/activity"
	"payroll/internal/amqp"
	"payroll/internal/core"
	"payroll/internal/employees"
)

// ActivityLog is the subset of the activity store the service needs.
type ActivityLog interface {
	Record(ctx context.Context, e activity.Entry) error
	Recent(ctx context.Context, limit int) ([]activity.Entry, error)
}

// EventPublisher announces employee mutations to other processes.
type EventPublisher interface {
	PublishEmployeeChanged(ctx context.Context, msg *amqp.EmployeeChangedMessage) error
}

// EmployeeService is the backend the dashboard talks to. Reads go straight to
// the wrapped backend; successful mutations are also recorded in the activity
// log and published as change events. Neither side effect can fail a mutation.
type EmployeeService struct {
	employees.Backend
	activity ActivityLog
	events   EventPublisher
}

type Option func(*EmployeeService)

func WithActivityLog(l ActivityLog) Option {
	return func(s *EmployeeService) { s.activity = l }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *EmployeeService) { s.events = p }
}

func NewEmployeeService(backend employees.Backend, opts ...Option) *EmployeeService {
	s := &EmployeeService{Backend: backend}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	created, err := s.Backend.CreateEmployee(ctx, e)
	if err != nil {
		return core.Employee{}, err
	}
	s.afterChange(ctx, amqp.ActionCreated, created.ID, created.Name)
	return created, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, e core.Employee) (core.Employee, error) {
	updated, err := s.Backend.UpdateEmployee(ctx, id, e)
	if err != nil {
		return core.Employee{}, err
	}
	s.afterChange(ctx, amqp.ActionUpdated, id, updated.Name)
	return updated, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.Backend.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.afterChange(ctx, amqp.ActionDeleted, id, "")
	return nil
}

// RecentActivity returns the latest mutations, or nothing when no log is configured.
func (s *EmployeeService) RecentActivity(ctx context.Context, limit int) ([]activity.Entry, error) {
	if s.activity == nil {
		return nil, nil
	}
	return s.activity.Recent(ctx, limit)
}

func (s *EmployeeService) afterChange(ctx context.Context, action amqp.Action, id int64, name string) {
	if s.activity != nil {
		entry := activity.Entry{
			Action:       activity.Action(action),
			EmployeeID:   id,
			EmployeeName: name,
		}
		if err := s.activity.Record(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to record activity",
				"action", action, "employee_id", id, "error", err)
		}
	}

	if s.events == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping change message")
		return
	}
	if err := s.events.PublishEmployeeChanged(ctx, amqp.NewEmployeeChangedMessage(action, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"action", action, "employee_id", id, "error", err)
	}
}

// Close releases the activity log and event publisher when they hold resources.
func (s *EmployeeService) Close() error {
	var errs []error

	if c, ok := s.activity.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("activity: %w", err))
		}
	}
	if c, ok := s.events.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close employee service: %w", err)
	}
	return nil
}
