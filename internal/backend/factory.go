package backend

import (
	"context"
	"fmt"
	"log/slog"

	"payroll/internal/activity"
	"payroll/internal/amqp"
	"payroll/internal/employees"
	"payroll/internal/employees/memory"
	"payroll/internal/employees/rest"
	"payroll/internal/services"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend builds the employee backend and wraps it in the service that
// records activity and publishes change events. Activity and AMQP are
// optional: a failure to set either up is logged and the service runs without it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		base employees.Backend
		err  error
	)
	switch config.Type {
	case RESTBackend:
		base, err = f.createRESTBackend(config)
	case MemoryBackend:
		base = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	var opts []services.Option

	if config.ActivityDBPath != "" {
		store, err := activity.Open(config.ActivityDBPath)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to open activity log, continuing without it",
				"error", err, "path", config.ActivityDBPath)
		} else {
			opts = append(opts, services.WithActivityLog(store))
			f.logger.InfoContext(ctx, "Initialized activity log", "path", config.ActivityDBPath)
		}
	}

	if config.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			opts = append(opts, services.WithEventPublisher(amqpClient))
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewEmployeeService(base, opts...)
	return &BackendResult{
		Backend: svc,
		Cleanup: svc.Close,
	}, nil
}

func (f *DefaultFactory) createRESTBackend(config Config) (employees.Backend, error) {
	opts := []rest.Option{rest.WithErrorHandler(employees.LogErrors(f.logger))}
	if config.APITimeout > 0 {
		opts = append(opts, rest.WithTimeout(config.APITimeout))
	}
	client, err := rest.New(config.APIBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize employee API client: %w", err)
	}

	f.logger.Info("Initialized REST backend", "base_url", config.APIBaseURL, "timeout", config.APITimeout.String())
	return client, nil
}

func (f *DefaultFactory) createMemoryBackend() employees.Backend {
	store := memory.New(memory.SampleRoster()...)
	f.logger.Info("Initialized memory backend with sample roster")
	return store
}
