// Package employees defines the ports the dashboard uses to reach the
// employee backend, and the error type every adapter reports failures with.
package employees

import (
	"context"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
)

// Ports for outbound adapters.
type (
	// Directory reads employee records.
	Directory interface {
		ListEmployees(ctx context.Context) ([]core.Employee, error)
		GetEmployee(ctx context.Context, id int64) (core.Employee, error)
	}

	// Writer mutates employee records.
	Writer interface {
		CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error)
		UpdateEmployee(ctx context.Context, id int64, e core.Employee) (core.Employee, error)
		DeleteEmployee(ctx context.Context, id int64) error
	}

	// Analytics exposes the aggregate queries computed by the backend.
	Analytics interface {
		TotalPayroll(ctx context.Context) (decimal.Decimal, error)
		AverageSalaryByDepartment(ctx context.Context, department string) (decimal.Decimal, error)
		GroupedByDepartment(ctx context.Context) (map[string][]core.Employee, error)
		TopSalaries(ctx context.Context, n int) ([]core.Employee, error)
		PayrollByJobTitle(ctx context.Context, role string) (decimal.Decimal, error)
		HiredInLastMonths(ctx context.Context, months int) ([]core.Employee, error)
	}

	// Backend is everything the dashboard needs.
	Backend interface {
		Directory
		Writer
		Analytics
	}
)
