package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
	"payroll/internal/employees"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(SampleRoster()...)

	list, err := s.ListEmployees(ctx)
	if err != nil || len(list) != 5 || list[0].ID != 1 || list[4].ID != 5 {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}

	created, err := s.CreateEmployee(ctx, core.Employee{
		Name: "New Hire", Role: "Developer", Department: "Engineering",
		Salary: decimal.NewFromInt(61000), HiringDate: core.NewDate(2025, 1, 1),
	})
	if err != nil || created.ID != 6 {
		t.Fatalf("unexpected create: %+v err=%v", created, err)
	}

	created.Role = "Lead"
	updated, err := s.UpdateEmployee(ctx, 6, created)
	if err != nil || updated.Role != "Lead" {
		t.Fatalf("unexpected update: %+v err=%v", updated, err)
	}

	if err := s.DeleteEmployee(ctx, 6); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetEmployee(ctx, 6); !employees.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := s.UpdateEmployee(ctx, 6, created); !employees.IsNotFound(err) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := s.DeleteEmployee(ctx, 6); !employees.IsNotFound(err) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestMemoryStoreRejectsInvalidEmployee(t *testing.T) {
	_, err := New().CreateEmployee(context.Background(), core.Employee{Name: "x"})
	if employees.UserMessage(err) != core.ErrEmptyRole.Error() {
		t.Fatalf("expected validation message, got %v", err)
	}
}

func TestMemoryStorePayroll(t *testing.T) {
	ctx := context.Background()
	s := New(
		// 100000 > 1.2*80000: 10% bonus
		core.Employee{Name: "M", Role: "manager", Department: "A", Salary: decimal.NewFromInt(100000), HiringDate: core.NewDate(2020, 1, 1)},
		// 60000 <= 1.2*60000: 5% bonus
		core.Employee{Name: "D", Role: "Developer", Department: "A", Salary: decimal.NewFromInt(60000), HiringDate: core.NewDate(2020, 1, 1)},
		// default base 50000, 70000 > 60000: 10% bonus
		core.Employee{Name: "X", Role: "Designer", Department: "B", Salary: decimal.NewFromInt(70000), HiringDate: core.NewDate(2020, 1, 1)},
	)

	total, err := s.TotalPayroll(ctx)
	if err != nil || !total.Equal(decimal.NewFromInt(110000+63000+77000)) {
		t.Fatalf("TotalPayroll = %s err=%v", total, err)
	}

	avg, err := s.AverageSalaryByDepartment(ctx, "A")
	if err != nil || !avg.Equal(decimal.NewFromInt(80000)) {
		t.Fatalf("average = %s err=%v", avg, err)
	}
	if _, err := s.AverageSalaryByDepartment(ctx, "Nope"); !employees.IsNotFound(err) {
		t.Fatalf("expected department not found, got %v", err)
	}

	byRole, err := s.PayrollByJobTitle(ctx, "DEVELOPER")
	if err != nil || !byRole.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("payroll by role = %s err=%v", byRole, err)
	}

	top, err := s.TopSalaries(ctx, 2)
	if err != nil || len(top) != 2 || top[0].Name != "M" || top[1].Name != "X" {
		t.Fatalf("top = %+v err=%v", top, err)
	}

	grouped, err := s.GroupedByDepartment(ctx)
	if err != nil || len(grouped["A"]) != 2 || len(grouped["B"]) != 1 {
		t.Fatalf("grouped = %+v err=%v", grouped, err)
	}
}

func TestMemoryStoreEmptyRosterMirrorsAPI(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GroupedByDepartment(ctx); !employees.IsNotFound(err) {
		t.Fatalf("grouped on empty roster: %v", err)
	}
	if _, err := s.TopSalaries(ctx, 5); !employees.IsNotFound(err) {
		t.Fatalf("top on empty roster: %v", err)
	}
	total, err := s.TotalPayroll(ctx)
	if err != nil || !total.IsZero() {
		t.Fatalf("payroll on empty roster = %s err=%v", total, err)
	}
}

func TestMemoryStoreHiredInLastMonths(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(
		core.Employee{Name: "old", HiringDate: core.NewDate(2024, 1, 1)},
		core.Employee{Name: "boundary", HiringDate: core.NewDate(2025, 3, 15)},
		core.Employee{Name: "recent", HiringDate: core.NewDate(2025, 5, 1)},
	).WithClock(func() time.Time { return now })

	got, err := s.HiredInLastMonths(context.Background(), 3)
	if err != nil || len(got) != 1 || got[0].Name != "recent" {
		t.Fatalf("hired in last 3 months = %+v err=%v", got, err)
	}
}
