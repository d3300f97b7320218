// Package report builds the dashboard's analysis reports. The same models
// back the HTML reports view and the PDF export.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"payroll/internal/core"
	"payroll/internal/employees"
)

type Type string

const (
	TypeDepartment Type = "department"
	TypeJobTitle   Type = "job-title"
	TypeHiring     Type = "hiring"
)

// HiringWindowMonths is how far back the hiring report looks.
const HiringWindowMonths = 12

// Types lists the reports in menu order.
func Types() []Type {
	return []Type{TypeDepartment, TypeJobTitle, TypeHiring}
}

// ParseType accepts a report type, defaulting to the department report on
// empty input.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case "":
		return TypeDepartment, nil
	case TypeDepartment, TypeJobTitle, TypeHiring:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

func (t Type) Title() string {
	switch t {
	case TypeJobTitle:
		return "Job Title Analysis"
	case TypeHiring:
		return "Hiring Trends"
	default:
		return "Department Analysis"
	}
}

type DepartmentRow struct {
	Name          string
	Headcount     int
	TotalSalary   decimal.Decimal
	AverageSalary decimal.Decimal
}

type JobTitleRow struct {
	Role          string
	Count         int
	TotalSalary   decimal.Decimal
	AverageSalary decimal.Decimal
	MinSalary     decimal.Decimal
	MaxSalary     decimal.Decimal
}

type HiringMonth struct {
	Month     time.Time // first day of the month, UTC
	Employees []core.Employee
}

func (m HiringMonth) Label() string {
	return m.Month.Format("January 2006")
}

// Report holds exactly one populated section, selected by Type.
type Report struct {
	Type        Type
	Title       string
	GeneratedAt time.Time

	Departments []DepartmentRow
	JobTitles   []JobTitleRow
	Hiring      []HiringMonth
}

// Empty reports whether the populated section has no rows.
func (r *Report) Empty() bool {
	switch r.Type {
	case TypeJobTitle:
		return len(r.JobTitles) == 0
	case TypeHiring:
		return len(r.Hiring) == 0
	default:
		return len(r.Departments) == 0
	}
}

// Source is what the builder reads from.
type Source interface {
	employees.Directory
	employees.Analytics
}

type Builder struct {
	src Source
	now func() time.Time
}

func NewBuilder(src Source) *Builder {
	return &Builder{src: src, now: time.Now}
}

func (b *Builder) Build(ctx context.Context, t Type) (*Report, error) {
	r := &Report{Type: t, Title: t.Title(), GeneratedAt: b.now()}

	var err error
	switch t {
	case TypeDepartment:
		r.Departments, err = b.departments(ctx)
	case TypeJobTitle:
		r.JobTitles, err = b.jobTitles(ctx)
	case TypeHiring:
		r.Hiring, err = b.hiring(ctx)
	default:
		return nil, fmt.Errorf("unknown report type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s report: %w", t, err)
	}
	return r, nil
}

// departments combines the grouped roster with the backend's per-department
// average, fetched concurrently.
func (b *Builder) departments(ctx context.Context) ([]DepartmentRow, error) {
	grouped, err := b.src.GroupedByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	summaries := core.SummarizeDepartments(grouped)
	rows := make([]DepartmentRow, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range summaries {
		rows[i] = DepartmentRow{Name: s.Name, Headcount: s.Headcount, TotalSalary: s.TotalSalary}
		g.Go(func() error {
			avg, err := b.src.AverageSalaryByDepartment(gctx, s.Name)
			if err != nil {
				return err
			}
			rows[i].AverageSalary = avg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (b *Builder) jobTitles(ctx context.Context) ([]JobTitleRow, error) {
	list, err := b.src.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return JobTitleRows(list), nil
}

func (b *Builder) hiring(ctx context.Context) ([]HiringMonth, error) {
	hires, err := b.src.HiredInLastMonths(ctx, HiringWindowMonths)
	if err != nil {
		return nil, err
	}
	return HiringByMonth(hires), nil
}

// JobTitleRows aggregates salaries per role, sorted by role.
func JobTitleRows(list []core.Employee) []JobTitleRow {
	byRole := make(map[string]*JobTitleRow)
	for _, e := range list {
		row, ok := byRole[e.Role]
		if !ok {
			row = &JobTitleRow{Role: e.Role, MinSalary: e.Salary, MaxSalary: e.Salary}
			byRole[e.Role] = row
		}
		row.Count++
		row.TotalSalary = row.TotalSalary.Add(e.Salary)
		if e.Salary.LessThan(row.MinSalary) {
			row.MinSalary = e.Salary
		}
		if e.Salary.GreaterThan(row.MaxSalary) {
			row.MaxSalary = e.Salary
		}
	}

	rows := make([]JobTitleRow, 0, len(byRole))
	for _, row := range byRole {
		row.AverageSalary = row.TotalSalary.Div(decimal.NewFromInt(int64(row.Count))).Round(2)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Role < rows[j].Role })
	return rows
}

// HiringByMonth buckets hires by calendar month, newest month first and
// newest hire first within a month. Hires without a date are skipped.
func HiringByMonth(hires []core.Employee) []HiringMonth {
	byMonth := make(map[time.Time][]core.Employee)
	for _, e := range hires {
		if e.HiringDate.IsZero() {
			continue
		}
		t := e.HiringDate.Time
		key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[key] = append(byMonth[key], e)
	}

	months := make([]HiringMonth, 0, len(byMonth))
	for m, list := range byMonth {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].HiringDate.After(list[j].HiringDate.Time)
		})
		months = append(months, HiringMonth{Month: m, Employees: list})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month.After(months[j].Month) })
	return months
}
