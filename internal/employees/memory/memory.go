// Package memory is an in-process employee backend for local development
// and tests. It answers every call the way the employee API does, including
// its 404s on empty rosters.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
	"payroll/internal/employees"
)

var (
	baseSalaries = map[string]decimal.Decimal{
		"manager":   decimal.NewFromInt(80000),
		"developer": decimal.NewFromInt(60000),
		"intern":    decimal.NewFromInt(30000),
	}
	defaultBaseSalary = decimal.NewFromInt(50000)
	highEarnerRatio   = decimal.RequireFromString("1.2")
	highBonusRate     = decimal.RequireFromString("0.10")
	lowBonusRate      = decimal.RequireFromString("0.05")
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.Employee
	now    func() time.Time
}

// Ensure interface conformance
var _ employees.Backend = (*Store)(nil)

// New returns a store seeded with the given employees. Seeds without an id
// are assigned one.
func New(seed ...core.Employee) *Store {
	s := &Store{items: make(map[int64]core.Employee), now: time.Now}
	for _, e := range seed {
		if e.ID == 0 {
			s.nextID++
			e.ID = s.nextID
		} else if e.ID > s.nextID {
			s.nextID = e.ID
		}
		s.items[e.ID] = e
	}
	return s
}

// WithClock overrides the clock used for hiring-window queries.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// SampleRoster is a small demo roster.
func SampleRoster() []core.Employee {
	d := func(y, m, day int) core.Date { return core.NewDate(y, m, day) }
	return []core.Employee{
		{Name: "John Doe", Role: "Manager", Department: "Marketing", Salary: decimal.NewFromInt(80000), HiringDate: d(2020, 1, 1)},
		{Name: "Jane Smith", Role: "Developer", Department: "Engineering", Salary: decimal.NewFromInt(70000), HiringDate: d(2021, 3, 15)},
		{Name: "Bob Johnson", Role: "Developer", Department: "Engineering", Salary: decimal.NewFromInt(65000), HiringDate: d(2022, 6, 1)},
		{Name: "Alice Brown", Role: "Intern", Department: "Engineering", Salary: decimal.NewFromInt(30000), HiringDate: d(2024, 9, 2)},
		{Name: "Carlos Ruiz", Role: "Analyst", Department: "Finance", Salary: decimal.NewFromInt(58000), HiringDate: d(2023, 11, 20)},
	}
}

func notFound(op, msg string) error {
	return &employees.APIError{Op: op, StatusCode: http.StatusNotFound, Message: msg}
}

func (s *Store) sorted() []core.Employee {
	out := make([]core.Employee, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListEmployees(_ context.Context) ([]core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *Store) GetEmployee(_ context.Context, id int64) (core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Employee{}, notFound("get employee", "Employee not found")
	}
	return e, nil
}

func (s *Store) CreateEmployee(_ context.Context, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, &employees.APIError{Op: "create employee", StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.items[e.ID] = e
	return e, nil
}

func (s *Store) UpdateEmployee(_ context.Context, id int64, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, &employees.APIError{Op: "update employee", StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return core.Employee{}, notFound("update employee", fmt.Sprintf("Employee not found with id: %d", id))
	}
	e.ID = id
	s.items[id] = e
	return e, nil
}

func (s *Store) DeleteEmployee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return notFound("delete employee", fmt.Sprintf("Employee not found with id: %d", id))
	}
	delete(s.items, id)
	return nil
}

// TotalPayroll sums salary plus bonus: 10% for salaries above 1.2x the role's
// base salary, 5% otherwise.
func (s *Store) TotalPayroll(_ context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, e := range s.items {
		total = total.Add(e.Salary).Add(bonus(e))
	}
	return total, nil
}

func bonus(e core.Employee) decimal.Decimal {
	base, ok := baseSalaries[strings.ToLower(e.Role)]
	if !ok {
		base = defaultBaseSalary
	}
	if e.Salary.GreaterThan(base.Mul(highEarnerRatio)) {
		return e.Salary.Mul(highBonusRate)
	}
	return e.Salary.Mul(lowBonusRate)
}

func (s *Store) AverageSalaryByDepartment(_ context.Context, department string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	n := 0
	for _, e := range s.items {
		if e.Department == department {
			sum = sum.Add(e.Salary)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero, notFound("average salary by department", "Department not found: "+department)
	}
	return sum.Div(decimal.NewFromInt(int64(n))), nil
}

func (s *Store) GroupedByDepartment(_ context.Context) (map[string][]core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return nil, notFound("grouped by department", "Employee not found")
	}
	grouped := make(map[string][]core.Employee)
	for _, e := range s.sorted() {
		grouped[e.Department] = append(grouped[e.Department], e)
	}
	return grouped, nil
}

func (s *Store) TopSalaries(_ context.Context, n int) ([]core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return nil, notFound("top salaries", "Employee not found")
	}
	list := s.sorted()
	sort.SliceStable(list, func(i, j int) bool { return list[i].Salary.GreaterThan(list[j].Salary) })
	if n < len(list) {
		list = list[:max(n, 0)]
	}
	return list, nil
}

func (s *Store) PayrollByJobTitle(_ context.Context, role string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return decimal.Zero, notFound("payroll by job title", "Employee not found")
	}
	total := decimal.Zero
	for _, e := range s.items {
		if strings.EqualFold(e.Role, role) {
			total = total.Add(e.Salary)
		}
	}
	return total, nil
}

func (s *Store) HiredInLastMonths(_ context.Context, months int) ([]core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)
	var out []core.Employee
	for _, e := range s.sorted() {
		if e.HiringDate.After(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}
