package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	baseShare  = decimal.RequireFromString("0.9")
	bonusShare = decimal.RequireFromString("0.1")
)

// PayrollSplit breaks a payroll total into base salaries and bonuses.
type PayrollSplit struct {
	Base  decimal.Decimal
	Bonus decimal.Decimal
	Total decimal.Decimal
}

// SplitPayroll attributes 90% of total to base salaries and 10% to bonuses.
func SplitPayroll(total decimal.Decimal) PayrollSplit {
	return PayrollSplit{
		Base:  total.Mul(baseShare),
		Bonus: total.Mul(bonusShare),
		Total: total,
	}
}

// PayrollPeriod selects the time span payroll amounts are displayed for.
type PayrollPeriod string

const (
	PeriodAnnual    PayrollPeriod = "annual"
	PeriodQuarterly PayrollPeriod = "quarterly"
	PeriodMonthly   PayrollPeriod = "monthly"
)

// ParsePayrollPeriod maps a query value to a period, defaulting to annual.
func ParsePayrollPeriod(s string) PayrollPeriod {
	switch PayrollPeriod(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodQuarterly:
		return PeriodQuarterly
	case PeriodMonthly:
		return PeriodMonthly
	default:
		return PeriodAnnual
	}
}

func (p PayrollPeriod) divisor() int64 {
	switch p {
	case PeriodQuarterly:
		return 4
	case PeriodMonthly:
		return 12
	default:
		return 1
	}
}

// Scale converts an annual amount to the period.
func (p PayrollPeriod) Scale(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(p.divisor()))
}

func (p PayrollPeriod) Label() string {
	switch p {
	case PeriodQuarterly:
		return "Quarterly"
	case PeriodMonthly:
		return "Monthly"
	default:
		return "Annual"
	}
}

// DepartmentSummary aggregates the employees of one department.
type DepartmentSummary struct {
	Name        string
	Headcount   int
	TotalSalary decimal.Decimal
	Employees   []Employee
}

// SummarizeDepartments turns a department grouping into summaries sorted by name.
func SummarizeDepartments(grouped map[string][]Employee) []DepartmentSummary {
	out := make([]DepartmentSummary, 0, len(grouped))
	for name, members := range grouped {
		total := decimal.Zero
		for _, e := range members {
			total = total.Add(e.Salary)
		}
		out = append(out, DepartmentSummary{
			Name:        name,
			Headcount:   len(members),
			TotalSalary: total,
			Employees:   members,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RoleKey is the case-insensitive identity of a role, matching how the
// employee API compares job titles.
func RoleKey(role string) string {
	return strings.ToLower(role)
}

// DistinctRoles returns one spelling per role across a department grouping,
// ordered by RoleKey. Roles differing only in case collapse to the spelling
// met first when walking departments by name.
func DistinctRoles(grouped map[string][]Employee) []string {
	departments := make([]string, 0, len(grouped))
	for name := range grouped {
		departments = append(departments, name)
	}
	sort.Strings(departments)

	spelling := make(map[string]string)
	for _, name := range departments {
		for _, e := range grouped[name] {
			key := RoleKey(e.Role)
			if _, ok := spelling[key]; !ok {
				spelling[key] = e.Role
			}
		}
	}
	keys := make([]string, 0, len(spelling))
	for k := range spelling {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	roles := make([]string, len(keys))
	for i, k := range keys {
		roles[i] = spelling[k]
	}
	return roles
}
