package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date layout used on the wire and in forms.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Employee is the single record managed by the dashboard.
	Employee struct {
		ID         int64
		Name       string
		Role       string
		Department string
		Salary     decimal.Decimal
		HiringDate Date
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyRole         = errors.New("empty role")
	ErrEmptyDepartment   = errors.New("empty department")
	ErrInvalidSalary     = errors.New("invalid salary")
	ErrMissingHiringDate = errors.New("missing hiring date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" or an ISO date-time, keeping only the date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the date in wire layout, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// IsNew reports whether the employee has not been persisted yet.
func (e Employee) IsNew() bool {
	return e.ID == 0
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Role) == "" {
		return ErrEmptyRole
	}
	if strings.TrimSpace(e.Department) == "" {
		return ErrEmptyDepartment
	}
	if e.Salary.IsNegative() {
		return ErrInvalidSalary
	}
	if e.HiringDate.IsZero() {
		return ErrMissingHiringDate
	}
	return nil
}
