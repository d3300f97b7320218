// This file parses and validates request data: path ids, list queries and
// the employee form, which HTMX may send form-encoded or as JSON.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"payroll/internal/core"
)

// maxFormBytes bounds the employee form body.
const maxFormBytes = 64 << 10

var errInvalidID = errors.New("invalid employee id")

// parseID reads the {id} path value as a positive integer.
func parseID(r *http.Request) (int64, error) {
	return parseIDString(r.PathValue("id"))
}

func parseIDString(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// ListParams holds the employee list query.
type ListParams struct {
	Query string
	Page  int
}

// ParseListParams reads q and page, defaulting to the first page. Out of
// range pages are clamped later by core.Paginate.
func ParseListParams(query url.Values) ListParams {
	params := ListParams{Query: sanitizeInput(query.Get("q")), Page: 1}
	if v := strings.TrimSpace(query.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			params.Page = p
		}
	}
	return params
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once and stores it for parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxFormBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a trimmed, sanitized value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// EmployeeForm is the raw content of the modal form, kept as strings so it
// can be echoed back into the inputs.
type EmployeeForm struct {
	ID         string
	Name       string
	Role       string
	Department string
	Salary     string
	HiringDate string
}

// FormFromEmployee prefills the form for editing.
func FormFromEmployee(e core.Employee) EmployeeForm {
	f := EmployeeForm{
		Name:       e.Name,
		Role:       e.Role,
		Department: e.Department,
		Salary:     e.Salary.String(),
		HiringDate: e.HiringDate.String(),
	}
	if !e.IsNew() {
		f.ID = strconv.FormatInt(e.ID, 10)
	}
	return f
}

// ParseEmployeeForm reads the modal form fields from the request body.
func ParseEmployeeForm(r *http.Request) (EmployeeForm, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return EmployeeForm{}, err
	}
	return EmployeeForm{
		ID:         p.Get("id"),
		Name:       p.Get("name"),
		Role:       p.Get("role"),
		Department: p.Get("department"),
		Salary:     p.Get("salary"),
		HiringDate: p.Get("hiringDate"),
	}, nil
}

// Employee validates the form and converts it. The returned id is zero for
// a new employee. Blank text fields are reported before bad numbers or dates.
func (f EmployeeForm) Employee() (core.Employee, error) {
	e := core.Employee{Name: f.Name, Role: f.Role, Department: f.Department}
	if f.ID != "" {
		id, err := parseIDString(f.ID)
		if err != nil {
			return core.Employee{}, err
		}
		e.ID = id
	}

	salary, salaryErr := core.ParseSalary(f.Salary)
	date, dateErr := core.ParseDate(f.HiringDate)
	e.Salary, e.HiringDate = salary, date

	err := e.Validate()
	switch {
	case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrEmptyRole), errors.Is(err, core.ErrEmptyDepartment):
		return core.Employee{}, err
	case salaryErr != nil:
		return core.Employee{}, core.ErrInvalidSalary
	case f.HiringDate == "":
		return core.Employee{}, core.ErrMissingHiringDate
	case dateErr != nil:
		return core.Employee{}, dateErr
	case err != nil:
		return core.Employee{}, err
	}
	return e, nil
}

// validationMessage turns a form error into alert text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required."
	case errors.Is(err, core.ErrEmptyRole):
		return "Role is required."
	case errors.Is(err, core.ErrEmptyDepartment):
		return "Department is required."
	case errors.Is(err, core.ErrInvalidSalary):
		return "Salary must be a non-negative number."
	case errors.Is(err, core.ErrMissingHiringDate), errors.Is(err, core.ErrInvalidDate):
		return "Hiring date must be a valid date (YYYY-MM-DD)."
	case errors.Is(err, errInvalidID):
		return "Invalid employee id."
	default:
		return "Invalid data provided. Please check your input."
	}
}
