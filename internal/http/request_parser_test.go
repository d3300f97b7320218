package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"payroll/internal/core"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  ListParams
	}{
		{"defaults", url.Values{}, ListParams{Page: 1}},
		{"search and page", url.Values{"q": {"  dev "}, "page": {"3"}}, ListParams{Query: "dev", Page: 3}},
		{"invalid page ignored", url.Values{"page": {"abc"}}, ListParams{Page: 1}},
		{"control characters stripped", url.Values{"q": {"a\x00b"}}, ListParams{Query: "ab", Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseListParams(tt.query); got != tt.want {
				t.Errorf("ParseListParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseIDString(t *testing.T) {
	for _, in := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := parseIDString(in); !errors.Is(err, errInvalidID) {
			t.Errorf("parseIDString(%q) err = %v", in, err)
		}
	}
	if id, err := parseIDString(" 42 "); err != nil || id != 42 {
		t.Errorf("parseIDString(42) = %d, %v", id, err)
	}
}

func TestParseEmployeeForm(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{
			name:        "form encoded",
			body:        "id=7&name=Ada+Lovelace&role=Developer&department=R%26D&salary=72000.50&hiringDate=2023-04-01",
			contentType: "application/x-www-form-urlencoded",
		},
		{
			name:        "json",
			body:        `{"id":"7","name":"Ada Lovelace","role":"Developer","department":"R&D","salary":72000.5,"hiringDate":"2023-04-01"}`,
			contentType: "application/json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/employees/save", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			form, err := ParseEmployeeForm(req)
			if err != nil {
				t.Fatalf("ParseEmployeeForm: %v", err)
			}
			e, err := form.Employee()
			if err != nil {
				t.Fatalf("Employee: %v", err)
			}
			if e.ID != 7 || e.Name != "Ada Lovelace" || e.Department != "R&D" {
				t.Errorf("unexpected employee %+v", e)
			}
			if e.Salary.String() != "72000.5" {
				t.Errorf("salary = %s", e.Salary)
			}
			if !e.HiringDate.Equal(core.NewDate(2023, 4, 1).Time) {
				t.Errorf("hiring date = %s", e.HiringDate)
			}
		})
	}
}

func TestParseEmployeeForm_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/employees/save", strings.NewReader(`{"name":`))
	if _, err := ParseEmployeeForm(req); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestEmployeeForm_Employee(t *testing.T) {
	valid := EmployeeForm{Name: "Ada", Role: "Developer", Department: "R&D", Salary: "1000", HiringDate: "2023-04-01"}

	tests := []struct {
		name    string
		mutate  func(*EmployeeForm)
		wantErr error
	}{
		{"valid new", func(*EmployeeForm) {}, nil},
		{"comma decimal", func(f *EmployeeForm) { f.Salary = "1234,5" }, nil},
		{"iso date time", func(f *EmployeeForm) { f.HiringDate = "2023-04-01T00:00:00Z" }, nil},
		{"zero salary", func(f *EmployeeForm) { f.Salary = "0" }, nil},
		{"blank name first", func(f *EmployeeForm) { f.Name = ""; f.Salary = "x" }, core.ErrEmptyName},
		{"blank role", func(f *EmployeeForm) { f.Role = "" }, core.ErrEmptyRole},
		{"blank department", func(f *EmployeeForm) { f.Department = "" }, core.ErrEmptyDepartment},
		{"missing salary", func(f *EmployeeForm) { f.Salary = "" }, core.ErrInvalidSalary},
		{"grouped salary", func(f *EmployeeForm) { f.Salary = "1,000.00" }, core.ErrInvalidSalary},
		{"missing date", func(f *EmployeeForm) { f.HiringDate = "" }, core.ErrMissingHiringDate},
		{"bad date", func(f *EmployeeForm) { f.HiringDate = "2023-13-01" }, core.ErrInvalidDate},
		{"bad id", func(f *EmployeeForm) { f.ID = "-1" }, errInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			_, err := f.Employee()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Employee() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormFromEmployee(t *testing.T) {
	f := FormFromEmployee(core.Employee{Name: "Ada"})
	if f.ID != "" {
		t.Errorf("new employee should have an empty id, got %q", f.ID)
	}

	e, err := EmployeeForm{ID: "3", Name: "Ada", Role: "Dev", Department: "R&D", Salary: "10", HiringDate: "2020-02-02"}.Employee()
	if err != nil {
		t.Fatal(err)
	}
	if got := FormFromEmployee(e); got.ID != "3" || got.Salary != "10" || got.HiringDate != "2020-02-02" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestValidationMessage(t *testing.T) {
	if got := validationMessage(core.ErrEmptyName); got != "Name is required." {
		t.Errorf("got %q", got)
	}
	if got := validationMessage(errors.New("something else")); got != "Invalid data provided. Please check your input." {
		t.Errorf("got %q", got)
	}
}

func TestHelpers(t *testing.T) {
	if got := pageURL("dev ops", 2); got != "/views/employees?page=2&q=dev+ops" {
		t.Errorf("pageURL = %q", got)
	}
	if got := pageURL("", 1); got != "/views/employees?page=1" {
		t.Errorf("pageURL = %q", got)
	}
}
