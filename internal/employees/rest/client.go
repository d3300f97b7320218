// Package rest implements the employee ports against the employee REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
	"payroll/internal/employees"
)

// DefaultBaseURL is where the employee API listens in local development.
const DefaultBaseURL = "http://localhost:8080/api/employees"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	onError employees.ErrorHandler
}

// Ensure interface conformance
var _ employees.Backend = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call made by the client, regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithErrorHandler sets the hook invoked for every failed call.
func WithErrorHandler(h employees.ErrorHandler) Option {
	return func(c *Client) { c.onError = h }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/employees".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		onError: employees.LogErrors(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	var out []employeeDTO
	if err := c.do(ctx, "list employees", http.MethodGet, nil, nil, &out); err != nil {
		return nil, err
	}
	return c.toCoreList(ctx, "list employees", out)
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (core.Employee, error) {
	const op = "get employee"
	var out employeeDTO
	if err := c.do(ctx, op, http.MethodGet, segments(strconv.FormatInt(id, 10)), nil, &out); err != nil {
		return core.Employee{}, err
	}
	return c.toCore(ctx, op, out)
}

func (c *Client) CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	const op = "create employee"
	in := fromCore(e)
	in.ID = nil
	var out employeeDTO
	if err := c.do(ctx, op, http.MethodPost, nil, in, &out); err != nil {
		return core.Employee{}, err
	}
	return c.toCore(ctx, op, out)
}

func (c *Client) UpdateEmployee(ctx context.Context, id int64, e core.Employee) (core.Employee, error) {
	const op = "update employee"
	e.ID = id
	var out employeeDTO
	if err := c.do(ctx, op, http.MethodPut, segments(strconv.FormatInt(id, 10)), fromCore(e), &out); err != nil {
		return core.Employee{}, err
	}
	return c.toCore(ctx, op, out)
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, "delete employee", http.MethodDelete, segments(strconv.FormatInt(id, 10)), nil, nil)
}

func (c *Client) TotalPayroll(ctx context.Context) (decimal.Decimal, error) {
	return c.amount(ctx, "total payroll", segments("payroll"))
}

func (c *Client) AverageSalaryByDepartment(ctx context.Context, department string) (decimal.Decimal, error) {
	return c.amount(ctx, "average salary by department", segments("department", department, "average-salary"))
}

func (c *Client) GroupedByDepartment(ctx context.Context) (map[string][]core.Employee, error) {
	const op = "grouped by department"
	var out map[string][]employeeDTO
	if err := c.do(ctx, op, http.MethodGet, segments("grouped-by-department"), nil, &out); err != nil {
		return nil, err
	}
	grouped := make(map[string][]core.Employee, len(out))
	for dept, list := range out {
		members, err := c.toCoreList(ctx, op, list)
		if err != nil {
			return nil, err
		}
		grouped[dept] = members
	}
	return grouped, nil
}

func (c *Client) TopSalaries(ctx context.Context, n int) ([]core.Employee, error) {
	const op = "top salaries"
	var out []employeeDTO
	if err := c.do(ctx, op, http.MethodGet, segments("top-salaries", strconv.Itoa(n)), nil, &out); err != nil {
		return nil, err
	}
	return c.toCoreList(ctx, op, out)
}

func (c *Client) PayrollByJobTitle(ctx context.Context, role string) (decimal.Decimal, error) {
	return c.amount(ctx, "payroll by job title", segments("payroll", "job-title", role))
}

func (c *Client) HiredInLastMonths(ctx context.Context, months int) ([]core.Employee, error) {
	const op = "hired in last months"
	var out []employeeDTO
	if err := c.do(ctx, op, http.MethodGet, segments("hired-in-last", strconv.Itoa(months)), nil, &out); err != nil {
		return nil, err
	}
	return c.toCoreList(ctx, op, out)
}

func (c *Client) amount(ctx context.Context, op string, path []string) (decimal.Decimal, error) {
	var n json.Number
	if err := c.do(ctx, op, http.MethodGet, path, nil, &n); err != nil {
		return decimal.Zero, err
	}
	d, err := parseAmount(n)
	if err != nil {
		return decimal.Zero, c.fail(ctx, op, fmt.Errorf("%s: decode amount: %w", op, err))
	}
	return d, nil
}

// do performs one call and reports any failure through the error handler.
func (c *Client) do(ctx context.Context, op, method string, path []string, in, out any) error {
	if err := c.roundTrip(ctx, op, method, path, in, out); err != nil {
		return c.fail(ctx, op, err)
	}
	return nil
}

func (c *Client) fail(ctx context.Context, op string, err error) error {
	if c.onError != nil {
		c.onError(ctx, op, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method string, path []string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) endpoint(path []string) string {
	if len(path) == 0 {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.Join(path, "/")
}

func segments(parts ...string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = url.PathEscape(p)
	}
	return out
}

// errorBody mirrors the backend's error payload.
type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(op string, resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &employees.APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}
	var eb errorBody
	if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil {
		apiErr.Message = strings.TrimSpace(eb.Message)
	}
	return apiErr
}

// APIError is re-exported for callers that only import this adapter.
type APIError = employees.APIError

var errMissingAmount = errors.New("missing amount")

func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, errMissingAmount
	}
	return decimal.NewFromString(n.String())
}
