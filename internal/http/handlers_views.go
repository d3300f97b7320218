package http

import (
	"net/http"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"payroll/internal/activity"
	"payroll/internal/core"
)

// Dashboard constants.
const (
	dashboardRecentMonths = 3
	dashboardTopEarners   = 5
)

type departmentBar struct {
	Name      string
	Headcount int
	Width     int
}

type dashboardData struct {
	TotalEmployees int
	TotalPayroll   decimal.Decimal
	RecentHires    int
	TopEarners     []core.Employee
	Departments    []departmentBar
	Activity       []activity.Entry
}

// handleDashboard renders the summary view. All five backend calls must
// succeed for anything to be shown.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		list    []core.Employee
		total   decimal.Decimal
		recent  []core.Employee
		top     []core.Employee
		grouped map[string][]core.Employee
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		list, err = s.backend.ListEmployees(ctx)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.backend.TotalPayroll(ctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.backend.HiredInLastMonths(ctx, dashboardRecentMonths)
		return err
	})
	g.Go(func() (err error) {
		top, err = s.backend.TopSalaries(ctx, dashboardTopEarners)
		return err
	})
	g.Go(func() (err error) {
		grouped, err = s.backend.GroupedByDepartment(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.backendFailed(w, r, "dashboard", err)
		return
	}

	data := dashboardData{
		TotalEmployees: len(list),
		TotalPayroll:   total,
		RecentHires:    len(recent),
		TopEarners:     top,
		Departments:    headcountBars(core.SummarizeDepartments(grouped)),
	}

	if s.activity != nil {
		entries, err := s.activity.RecentActivity(r.Context(), activity.DefaultRecentLimit)
		if err != nil {
			s.viewLogger(r).LogViewFailed(r.Context(), "dashboard.activity", err)
		}
		data.Activity = entries
	}

	s.render(w, r, "dashboard.html", data)
}

func headcountBars(summaries []core.DepartmentSummary) []departmentBar {
	largest := 0
	for _, d := range summaries {
		largest = max(largest, d.Headcount)
	}
	bars := make([]departmentBar, 0, len(summaries))
	for _, d := range summaries {
		bars = append(bars, departmentBar{
			Name:      d.Name,
			Headcount: d.Headcount,
			Width:     barWidth(decimal.NewFromInt(int64(d.Headcount)), decimal.NewFromInt(int64(largest))),
		})
	}
	return bars
}

type employeeListData struct {
	Query string
	Page  core.Page
}

// handleEmployeeList renders one page of the filtered employee table.
func (s *Server) handleEmployeeList(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r.URL.Query())

	list, err := s.backend.ListEmployees(r.Context())
	if err != nil {
		s.backendFailed(w, r, "employees", err)
		return
	}

	filtered := core.FilterEmployees(list, params.Query)
	s.render(w, r, "employees.html", employeeListData{
		Query: params.Query,
		Page:  core.Paginate(filtered, params.Page, core.DefaultPageSize),
	})
}

type payrollRow struct {
	Name      string
	Headcount int
	Total     decimal.Decimal
	Share     string
	Width     int
}

type payrollData struct {
	Period      core.PayrollPeriod
	Periods     []core.PayrollPeriod
	Split       core.PayrollSplit
	Departments []payrollRow
	Roles       []payrollRow
}

// handlePayroll renders the payroll summary and breakdowns for the selected
// period. Per-role totals need the role list, so they run in a second fan-out.
func (s *Server) handlePayroll(w http.ResponseWriter, r *http.Request) {
	period := core.ParsePayrollPeriod(r.URL.Query().Get("period"))

	var (
		total   decimal.Decimal
		grouped map[string][]core.Employee
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		total, err = s.backend.TotalPayroll(ctx)
		return err
	})
	g.Go(func() (err error) {
		grouped, err = s.backend.GroupedByDepartment(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.backendFailed(w, r, "payroll", err)
		return
	}

	roles := core.DistinctRoles(grouped)
	roleTotals := make([]decimal.Decimal, len(roles))
	g, ctx = errgroup.WithContext(r.Context())
	for i, role := range roles {
		g.Go(func() (err error) {
			roleTotals[i], err = s.backend.PayrollByJobTitle(ctx, role)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.backendFailed(w, r, "payroll", err)
		return
	}

	roleCounts := make(map[string]int, len(roles))
	for _, members := range grouped {
		for _, e := range members {
			roleCounts[core.RoleKey(e.Role)]++
		}
	}
	roleSum := decimal.Zero
	for _, amount := range roleTotals {
		roleSum = roleSum.Add(amount)
	}
	departments := core.SummarizeDepartments(grouped)
	departmentSum := decimal.Zero
	for _, d := range departments {
		departmentSum = departmentSum.Add(d.TotalSalary)
	}

	data := payrollData{
		Period:  period,
		Periods: []core.PayrollPeriod{core.PeriodAnnual, core.PeriodQuarterly, core.PeriodMonthly},
		Split:   core.SplitPayroll(period.Scale(total)),
	}
	// Shares are relative to the rows shown, not to the bonus-inclusive total.
	for _, d := range departments {
		data.Departments = append(data.Departments, payrollRow{
			Name:      d.Name,
			Headcount: d.Headcount,
			Total:     period.Scale(d.TotalSalary),
			Share:     sharePercent(d.TotalSalary, departmentSum),
			Width:     barWidth(d.TotalSalary, departmentSum),
		})
	}
	for i, role := range roles {
		data.Roles = append(data.Roles, payrollRow{
			Name:      role,
			Headcount: roleCounts[core.RoleKey(role)],
			Total:     period.Scale(roleTotals[i]),
			Share:     sharePercent(roleTotals[i], roleSum),
			Width:     barWidth(roleTotals[i], roleSum),
		})
	}
	sort.SliceStable(data.Roles, func(i, j int) bool {
		return data.Roles[i].Total.GreaterThan(data.Roles[j].Total)
	})

	s.render(w, r, "payroll.html", data)
}
