package google

import (
	"sort"
	"strings"

	"payroll/internal/core"
)

var rosterHeader = []any{"ID", "Name", "Role", "Department", "Salary", "Hiring Date"}

// rosterRows converts employees into a values matrix ordered by id, header first.
func rosterRows(list []core.Employee) [][]any {
	sorted := append([]core.Employee(nil), list...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	rows := make([][]any, 0, len(sorted)+1)
	rows = append(rows, rosterHeader)
	for _, e := range sorted {
		rows = append(rows, []any{
			e.ID,
			e.Name,
			e.Role,
			e.Department,
			e.Salary.StringFixed(2),
			e.HiringDate.String(),
		})
	}
	return rows
}

// sheetRange builds an A1 range, quoting the sheet name.
func sheetRange(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}
