package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"payroll/internal/core"
)

type column struct {
	title string
	width float64 // share of the content width
	align string
}

// WritePDF renders r as a single-table PDF document.
func WritePDF(r *Report, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle(r.Title, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, "Page "+strconv.Itoa(pdf.PageNo())+" of {nb}", "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	drawHeader(pdf, r)

	switch r.Type {
	case TypeJobTitle:
		drawJobTitles(pdf, r.JobTitles)
	case TypeHiring:
		drawHiring(pdf, r.Hiring)
	default:
		drawDepartments(pdf, r.Departments)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render %s report: %w", r.Type, err)
	}
	return pdf.Output(w)
}

func drawHeader(pdf *fpdf.Fpdf, r *Report) {
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, r.Title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetXY(marginL, marginT+12)
	pdf.CellFormat(contentW, 5, "Generated "+r.GeneratedAt.Format("Jan 2, 2006 15:04 MST"), "", 1, "R", false, 0, "")
	pdf.Ln(3)
}

func drawTable(pdf *fpdf.Fpdf, cols []column, rows [][]string) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	header := func() {
		pdf.SetFillColor(30, 30, 30)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 8.5)
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*c.width, 7, c.title, "1", ln, "C", true, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 7, "No data available.", "1", 1, "C", false, 0, "")
		return
	}

	_, pageH := pdf.GetPageSize()
	_, _, _, marginB := pdf.GetMargins()
	for n, row := range rows {
		if pdf.GetY()+6.5 > pageH-marginB {
			pdf.AddPage()
			header()
		}
		fill := n%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*c.width, 6.5, tr(row[i]), "1", ln, c.align, fill, 0, "")
		}
	}
}

func drawDepartments(pdf *fpdf.Fpdf, rows []DepartmentRow) {
	cols := []column{
		{"Department", 0.34, "L"},
		{"Employees", 0.16, "C"},
		{"Total Salary", 0.25, "R"},
		{"Average Salary", 0.25, "R"},
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Name,
			strconv.Itoa(r.Headcount),
			core.FormatCurrency(r.TotalSalary),
			core.FormatCurrency(r.AverageSalary),
		})
	}
	drawTable(pdf, cols, cells)
}

func drawJobTitles(pdf *fpdf.Fpdf, rows []JobTitleRow) {
	cols := []column{
		{"Job Title", 0.24, "L"},
		{"Count", 0.10, "C"},
		{"Total", 0.18, "R"},
		{"Average", 0.16, "R"},
		{"Min", 0.16, "R"},
		{"Max", 0.16, "R"},
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Role,
			strconv.Itoa(r.Count),
			core.FormatCurrency(r.TotalSalary),
			core.FormatCurrency(r.AverageSalary),
			core.FormatCurrency(r.MinSalary),
			core.FormatCurrency(r.MaxSalary),
		})
	}
	drawTable(pdf, cols, cells)
}

func drawHiring(pdf *fpdf.Fpdf, months []HiringMonth) {
	cols := []column{
		{"Month", 0.20, "L"},
		{"Name", 0.26, "L"},
		{"Role", 0.20, "L"},
		{"Department", 0.18, "L"},
		{"Hired", 0.16, "C"},
	}
	var cells [][]string
	for _, m := range months {
		for i, e := range m.Employees {
			label := ""
			if i == 0 {
				label = m.Label()
			}
			cells = append(cells, []string{label, e.Name, e.Role, e.Department, core.FormatDate(e.HiringDate)})
		}
	}
	drawTable(pdf, cols, cells)
}
