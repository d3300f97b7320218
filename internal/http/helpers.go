package http

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
)

var hundred = decimal.NewFromInt(100)

// templateFuncs are available to every page and partial.
var templateFuncs = template.FuncMap{
	"currency": core.FormatCurrency,
	"count":    core.FormatCount,
	"date":     core.FormatDate,
	"dateTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("Jan 2, 2006 15:04")
	},
	"pageURL": pageURL,
	"inc":     func(n int) int { return n + 1 },
	"dec":     func(n int) int { return n - 1 },
}

// pageURL links one page of the employee list, keeping the search term.
func pageURL(query string, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	v.Set("page", strconv.Itoa(page))
	return "/views/employees?" + v.Encode()
}

// barWidth scales value against max into a CSS percentage. Non-zero values
// get at least 2% so they stay visible.
func barWidth(value, max decimal.Decimal) int {
	if !max.IsPositive() || !value.IsPositive() {
		return 0
	}
	width := int(value.Mul(hundred).Div(max).Round(0).IntPart())
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

// sharePercent formats part as a percentage of total with one decimal.
func sharePercent(part, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "0.0%"
	}
	return part.Mul(hundred).Div(total).StringFixed(1) + "%"
}

// sanitizeInput removes control characters except tab, newline, carriage
// return and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s))
}
