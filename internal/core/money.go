// Package core provides money parsing and handling utilities.
//
// This file contains salary parsing from form input and the display
// formatting shared by the HTML views and the PDF reports.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// ParseSalary parses a non-negative decimal amount from form input.
//
// Both dot (1234.50) and comma (1234,50) decimal separators are accepted.
// Grouping separators are not.
//
// Examples:
//   ParseSalary("72000")    -> 72000, nil
//   ParseSalary("1234,5")   -> 1234.5, nil
//   ParseSalary("-1")       -> 0, ErrInvalidSalary
func ParseSalary(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidSalary
	}
	s = strings.Replace(s, ",", ".", 1)
	if strings.ContainsAny(s, ",eE") {
		return decimal.Zero, ErrInvalidSalary
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidSalary
	}
	return d, nil
}

// FormatCurrency renders an amount as US dollars with two decimals and
// en-US digit grouping: 1234.5 -> "$1,234.50", 0 -> "$0.00".
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()
	return sign + "$" + groupThousands(whole.StringFixed(0)) + fmt.Sprintf(".%02d", cents)
}

// groupThousands inserts en-US separators into a string of digits. Amounts
// can exceed int64, so grouping works on the text.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCount renders a headcount with en-US grouping: 1234 -> "1,234".
func FormatCount(n int) string {
	return usPrinter.Sprintf("%d", n)
}

// FormatDate renders a date in short en-US form ("Apr 1, 2023").
// The zero date renders as "".
func FormatDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

// FormatDateString formats a wire date or ISO date-time. Input that does not
// parse is returned unchanged.
func FormatDateString(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	d, err := ParseDate(s)
	if err != nil {
		return s
	}
	return FormatDate(d)
}
