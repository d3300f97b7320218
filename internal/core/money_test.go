package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseSalary(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"72000", "72000", true},
		{"1234.5", "1234.5", true},
		{"1234,5", "1234.5", true},
		{" 0 ", "0", true},
		{"0.01", "0.01", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1,234.50", "", false},
		{"1e5", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseSalary(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.5", "$1,234.50"},
		{"0", "$0.00"},
		{"72000", "$72,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"0.005", "$0.01"},
		{"999.999", "$1,000.00"},
		{"-5", "-$5.00"},
		{"-0.001", "$0.00"},
		{"999", "$999.00"},
		{"100000", "$100,000.00"},
		{"12345678901234567890.5", "$12,345,678,901,234,567,890.50"},
		{"-98765432109876543210", "-$98,765,432,109,876,543,210.00"},
	}
	for _, tc := range cases {
		got := FormatCurrency(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{0: "0", 12: "12", 1234: "1,234", 1000000: "1,000,000"}
	for in, want := range cases {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(NewDate(2023, 4, 1)); got != "Apr 1, 2023" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(Date{}); got != "" {
		t.Fatalf("zero date should format empty, got %q", got)
	}
}

func TestFormatDateString(t *testing.T) {
	cases := map[string]string{
		"2023-04-01":                    "Apr 1, 2023",
		"2023-12-25T00:00:00":           "Dec 25, 2023",
		"2024-02-29T13:45:00.000+00:00": "Feb 29, 2024",
		"":                              "",
		"yesterday":                     "yesterday",
	}
	for in, want := range cases {
		if got := FormatDateString(in); got != want {
			t.Errorf("FormatDateString(%q) = %q, want %q", in, got, want)
		}
	}
}
