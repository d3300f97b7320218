package core

import "strings"

// DefaultPageSize is the number of rows shown per page of the employee list.
const DefaultPageSize = 10

// Page is one slice of a paginated employee list.
type Page struct {
	Items      []Employee
	Number     int // 1-based
	Size       int
	TotalItems int
	TotalPages int
}

// FilterEmployees keeps the employees whose name, role or department contains
// term, ignoring case. An empty term keeps everything.
func FilterEmployees(list []Employee, term string) []Employee {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Role), term) ||
			strings.Contains(strings.ToLower(e.Department), term) {
			out = append(out, e)
		}
	}
	return out
}

// Paginate returns page number of list split into pages of size items.
// TotalPages is ceil(len(list)/size); number is clamped into [1, TotalPages].
func Paginate(list []Employee, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(list)
	pages := (total + size - 1) / size
	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}

	p := Page{Number: number, Size: size, TotalItems: total, TotalPages: pages}
	start := (number - 1) * size
	if start >= total {
		return p
	}
	end := start + size
	if end > total {
		end = total
	}
	p.Items = list[start:end]
	return p
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Numbers lists the page numbers 1..TotalPages for pagination controls.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
