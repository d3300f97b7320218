package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
)

// employeeDTO is the wire shape of an employee record.
type employeeDTO struct {
	ID         *int64      `json:"id,omitempty"`
	Name       string      `json:"name"`
	Role       string      `json:"role"`
	Salary     json.Number `json:"salary"`
	Department string      `json:"department"`
	HiringDate string      `json:"hiringDate"`
}

func fromCore(e core.Employee) employeeDTO {
	dto := employeeDTO{
		Name:       e.Name,
		Role:       e.Role,
		Salary:     json.Number(e.Salary.String()),
		Department: e.Department,
		HiringDate: e.HiringDate.String(),
	}
	if e.ID != 0 {
		id := e.ID
		dto.ID = &id
	}
	return dto
}

func decodeEmployee(dto employeeDTO) (core.Employee, error) {
	e := core.Employee{
		Name:       dto.Name,
		Role:       dto.Role,
		Department: dto.Department,
		Salary:     decimal.Zero,
	}
	if dto.ID != nil {
		e.ID = *dto.ID
	}
	if dto.Salary != "" {
		s, err := decimal.NewFromString(dto.Salary.String())
		if err != nil {
			return core.Employee{}, fmt.Errorf("employee %d: salary %q: %w", e.ID, dto.Salary, err)
		}
		e.Salary = s
	}
	if dto.HiringDate != "" {
		d, err := core.ParseDate(dto.HiringDate)
		if err != nil {
			return core.Employee{}, fmt.Errorf("employee %d: hiring date %q: %w", e.ID, dto.HiringDate, err)
		}
		e.HiringDate = d
	}
	return e, nil
}

func (c *Client) toCore(ctx context.Context, op string, dto employeeDTO) (core.Employee, error) {
	e, err := decodeEmployee(dto)
	if err != nil {
		return core.Employee{}, c.fail(ctx, op, fmt.Errorf("%s: decode response: %w", op, err))
	}
	return e, nil
}

func (c *Client) toCoreList(ctx context.Context, op string, list []employeeDTO) ([]core.Employee, error) {
	out := make([]core.Employee, 0, len(list))
	for _, dto := range list {
		e, err := c.toCore(ctx, op, dto)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
