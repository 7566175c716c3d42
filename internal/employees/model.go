// Package employees manages farm staff records.
package employees

import (
	"errors"
	"time"

	"github.com/farmstead-erp/farmstead-erp/internal/orders"
)

// Employee is one staff record.
type Employee struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Position  string      `json:"position"`
	Phone     *string     `json:"phone,omitempty"`
	Salary    float64     `json:"salary"`
	HireDate  orders.Date `json:"hire_date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ErrNotFound indicates the requested employee does not exist.
var ErrNotFound = errors.New("Employee not found")

// CreateRequest carries fields for creating an employee.
type CreateRequest struct {
	Name     string       `json:"name" validate:"required,max=200"`
	Position string       `json:"position" validate:"required,max=100"`
	Phone    *string      `json:"phone,omitempty" validate:"omitempty,max=30"`
	Salary   float64      `json:"salary" validate:"required,gt=0"`
	HireDate *orders.Date `json:"hire_date,omitempty"`
}

// UpdateRequest applies a partial update.
type UpdateRequest struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,max=200"`
	Position *string      `json:"position,omitempty" validate:"omitempty,max=100"`
	Phone    *string      `json:"phone,omitempty" validate:"omitempty,max=30"`
	Salary   *float64     `json:"salary,omitempty" validate:"omitempty,gt=0"`
	HireDate *orders.Date `json:"hire_date,omitempty"`
}

// ListResponse wraps an employee page.
type ListResponse struct {
	Employees []Employee `json:"employees"`
	Total     int        `json:"total"`
}
