// Package buyers manages buyer master records.
package buyers

import (
	"errors"
	"time"
)

// Buyer is a party that places orders.
type Buyer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contact_name,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrNotFound indicates the requested buyer does not exist.
var ErrNotFound = errors.New("Buyer not found")

// CreateRequest carries fields for creating a buyer.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	ContactName *string `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// UpdateRequest carries a partial update; omitted fields keep their values.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ContactName *string `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// ListResponse wraps a buyer page.
type ListResponse struct {
	Buyers []Buyer `json:"buyers"`
	Total  int     `json:"total"`
}
