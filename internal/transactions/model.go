// Package transactions records the money side of the farm: income from
// orders and standalone income or expense entries.
package transactions

import (
	"errors"
	"time"

	"github.com/farmstead-erp/farmstead-erp/internal/orders"
)

// Type classifies a transaction.
type Type string

const (
	TypeIncome  Type = "Income"
	TypeExpense Type = "Expense"
)

// IsValid reports whether t is a known transaction type.
func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is one ledger entry. OrderID links income generated by an
// order; standalone entries leave it nil.
type Transaction struct {
	ID          int64       `json:"id"`
	Type        Type        `json:"type"`
	Amount      float64     `json:"amount"`
	Description *string     `json:"description,omitempty"`
	Date        orders.Date `json:"date"`
	OrderID     *int64      `json:"order_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

var (
	ErrNotFound      = errors.New("Transaction not found")
	ErrInvalidType   = errors.New("Invalid transaction type")
	ErrOrderNotFound = errors.New("Order not found")
)

// CreateRequest carries fields for a new ledger entry.
type CreateRequest struct {
	Type        Type         `json:"type" validate:"required"`
	Amount      float64      `json:"amount" validate:"required,gt=0"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=500"`
	Date        *orders.Date `json:"date,omitempty"`
	OrderID     *int64       `json:"order_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateRequest applies a partial update.
type UpdateRequest struct {
	Type        *Type        `json:"type,omitempty"`
	Amount      *float64     `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=500"`
	Date        *orders.Date `json:"date,omitempty"`
}

// ListFilter narrows the listing; present filters are conjunctive.
type ListFilter struct {
	Type      *Type
	StartDate *orders.Date
	EndDate   *orders.Date
	Limit     int
	Offset    int
}

// ListResponse wraps a transaction page.
type ListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}
