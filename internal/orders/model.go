// Package orders owns the order aggregate: the order header, its line items,
// and the compensating stock-quantity updates that accompany item removal.
package orders

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

// Status represents the order lifecycle.
type Status string

const (
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// TransitionPolicy makes the allowed status-transition set explicit. The
// historical behavior of the system allows every transition, including
// Completed back to Ongoing; the strict policy treats Completed and
// Cancelled as terminal.
type TransitionPolicy struct {
	Allowed              map[Status][]Status
	ItemsOnlyWhenOngoing bool
}

// PermissiveTransitions mirrors the historical behavior: any status can move
// to any other, and items can be added to closed orders.
func PermissiveTransitions() TransitionPolicy {
	all := []Status{StatusOngoing, StatusCompleted, StatusCancelled}
	return TransitionPolicy{
		Allowed: map[Status][]Status{
			StatusOngoing:   all,
			StatusCompleted: all,
			StatusCancelled: all,
		},
	}
}

// StrictTransitions treats Completed and Cancelled as terminal and restricts
// item mutations to Ongoing orders.
func StrictTransitions() TransitionPolicy {
	return TransitionPolicy{
		Allowed: map[Status][]Status{
			StatusOngoing: {StatusCompleted, StatusCancelled},
		},
		ItemsOnlyWhenOngoing: true,
	}
}

// CanTransition reports whether moving from one status to another is allowed.
// A no-op transition is always allowed.
func (p TransitionPolicy) CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range p.Allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Date is a calendar date without a time component. It marshals as
// "2006-01-02" and accepts either that form or a full RFC3339 timestamp.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	return NewDate(time.Now().UTC())
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("orders: invalid date %q", s)
	}
	*d = NewDate(t)
	return nil
}

// Value implements driver.Valuer so pgx stores the date column directly.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner for date columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return err
		}
		*d = NewDate(t)
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("orders: cannot scan %T into Date", src)
	}
}

// Order is a buyer's commitment to receive goods.
type Order struct {
	ID           int64     `json:"id"`
	BuyerID      int64     `json:"buyer_id"`
	OrderDate    Date      `json:"order_date"`
	DeadlineDate *Date     `json:"deadline_date,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Item is one line of an order, drawing a quantity from exactly one stock
// pool.
type Item struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Stock      stock.Ref `json:"stock"`
	Quantity   float64   `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductType is the category tag of the stock pool the item draws from.
func (i Item) ProductType() stock.Type {
	return i.Stock.Type
}

// OrderWithDetails enriches an order with buyer display fields and item
// aggregates for listing.
type OrderWithDetails struct {
	Order
	BuyerName   string  `json:"buyer_name"`
	ItemCount   int     `json:"item_count"`
	TotalAmount float64 `json:"total_amount"`
}

// ItemWithDetails enriches an item with the referenced stock pool's
// descriptive fields.
type ItemWithDetails struct {
	Item
	StockName     string  `json:"stock_name"`
	StockCategory *string `json:"stock_category,omitempty"`
	StockUnit     string  `json:"stock_unit"`
}
