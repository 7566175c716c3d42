// Package stock models the quantity-bearing records order items draw from.
package stock

import (
	"errors"
	"fmt"
	"time"
)

// Type identifies which concrete table backs a stock pool.
type Type string

const (
	TypeInventory Type = "Inventory"
	TypeChicken   Type = "Chicken"
	TypeChick     Type = "Chick"
	TypeEgg       Type = "Egg"
)

// IsValid reports whether t is one of the supported pool types.
func (t Type) IsValid() bool {
	switch t {
	case TypeInventory, TypeChicken, TypeChick, TypeEgg:
		return true
	default:
		return false
	}
}

// Ref identifies exactly one stock pool. It replaces the four mutually
// exclusive foreign-key columns of the order_items table in the domain layer.
type Ref struct {
	Type Type  `json:"type"`
	ID   int64 `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}

// Record is a full stock row. All four tables share this shape.
type Record struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	Unit      string    `json:"unit"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pool is the slim quantity view used by scanners and order enrichment.
type Pool struct {
	Ref      Ref     `json:"ref"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// TableInfo maps a pool type onto its table and the order_items column that
// references it.
type TableInfo struct {
	Table     string
	RefColumn string
}

var tables = map[Type]TableInfo{
	TypeInventory: {Table: "inventory", RefColumn: "inventory_id"},
	TypeChicken:   {Table: "chicken_records", RefColumn: "chicken_record_id"},
	TypeChick:     {Table: "chick_records", RefColumn: "chick_record_id"},
	TypeEgg:       {Table: "egg_records", RefColumn: "egg_record_id"},
}

// Meta returns the table mapping for a pool type.
func Meta(t Type) (TableInfo, bool) {
	info, ok := tables[t]
	return info, ok
}

// Types lists every supported pool type in a stable order.
func Types() []Type {
	return []Type{TypeInventory, TypeChicken, TypeChick, TypeEgg}
}

// Domain errors.
var (
	ErrNotFound          = errors.New("Stock record not found")
	ErrInvalidType       = errors.New("Invalid stock type")
	ErrInvalidQuantity   = errors.New("Quantity must be greater than zero")
	ErrInsufficientStock = errors.New("Insufficient stock quantity")
)
