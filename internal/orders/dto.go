package orders

import (
	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

// CreateOrderRequest creates a new order for an existing buyer.
type CreateOrderRequest struct {
	BuyerID      int64   `json:"buyer_id" validate:"required,gt=0"`
	DeadlineDate *Date   `json:"deadline_date,omitempty"`
	Status       *Status `json:"status,omitempty"`
}

// UpdateOrderRequest applies a partial update; omitted fields keep their
// previous values.
type UpdateOrderRequest struct {
	BuyerID      *int64  `json:"buyer_id,omitempty" validate:"omitempty,gt=0"`
	DeadlineDate *Date   `json:"deadline_date,omitempty"`
	Status       *Status `json:"status,omitempty"`
}

// UpdateStatusRequest changes only the order status.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// AddItemRequest adds a line item to an order. Exactly one of the four stock
// references must be set.
type AddItemRequest struct {
	ProductType *stock.Type `json:"product_type,omitempty"`
	Quantity    float64     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64     `json:"unit_price" validate:"required,gt=0"`
	TotalPrice  *float64    `json:"total_price,omitempty" validate:"omitempty,gt=0"`
	Notes       *string     `json:"notes,omitempty"`

	InventoryID     *int64 `json:"inventory_id,omitempty" validate:"omitempty,gt=0"`
	ChickenRecordID *int64 `json:"chicken_record_id,omitempty" validate:"omitempty,gt=0"`
	ChickRecordID   *int64 `json:"chick_record_id,omitempty" validate:"omitempty,gt=0"`
	EggRecordID     *int64 `json:"egg_record_id,omitempty" validate:"omitempty,gt=0"`
}

// StockRef resolves the four nullable references into the tagged union,
// failing unless exactly one is present.
func (r AddItemRequest) StockRef() (stock.Ref, error) {
	var ref stock.Ref
	count := 0
	set := func(t stock.Type, id *int64) {
		if id != nil {
			ref = stock.Ref{Type: t, ID: *id}
			count++
		}
	}
	set(stock.TypeInventory, r.InventoryID)
	set(stock.TypeChicken, r.ChickenRecordID)
	set(stock.TypeChick, r.ChickRecordID)
	set(stock.TypeEgg, r.EggRecordID)

	if count != 1 {
		return stock.Ref{}, ErrStockRefRequired
	}
	if r.ProductType != nil && *r.ProductType != ref.Type {
		return stock.Ref{}, ErrStockRefRequired
	}
	return ref, nil
}

// UpdateItemRequest applies a partial update to a line item. A quantity
// change triggers a delta adjustment of the referenced stock pool.
type UpdateItemRequest struct {
	Quantity   *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice  *float64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	TotalPrice *float64 `json:"total_price,omitempty" validate:"omitempty,gt=0"`
	Notes      *string  `json:"notes,omitempty"`
}

// ListFilter narrows the order listing. Every filter is independently
// optional; present filters are conjunctive.
type ListFilter struct {
	Status    *Status
	BuyerID   *int64
	StartDate *Date
	EndDate   *Date
	Limit     int
	Offset    int
}

// ListResponse wraps an order page.
type ListResponse struct {
	Orders []OrderWithDetails `json:"orders"`
	Total  int                `json:"total"`
}
