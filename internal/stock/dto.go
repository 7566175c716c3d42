package stock

// CreateRequest carries fields for creating a stock record.
type CreateRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Unit      string  `json:"unit" validate:"required,max=20"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateRequest carries a partial update; omitted fields keep their values.
type UpdateRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Category  *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Unit      *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Notes     *string  `json:"notes,omitempty"`
}

// AdjustRequest carries a manual quantity correction.
type AdjustRequest struct {
	Delta float64 `json:"delta" validate:"required"`
}

// ListResponse wraps a record page.
type ListResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}
