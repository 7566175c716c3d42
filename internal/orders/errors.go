package orders

import "errors"

// Domain errors. The messages are the user-facing {msg} bodies, so they are
// phrased for API consumers.
var (
	ErrOrderNotFound = errors.New("Order not found")
	ErrItemNotFound  = errors.New("Order item not found")
	ErrBuyerNotFound = errors.New("Buyer not found")
	ErrStockNotFound = errors.New("Stock record not found")

	ErrDeadlineBeforeOrderDate = errors.New("Deadline date must be later than order date")
	ErrInvalidStatus           = errors.New("Invalid order status")
	ErrInvalidTransition       = errors.New("Status transition not allowed")
	ErrOrderNotEditable        = errors.New("Cannot modify items of a closed order")

	ErrInvalidQuantity   = errors.New("Quantity must be greater than zero")
	ErrInvalidUnitPrice  = errors.New("Unit price must be greater than zero")
	ErrStockRefRequired  = errors.New("Exactly one stock reference is required")
	ErrInsufficientStock = errors.New("Insufficient stock quantity")
)
