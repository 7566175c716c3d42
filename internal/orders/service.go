package orders

import (
	"context"

	"github.com/farmstead-erp/farmstead-erp/internal/buyers"
)

// BuyerDirectory is the slice of the buyers module the order service needs.
type BuyerDirectory interface {
	Get(ctx context.Context, id int64) (buyers.Buyer, error)
}

// ServiceConfig carries the tunable policy knobs.
type ServiceConfig struct {
	Transitions TransitionPolicy
}

// Service implements the order workflow. Item mutations and their
// compensating stock adjustments always share a transaction.
type Service struct {
	repo   Repository
	buyers BuyerDirectory
	policy TransitionPolicy
}

// NewService wires the order service.
func NewService(repo Repository, buyers BuyerDirectory, cfg ServiceConfig) *Service {
	policy := cfg.Transitions
	if policy.Allowed == nil {
		policy = PermissiveTransitions()
	}
	return &Service{repo: repo, buyers: buyers, policy: policy}
}

// Create registers a new order. The order date is always the current date;
// the status defaults to Ongoing.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (OrderWithDetails, error) {
	if _, err := s.buyers.Get(ctx, req.BuyerID); err != nil {
		return OrderWithDetails{}, ErrBuyerNotFound
	}

	status := StatusOngoing
	if req.Status != nil {
		if !req.Status.IsValid() {
			return OrderWithDetails{}, ErrInvalidStatus
		}
		status = *req.Status
	}

	orderDate := Today()
	if req.DeadlineDate != nil && !req.DeadlineDate.After(orderDate) {
		return OrderWithDetails{}, ErrDeadlineBeforeOrderDate
	}

	id, err := s.repo.CreateOrder(ctx, Order{
		BuyerID:      req.BuyerID,
		OrderDate:    orderDate,
		DeadlineDate: req.DeadlineDate,
		Status:       status,
	})
	if err != nil {
		return OrderWithDetails{}, err
	}
	return s.repo.GetOrderWithDetails(ctx, id)
}

// Get returns one order with buyer and item aggregates.
func (s *Service) Get(ctx context.Context, id int64) (OrderWithDetails, error) {
	return s.repo.GetOrderWithDetails(ctx, id)
}

// List returns a filtered page of orders, most recent order date first.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResponse, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return ListResponse{}, ErrInvalidStatus
	}
	orders, total, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return ListResponse{}, err
	}
	return ListResponse{Orders: orders, Total: total}, nil
}

// Update applies a partial update to the order header.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (OrderWithDetails, error) {
	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return OrderWithDetails{}, err
	}

	updates := map[string]any{}
	if req.BuyerID != nil {
		if _, err := s.buyers.Get(ctx, *req.BuyerID); err != nil {
			return OrderWithDetails{}, ErrBuyerNotFound
		}
		updates["buyer_id"] = *req.BuyerID
	}
	if req.DeadlineDate != nil {
		if !req.DeadlineDate.After(current.OrderDate) {
			return OrderWithDetails{}, ErrDeadlineBeforeOrderDate
		}
		updates["deadline_date"] = *req.DeadlineDate
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return OrderWithDetails{}, ErrInvalidStatus
		}
		if !s.policy.CanTransition(current.Status, *req.Status) {
			return OrderWithDetails{}, ErrInvalidTransition
		}
		updates["status"] = *req.Status
	}

	if err := s.repo.UpdateOrder(ctx, id, updates); err != nil {
		return OrderWithDetails{}, err
	}
	return s.repo.GetOrderWithDetails(ctx, id)
}

// UpdateStatus changes only the status, subject to the transition policy.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (OrderWithDetails, error) {
	if !req.Status.IsValid() {
		return OrderWithDetails{}, ErrInvalidStatus
	}
	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return OrderWithDetails{}, err
	}
	if !s.policy.CanTransition(current.Status, req.Status) {
		return OrderWithDetails{}, ErrInvalidTransition
	}
	if err := s.repo.UpdateOrder(ctx, id, map[string]any{"status": req.Status}); err != nil {
		return OrderWithDetails{}, err
	}
	return s.repo.GetOrderWithDetails(ctx, id)
}

// Delete removes an order and its items, returning every item's quantity to
// the stock pool it was drawn from. All of it happens in one transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		items, err := tx.ListItemsForUpdate(ctx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.AdjustPool(ctx, item.Stock, item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.DeleteItems(ctx, id); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, id)
	})
}

// AddItem appends a line item and deducts its quantity from the referenced
// stock pool in the same transaction.
func (s *Service) AddItem(ctx context.Context, orderID int64, req AddItemRequest) (ItemWithDetails, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return ItemWithDetails{}, err
	}
	if s.policy.ItemsOnlyWhenOngoing && order.Status != StatusOngoing {
		return ItemWithDetails{}, ErrOrderNotEditable
	}
	if req.Quantity <= 0 {
		return ItemWithDetails{}, ErrInvalidQuantity
	}
	if req.UnitPrice <= 0 {
		return ItemWithDetails{}, ErrInvalidUnitPrice
	}
	ref, err := req.StockRef()
	if err != nil {
		return ItemWithDetails{}, err
	}

	total := req.Quantity * req.UnitPrice
	if req.TotalPrice != nil {
		total = *req.TotalPrice
	}

	var itemID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		pool, err := tx.GetPoolForUpdate(ctx, ref)
		if err != nil {
			return err
		}
		if pool.Quantity < req.Quantity {
			return ErrInsufficientStock
		}
		if err := tx.AdjustPool(ctx, ref, -req.Quantity); err != nil {
			return err
		}
		itemID, err = tx.InsertItem(ctx, Item{
			OrderID:    orderID,
			Stock:      ref,
			Quantity:   req.Quantity,
			UnitPrice:  req.UnitPrice,
			TotalPrice: total,
			Notes:      req.Notes,
		})
		return err
	})
	if err != nil {
		return ItemWithDetails{}, err
	}
	return s.repo.GetItemWithDetails(ctx, itemID)
}

// UpdateItem applies a partial update to a line item. A quantity change
// adjusts the stock pool by the delta: an increase draws more from the pool,
// a decrease returns the difference.
func (s *Service) UpdateItem(ctx context.Context, orderID, itemID int64, req UpdateItemRequest) (ItemWithDetails, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return ItemWithDetails{}, err
	}
	if s.policy.ItemsOnlyWhenOngoing && order.Status != StatusOngoing {
		return ItemWithDetails{}, ErrOrderNotEditable
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return ItemWithDetails{}, ErrInvalidQuantity
	}
	if req.UnitPrice != nil && *req.UnitPrice <= 0 {
		return ItemWithDetails{}, ErrInvalidUnitPrice
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := tx.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.OrderID != orderID {
			return ErrItemNotFound
		}

		updates := map[string]any{}
		quantity := item.Quantity
		unitPrice := item.UnitPrice
		if req.Quantity != nil && *req.Quantity != item.Quantity {
			delta := *req.Quantity - item.Quantity
			if delta > 0 {
				pool, err := tx.GetPoolForUpdate(ctx, item.Stock)
				if err != nil {
					return err
				}
				if pool.Quantity < delta {
					return ErrInsufficientStock
				}
			}
			if err := tx.AdjustPool(ctx, item.Stock, -delta); err != nil {
				return err
			}
			quantity = *req.Quantity
			updates["quantity"] = quantity
		}
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
			updates["unit_price"] = unitPrice
		}
		switch {
		case req.TotalPrice != nil:
			updates["total_price"] = *req.TotalPrice
		case req.Quantity != nil || req.UnitPrice != nil:
			updates["total_price"] = quantity * unitPrice
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		return tx.UpdateItem(ctx, itemID, updates)
	})
	if err != nil {
		return ItemWithDetails{}, err
	}
	return s.repo.GetItemWithDetails(ctx, itemID)
}

// GetItem returns one line item, verifying it belongs to the given order.
func (s *Service) GetItem(ctx context.Context, orderID, itemID int64) (ItemWithDetails, error) {
	item, err := s.repo.GetItemWithDetails(ctx, itemID)
	if err != nil {
		return ItemWithDetails{}, err
	}
	if item.OrderID != orderID {
		return ItemWithDetails{}, ErrItemNotFound
	}
	return item, nil
}

// ListItems returns every line item of an order.
func (s *Service) ListItems(ctx context.Context, orderID int64) ([]ItemWithDetails, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, orderID)
}

// RemoveItem deletes a line item and restores its quantity to the stock pool
// it was drawn from, in one transaction.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID int64) error {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if s.policy.ItemsOnlyWhenOngoing && order.Status != StatusOngoing {
		return ErrOrderNotEditable
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := tx.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.OrderID != orderID {
			return ErrItemNotFound
		}
		if err := tx.AdjustPool(ctx, item.Stock, item.Quantity); err != nil {
			return err
		}
		return tx.DeleteItem(ctx, itemID)
	})
}
