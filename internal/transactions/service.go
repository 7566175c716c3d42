package transactions

import (
	"context"

	"github.com/farmstead-erp/farmstead-erp/internal/orders"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, int, error)
	Create(ctx context.Context, t Transaction) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// OrderDirectory is the slice of the orders module the service needs to
// validate linked orders.
type OrderDirectory interface {
	Get(ctx context.Context, id int64) (orders.OrderWithDetails, error)
}

// Service wraps ledger business rules.
type Service struct {
	repo   RepositoryPort
	orders OrderDirectory
}

// NewService constructs the service.
func NewService(repo RepositoryPort, orderDir OrderDirectory) *Service {
	return &Service{repo: repo, orders: orderDir}
}

func (s *Service) Get(ctx context.Context, id int64) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResponse, error) {
	if filter.Type != nil && !filter.Type.IsValid() {
		return ListResponse{}, ErrInvalidType
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ListResponse{}, err
	}
	return ListResponse{Transactions: list, Total: total}, nil
}

// Create records a ledger entry. The date defaults to today; a linked order
// must exist.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Transaction, error) {
	if !req.Type.IsValid() {
		return Transaction{}, ErrInvalidType
	}
	if req.OrderID != nil {
		if _, err := s.orders.Get(ctx, *req.OrderID); err != nil {
			return Transaction{}, ErrOrderNotFound
		}
	}

	date := orders.Today()
	if req.Date != nil {
		date = *req.Date
	}

	id, err := s.repo.Create(ctx, Transaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		OrderID:     req.OrderID,
	})
	if err != nil {
		return Transaction{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Transaction, error) {
	updates := map[string]any{}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return Transaction{}, ErrInvalidType
		}
		updates["type"] = *req.Type
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return Transaction{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
