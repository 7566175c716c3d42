package buyers

import (
	"context"
	"fmt"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Buyer, error)
	List(ctx context.Context, search string, limit, offset int) ([]Buyer, int, error)
	Create(ctx context.Context, b Buyer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// Service coordinates buyer operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get fetches one buyer.
func (s *Service) Get(ctx context.Context, id int64) (Buyer, error) {
	return s.repo.Get(ctx, id)
}

// List returns a buyer page.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]Buyer, int, error) {
	return s.repo.List(ctx, search, limit, offset)
}

// Create inserts a buyer.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Buyer, error) {
	id, err := s.repo.Create(ctx, Buyer{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	})
	if err != nil {
		return Buyer{}, fmt.Errorf("create buyer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Buyer, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ContactName != nil {
		updates["contact_name"] = *req.ContactName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return Buyer{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a buyer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
