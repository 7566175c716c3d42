package stock

import (
	"context"
	"fmt"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Create(ctx context.Context, t Type, rec Record) (int64, error)
	Get(ctx context.Context, ref Ref) (Record, error)
	List(ctx context.Context, t Type, search string, limit, offset int) ([]Record, int, error)
	Update(ctx context.Context, ref Ref, updates map[string]any) error
	Delete(ctx context.Context, ref Ref) error
	AdjustQuantity(ctx context.Context, ref Ref, delta float64) error
	LowStock(ctx context.Context, threshold float64) ([]Pool, error)
}

// Service coordinates stock record operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create validates and inserts a new record.
func (s *Service) Create(ctx context.Context, t Type, req CreateRequest) (Record, error) {
	if !t.IsValid() {
		return Record{}, ErrInvalidType
	}
	if req.Quantity < 0 {
		return Record{}, ErrInvalidQuantity
	}
	rec := Record{
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	}
	id, err := s.repo.Create(ctx, t, rec)
	if err != nil {
		return Record{}, fmt.Errorf("create stock record: %w", err)
	}
	return s.repo.Get(ctx, Ref{Type: t, ID: id})
}

// Get fetches one record.
func (s *Service) Get(ctx context.Context, ref Ref) (Record, error) {
	return s.repo.Get(ctx, ref)
}

// List returns records of one type.
func (s *Service) List(ctx context.Context, t Type, search string, limit, offset int) ([]Record, int, error) {
	if !t.IsValid() {
		return nil, 0, ErrInvalidType
	}
	return s.repo.List(ctx, t, search, limit, offset)
}

// Update applies a partial update to descriptive fields.
func (s *Service) Update(ctx context.Context, ref Ref, req UpdateRequest) (Record, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, ref, updates); err != nil {
		return Record{}, err
	}
	return s.repo.Get(ctx, ref)
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, ref Ref) error {
	return s.repo.Delete(ctx, ref)
}

// AdjustQuantity applies a manual quantity correction. Order operations do
// their own adjustments inside their transaction; this path is for admin
// stock-takes only.
func (s *Service) AdjustQuantity(ctx context.Context, ref Ref, delta float64) (Record, error) {
	if delta == 0 {
		return Record{}, ErrInvalidQuantity
	}
	if err := s.repo.AdjustQuantity(ctx, ref, delta); err != nil {
		return Record{}, err
	}
	return s.repo.Get(ctx, ref)
}

// LowStock lists pools under the threshold.
func (s *Service) LowStock(ctx context.Context, threshold float64) ([]Pool, error) {
	return s.repo.LowStock(ctx, threshold)
}
