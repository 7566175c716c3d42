package employees

import (
	"context"

	"github.com/farmstead-erp/farmstead-erp/internal/orders"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Employee, error)
	List(ctx context.Context, search string, limit, offset int) ([]Employee, int, error)
	Create(ctx context.Context, e Employee) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// Service wraps employee business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]Employee, int, error) {
	return s.repo.List(ctx, search, limit, offset)
}

// Create registers an employee. The hire date defaults to today.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Employee, error) {
	hireDate := orders.Today()
	if req.HireDate != nil {
		hireDate = *req.HireDate
	}
	id, err := s.repo.Create(ctx, Employee{
		Name:     req.Name,
		Position: req.Position,
		Phone:    req.Phone,
		Salary:   req.Salary,
		HireDate: hireDate,
	})
	if err != nil {
		return Employee{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Employee, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.HireDate != nil {
		updates["hire_date"] = *req.HireDate
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return Employee{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
