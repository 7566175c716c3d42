package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead-erp/farmstead-erp/internal/orders"
)

type memoryRepo struct {
	txns   map[int64]Transaction
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{txns: map[int64]Transaction{}, nextID: 1}
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Transaction, error) {
	t, ok := m.txns[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (m *memoryRepo) List(_ context.Context, filter ListFilter) ([]Transaction, int, error) {
	out := []Transaction{}
	for _, t := range m.txns {
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(filter.StartDate.Time) {
			continue
		}
		if filter.EndDate != nil && t.Date.Time.After(filter.EndDate.Time) {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Create(_ context.Context, t Transaction) (int64, error) {
	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.txns[t.ID] = t
	return t.ID, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, updates map[string]any) error {
	t, ok := m.txns[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["type"]; ok {
		t.Type = v.(Type)
	}
	if v, ok := updates["amount"]; ok {
		t.Amount = v.(float64)
	}
	if v, ok := updates["description"]; ok {
		s := v.(string)
		t.Description = &s
	}
	if v, ok := updates["date"]; ok {
		t.Date = v.(orders.Date)
	}
	m.txns[id] = t
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.txns[id]; !ok {
		return ErrNotFound
	}
	delete(m.txns, id)
	return nil
}

type stubOrders struct {
	known map[int64]bool
}

func (s *stubOrders) Get(_ context.Context, id int64) (orders.OrderWithDetails, error) {
	if !s.known[id] {
		return orders.OrderWithDetails{}, orders.ErrOrderNotFound
	}
	return orders.OrderWithDetails{Order: orders.Order{ID: id}}, nil
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, &stubOrders{known: map[int64]bool{1: true}})
}

func TestCreateDefaultsDateToToday(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	txn, err := svc.Create(context.Background(), CreateRequest{Type: TypeExpense, Amount: 120})
	require.NoError(t, err)
	assert.Equal(t, orders.Today().Format("2006-01-02"), txn.Date.Format("2006-01-02"))
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateRequest{Type: "Transfer", Amount: 50})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestCreateVerifiesLinkedOrder(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	orderID := int64(1)
	txn, err := svc.Create(context.Background(), CreateRequest{
		Type: TypeIncome, Amount: 300, OrderID: &orderID,
	})
	require.NoError(t, err)
	require.NotNil(t, txn.OrderID)

	missing := int64(99)
	_, err = svc.Create(context.Background(), CreateRequest{
		Type: TypeIncome, Amount: 300, OrderID: &missing,
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListFiltersByTypeAndDateRange(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	mk := func(txType Type, daysAgo int) {
		d := orders.NewDate(time.Now().UTC().AddDate(0, 0, -daysAgo))
		_, err := svc.Create(context.Background(), CreateRequest{Type: txType, Amount: 10, Date: &d})
		require.NoError(t, err)
	}
	mk(TypeIncome, 0)
	mk(TypeExpense, 1)
	mk(TypeIncome, 40)

	income := TypeIncome
	start := orders.NewDate(time.Now().UTC().AddDate(0, 0, -7))
	resp, err := svc.List(context.Background(), ListFilter{Type: &income, StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 1)
}

func TestListRejectsUnknownTypeFilter(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	bad := Type("Transfer")
	_, err := svc.List(context.Background(), ListFilter{Type: &bad})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	txn, err := svc.Create(context.Background(), CreateRequest{Type: TypeExpense, Amount: 75})
	require.NoError(t, err)

	amount := 90.0
	updated, err := svc.Update(context.Background(), txn.ID, UpdateRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Amount)

	require.NoError(t, svc.Delete(context.Background(), txn.ID))
	_, err = svc.Get(context.Background(), txn.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
