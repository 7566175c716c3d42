package stock

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	records map[Ref]Record
	nextID  map[Type]int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[Ref]Record{}, nextID: map[Type]int64{}}
}

func (m *memoryRepo) Create(_ context.Context, t Type, rec Record) (int64, error) {
	m.nextID[t]++
	id := m.nextID[t]
	rec.ID = id
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.records[Ref{Type: t, ID: id}] = rec
	return id, nil
}

func (m *memoryRepo) Get(_ context.Context, ref Ref) (Record, error) {
	rec, ok := m.records[ref]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memoryRepo) List(_ context.Context, t Type, search string, limit, offset int) ([]Record, int, error) {
	out := []Record{}
	for ref, rec := range m.records {
		if ref.Type != t {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, rec)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Update(_ context.Context, ref Ref, updates map[string]any) error {
	rec, ok := m.records[ref]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		rec.Name = v.(string)
	}
	if v, ok := updates["category"]; ok {
		s := v.(string)
		rec.Category = &s
	}
	if v, ok := updates["unit"]; ok {
		rec.Unit = v.(string)
	}
	if v, ok := updates["unit_price"]; ok {
		rec.UnitPrice = v.(float64)
	}
	if v, ok := updates["notes"]; ok {
		s := v.(string)
		rec.Notes = &s
	}
	rec.UpdatedAt = time.Now()
	m.records[ref] = rec
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, ref Ref) error {
	if _, ok := m.records[ref]; !ok {
		return ErrNotFound
	}
	delete(m.records, ref)
	return nil
}

func (m *memoryRepo) AdjustQuantity(_ context.Context, ref Ref, delta float64) error {
	rec, ok := m.records[ref]
	if !ok {
		return ErrNotFound
	}
	if rec.Quantity+delta < 0 {
		return ErrInsufficientStock
	}
	rec.Quantity += delta
	m.records[ref] = rec
	return nil
}

func (m *memoryRepo) LowStock(_ context.Context, threshold float64) ([]Pool, error) {
	out := []Pool{}
	for ref, rec := range m.records {
		if rec.Quantity < threshold {
			out = append(out, Pool{Ref: ref, Name: rec.Name, Unit: rec.Unit, Quantity: rec.Quantity})
		}
	}
	return out, nil
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Type("seeds"), CreateRequest{Name: "Corn", Unit: "kg"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), TypeInventory, CreateRequest{
		Name: "Corn", Unit: "kg", Quantity: -5,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := NewService(newMemoryRepo())

	rec, err := svc.Create(context.Background(), TypeEgg, CreateRequest{
		Name: "Brown Eggs", Unit: "pcs", Quantity: 300, UnitPrice: 0.4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)

	got, err := svc.Get(context.Background(), Ref{Type: TypeEgg, ID: rec.ID})
	require.NoError(t, err)
	assert.Equal(t, "Brown Eggs", got.Name)
	assert.Equal(t, 300.0, got.Quantity)
}

func TestAdjustQuantity(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	rec, err := svc.Create(context.Background(), TypeChicken, CreateRequest{
		Name: "Layer Hens", Unit: "head", Quantity: 40,
	})
	require.NoError(t, err)
	ref := Ref{Type: TypeChicken, ID: rec.ID}

	got, err := svc.AdjustQuantity(context.Background(), ref, -15)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Quantity)

	_, err = svc.AdjustQuantity(context.Background(), ref, -100)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AdjustQuantity(context.Background(), ref, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	svc := NewService(newMemoryRepo())

	rec, err := svc.Create(context.Background(), TypeInventory, CreateRequest{
		Name: "Starter Feed", Unit: "kg", Quantity: 80, UnitPrice: 1.2,
	})
	require.NoError(t, err)

	price := 1.5
	got, err := svc.Update(context.Background(), Ref{Type: TypeInventory, ID: rec.ID},
		UpdateRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "Starter Feed", got.Name)
	assert.Equal(t, 1.5, got.UnitPrice)
	assert.Equal(t, 80.0, got.Quantity)
}

func TestLowStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), TypeInventory, CreateRequest{
		Name: "Starter Feed", Unit: "kg", Quantity: 4,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), TypeEgg, CreateRequest{
		Name: "Brown Eggs", Unit: "pcs", Quantity: 500,
	})
	require.NoError(t, err)

	pools, err := svc.LowStock(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, "Starter Feed", pools[0].Name)
}

func TestDeleteMissingRecord(t *testing.T) {
	svc := NewService(newMemoryRepo())

	err := svc.Delete(context.Background(), Ref{Type: TypeChick, ID: 9})
	assert.ErrorIs(t, err, ErrNotFound)
}
