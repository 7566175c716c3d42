package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead-erp/farmstead-erp/internal/buyers"
	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

type mockBuyers struct {
	buyers map[int64]buyers.Buyer
}

func (m *mockBuyers) Get(_ context.Context, id int64) (buyers.Buyer, error) {
	b, ok := m.buyers[id]
	if !ok {
		return buyers.Buyer{}, buyers.ErrNotFound
	}
	return b, nil
}

type mockPool struct {
	name     string
	unit     string
	quantity float64
}

type mockRepository struct {
	orders     map[int64]Order
	items      map[int64]Item
	pools      map[stock.Ref]*mockPool
	buyerNames map[int64]string
	nextOrder  int64
	nextItem   int64

	insertErr error
	deleteErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:     map[int64]Order{},
		items:      map[int64]Item{},
		pools:      map[stock.Ref]*mockPool{},
		buyerNames: map[int64]string{},
		nextOrder:  1,
		nextItem:   1,
	}
}

func (m *mockRepository) snapshot() *mockRepository {
	cp := newMockRepository()
	for k, v := range m.orders {
		cp.orders[k] = v
	}
	for k, v := range m.items {
		cp.items[k] = v
	}
	for k, v := range m.pools {
		p := *v
		cp.pools[k] = &p
	}
	cp.nextOrder, cp.nextItem = m.nextOrder, m.nextItem
	return cp
}

func (m *mockRepository) restore(s *mockRepository) {
	m.orders, m.items, m.pools = s.orders, s.items, s.pools
	m.nextOrder, m.nextItem = s.nextOrder, s.nextItem
}

// WithTx mimics rollback semantics: any error from fn restores the
// pre-transaction state.
func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	before := m.snapshot()
	if err := fn(ctx, m); err != nil {
		m.restore(before)
		return err
	}
	return nil
}

func (m *mockRepository) GetOrder(_ context.Context, id int64) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (m *mockRepository) details(o Order) OrderWithDetails {
	d := OrderWithDetails{Order: o, BuyerName: m.buyerNames[o.BuyerID]}
	for _, it := range m.items {
		if it.OrderID == o.ID {
			d.ItemCount++
			d.TotalAmount += it.TotalPrice
		}
	}
	return d
}

func (m *mockRepository) GetOrderWithDetails(_ context.Context, id int64) (OrderWithDetails, error) {
	o, ok := m.orders[id]
	if !ok {
		return OrderWithDetails{}, ErrOrderNotFound
	}
	return m.details(o), nil
}

func (m *mockRepository) ListOrders(_ context.Context, filter ListFilter) ([]OrderWithDetails, int, error) {
	var matched []OrderWithDetails
	for _, o := range m.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.BuyerID != nil && o.BuyerID != *filter.BuyerID {
			continue
		}
		if filter.StartDate != nil && o.OrderDate.Before(filter.StartDate.Time) {
			continue
		}
		if filter.EndDate != nil && o.OrderDate.Time.After(filter.EndDate.Time) {
			continue
		}
		matched = append(matched, m.details(o))
	}
	// order_date DESC, id DESC
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			a, b := matched[i], matched[j]
			if b.OrderDate.After(a.OrderDate) ||
				(b.OrderDate.Equal(a.OrderDate.Time) && b.ID > a.ID) {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	return matched, len(matched), nil
}

func (m *mockRepository) CreateOrder(_ context.Context, o Order) (int64, error) {
	o.ID = m.nextOrder
	m.nextOrder++
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *mockRepository) UpdateOrder(_ context.Context, id int64, updates map[string]any) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if v, ok := updates["buyer_id"]; ok {
		o.BuyerID = v.(int64)
	}
	if v, ok := updates["deadline_date"]; ok {
		d := v.(Date)
		o.DeadlineDate = &d
	}
	if v, ok := updates["status"]; ok {
		o.Status = v.(Status)
	}
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	return nil
}

func (m *mockRepository) GetItem(_ context.Context, id int64) (Item, error) {
	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return it, nil
}

func (m *mockRepository) itemDetails(it Item) ItemWithDetails {
	d := ItemWithDetails{Item: it}
	if p, ok := m.pools[it.Stock]; ok {
		d.StockName = p.name
		d.StockUnit = p.unit
	}
	return d
}

func (m *mockRepository) GetItemWithDetails(_ context.Context, id int64) (ItemWithDetails, error) {
	it, ok := m.items[id]
	if !ok {
		return ItemWithDetails{}, ErrItemNotFound
	}
	return m.itemDetails(it), nil
}

func (m *mockRepository) ListItems(_ context.Context, orderID int64) ([]ItemWithDetails, error) {
	out := []ItemWithDetails{}
	for id := int64(1); id < m.nextItem; id++ {
		if it, ok := m.items[id]; ok && it.OrderID == orderID {
			out = append(out, m.itemDetails(it))
		}
	}
	return out, nil
}

func (m *mockRepository) GetItemForUpdate(ctx context.Context, id int64) (Item, error) {
	return m.GetItem(ctx, id)
}

func (m *mockRepository) ListItemsForUpdate(_ context.Context, orderID int64) ([]Item, error) {
	out := []Item{}
	for id := int64(1); id < m.nextItem; id++ {
		if it, ok := m.items[id]; ok && it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockRepository) InsertItem(_ context.Context, item Item) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	item.ID = m.nextItem
	m.nextItem++
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.items[item.ID] = item
	return item.ID, nil
}

func (m *mockRepository) UpdateItem(_ context.Context, id int64, updates map[string]any) error {
	it, ok := m.items[id]
	if !ok {
		return ErrItemNotFound
	}
	if v, ok := updates["quantity"]; ok {
		it.Quantity = v.(float64)
	}
	if v, ok := updates["unit_price"]; ok {
		it.UnitPrice = v.(float64)
	}
	if v, ok := updates["total_price"]; ok {
		it.TotalPrice = v.(float64)
	}
	if v, ok := updates["notes"]; ok {
		s := v.(string)
		it.Notes = &s
	}
	it.UpdatedAt = time.Now()
	m.items[id] = it
	return nil
}

func (m *mockRepository) DeleteItem(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepository) DeleteItems(_ context.Context, orderID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for id, it := range m.items {
		if it.OrderID == orderID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockRepository) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockRepository) GetPoolForUpdate(_ context.Context, ref stock.Ref) (stock.Pool, error) {
	p, ok := m.pools[ref]
	if !ok {
		return stock.Pool{}, ErrStockNotFound
	}
	return stock.Pool{Ref: ref, Name: p.name, Unit: p.unit, Quantity: p.quantity}, nil
}

func (m *mockRepository) AdjustPool(_ context.Context, ref stock.Ref, delta float64) error {
	p, ok := m.pools[ref]
	if !ok {
		return ErrStockNotFound
	}
	if p.quantity+delta < 0 {
		return ErrInsufficientStock
	}
	p.quantity += delta
	return nil
}

func newTestService(repo *mockRepository, cfg ServiceConfig) *Service {
	repo.buyerNames[1] = "Green Valley Market"
	dir := &mockBuyers{buyers: map[int64]buyers.Buyer{
		1: {ID: 1, Name: "Green Valley Market"},
	}}
	return NewService(repo, dir, cfg)
}

func seedOrder(repo *mockRepository, status Status) int64 {
	id := repo.nextOrder
	repo.nextOrder++
	repo.orders[id] = Order{ID: id, BuyerID: 1, OrderDate: Today(), Status: status}
	return id
}

func seedPool(repo *mockRepository, t stock.Type, id int64, qty float64) stock.Ref {
	ref := stock.Ref{Type: t, ID: id}
	repo.pools[ref] = &mockPool{name: "Feed Mix", unit: "kg", quantity: qty}
	return ref
}

func TestCreateOrderDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	order, err := svc.Create(context.Background(), CreateOrderRequest{BuyerID: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, order.Status)
	assert.Equal(t, Today().Format("2006-01-02"), order.OrderDate.Format("2006-01-02"))
	assert.Equal(t, "Green Valley Market", order.BuyerName)
}

func TestCreateOrderUnknownBuyer(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{BuyerID: 99})
	assert.ErrorIs(t, err, ErrBuyerNotFound)
	assert.Empty(t, repo.orders)
}

func TestCreateOrderDeadlineMustFollowOrderDate(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	yesterday := NewDate(time.Now().UTC().AddDate(0, 0, -1))
	_, err := svc.Create(context.Background(), CreateOrderRequest{BuyerID: 1, DeadlineDate: &yesterday})
	assert.ErrorIs(t, err, ErrDeadlineBeforeOrderDate)

	today := Today()
	_, err = svc.Create(context.Background(), CreateOrderRequest{BuyerID: 1, DeadlineDate: &today})
	assert.ErrorIs(t, err, ErrDeadlineBeforeOrderDate)

	tomorrow := NewDate(time.Now().UTC().AddDate(0, 0, 1))
	order, err := svc.Create(context.Background(), CreateOrderRequest{BuyerID: 1, DeadlineDate: &tomorrow})
	require.NoError(t, err)
	require.NotNil(t, order.DeadlineDate)
}

func TestUpdateOrderDeadlineCheckedAgainstExistingDate(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	id := seedOrder(repo, StatusOngoing)

	bad := NewDate(time.Now().UTC().AddDate(0, 0, -3))
	_, err := svc.Update(context.Background(), id, UpdateOrderRequest{DeadlineDate: &bad})
	assert.ErrorIs(t, err, ErrDeadlineBeforeOrderDate)

	good := NewDate(time.Now().UTC().AddDate(0, 0, 7))
	order, err := svc.Update(context.Background(), id, UpdateOrderRequest{DeadlineDate: &good})
	require.NoError(t, err)
	require.NotNil(t, order.DeadlineDate)
}

func TestUpdateStatusPermissiveAllowsReopen(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	id := seedOrder(repo, StatusCompleted)

	order, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: StatusOngoing})
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, order.Status)
}

func TestUpdateStatusStrictRejectsReopen(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{Transitions: StrictTransitions()})
	id := seedOrder(repo, StatusCompleted)

	_, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: StatusOngoing})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// no-op transitions stay allowed
	order, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, order.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	id := seedOrder(repo, StatusOngoing)

	_, err := svc.UpdateStatus(context.Background(), id, UpdateStatusRequest{Status: "Shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAddItemDeductsStock(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 10, 100)

	item, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &ref.ID,
		Quantity:    30,
		UnitPrice:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, item.TotalPrice)
	assert.Equal(t, ref, item.Stock)
	assert.Equal(t, 70.0, repo.pools[ref].quantity)
}

func TestAddItemInsufficientStockLeavesPoolUnchanged(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeEgg, 3, 10)

	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		EggRecordID: &ref.ID,
		Quantity:    25,
		UnitPrice:   2,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10.0, repo.pools[ref].quantity)
	assert.Empty(t, repo.items)
}

func TestAddItemRollsBackDeductionWhenInsertFails(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeChicken, 7, 50)
	repo.insertErr = errors.New("boom")

	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		ChickenRecordID: &ref.ID,
		Quantity:        20,
		UnitPrice:       8,
	})
	require.Error(t, err)
	assert.Equal(t, 50.0, repo.pools[ref].quantity)
	assert.Empty(t, repo.items)
}

func TestAddItemRequiresExactlyOneStockRef(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	invRef := seedPool(repo, stock.TypeInventory, 1, 100)
	eggRef := seedPool(repo, stock.TypeEgg, 2, 100)

	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		Quantity:  5,
		UnitPrice: 1,
	})
	assert.ErrorIs(t, err, ErrStockRefRequired)

	_, err = svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &invRef.ID,
		EggRecordID: &eggRef.ID,
		Quantity:    5,
		UnitPrice:   1,
	})
	assert.ErrorIs(t, err, ErrStockRefRequired)
}

func TestAddItemStockRefMustMatchProductType(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 1, 100)

	wrong := stock.TypeEgg
	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		ProductType: &wrong,
		InventoryID: &ref.ID,
		Quantity:    5,
		UnitPrice:   1,
	})
	assert.ErrorIs(t, err, ErrStockRefRequired)
}

func TestAddItemUnknownStockRecord(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)

	missing := int64(404)
	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		ChickRecordID: &missing,
		Quantity:      5,
		UnitPrice:     1,
	})
	assert.ErrorIs(t, err, ErrStockNotFound)
}

func TestAddItemExplicitTotalOverridesComputed(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 10, 100)

	total := 120.0
	item, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &ref.ID,
		Quantity:    10,
		UnitPrice:   5,
		TotalPrice:  &total,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, item.TotalPrice)
}

func TestAddItemStrictPolicyBlocksClosedOrders(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{Transitions: StrictTransitions()})
	orderID := seedOrder(repo, StatusCompleted)
	ref := seedPool(repo, stock.TypeInventory, 1, 100)

	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &ref.ID,
		Quantity:    5,
		UnitPrice:   1,
	})
	assert.ErrorIs(t, err, ErrOrderNotEditable)
}

func TestUpdateItemQuantityDeltaAdjustsPool(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 10, 100)

	item, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &ref.ID,
		Quantity:    30,
		UnitPrice:   5,
	})
	require.NoError(t, err)
	require.Equal(t, 70.0, repo.pools[ref].quantity)

	// increase draws the delta
	qty := 50.0
	updated, err := svc.UpdateItem(context.Background(), orderID, item.ID, UpdateItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.Quantity)
	assert.Equal(t, 250.0, updated.TotalPrice)
	assert.Equal(t, 50.0, repo.pools[ref].quantity)

	// decrease returns the delta
	qty = 10.0
	updated, err = svc.UpdateItem(context.Background(), orderID, item.ID, UpdateItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.TotalPrice)
	assert.Equal(t, 90.0, repo.pools[ref].quantity)
}

func TestUpdateItemInsufficientStockForIncrease(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 10, 40)

	item, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &ref.ID,
		Quantity:    30,
		UnitPrice:   5,
	})
	require.NoError(t, err)
	require.Equal(t, 10.0, repo.pools[ref].quantity)

	qty := 45.0
	_, err = svc.UpdateItem(context.Background(), orderID, item.ID, UpdateItemRequest{Quantity: &qty})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10.0, repo.pools[ref].quantity)
	assert.Equal(t, 30.0, repo.items[item.ID].Quantity)
}

func TestUpdateItemWrongOrder(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderA := seedOrder(repo, StatusOngoing)
	orderB := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 10, 100)

	item, err := svc.AddItem(context.Background(), orderA, AddItemRequest{
		InventoryID: &ref.ID,
		Quantity:    5,
		UnitPrice:   2,
	})
	require.NoError(t, err)

	qty := 8.0
	_, err = svc.UpdateItem(context.Background(), orderB, item.ID, UpdateItemRequest{Quantity: &qty})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItemRestoresStock(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeChick, 4, 200)

	item, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		ChickRecordID: &ref.ID,
		Quantity:      80,
		UnitPrice:     3,
	})
	require.NoError(t, err)
	require.Equal(t, 120.0, repo.pools[ref].quantity)

	require.NoError(t, svc.RemoveItem(context.Background(), orderID, item.ID))
	assert.Equal(t, 200.0, repo.pools[ref].quantity)
	assert.Empty(t, repo.items)
}

func TestRemoveItemRollsBackRestoreWhenDeleteFails(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeChick, 4, 200)

	item, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		ChickRecordID: &ref.ID,
		Quantity:      80,
		UnitPrice:     3,
	})
	require.NoError(t, err)
	repo.deleteErr = errors.New("boom")

	err = svc.RemoveItem(context.Background(), orderID, item.ID)
	require.Error(t, err)
	assert.Equal(t, 120.0, repo.pools[ref].quantity)
	assert.Len(t, repo.items, 1)
}

func TestDeleteOrderRestoresEveryPool(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	feed := seedPool(repo, stock.TypeInventory, 1, 100)
	eggs := seedPool(repo, stock.TypeEgg, 2, 500)

	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &feed.ID, Quantity: 40, UnitPrice: 2,
	})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), orderID, AddItemRequest{
		EggRecordID: &eggs.ID, Quantity: 150, UnitPrice: 0.5,
	})
	require.NoError(t, err)
	require.Equal(t, 60.0, repo.pools[feed].quantity)
	require.Equal(t, 350.0, repo.pools[eggs].quantity)

	require.NoError(t, svc.Delete(context.Background(), orderID))
	assert.Equal(t, 100.0, repo.pools[feed].quantity)
	assert.Equal(t, 500.0, repo.pools[eggs].quantity)
	assert.Empty(t, repo.items)
	assert.Empty(t, repo.orders)
}

func TestDeleteOrderRollsBackWhenItemDeleteFails(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	orderID := seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 1, 100)

	_, err := svc.AddItem(context.Background(), orderID, AddItemRequest{
		InventoryID: &ref.ID, Quantity: 40, UnitPrice: 2,
	})
	require.NoError(t, err)
	repo.deleteErr = errors.New("boom")

	err = svc.Delete(context.Background(), orderID)
	require.Error(t, err)
	assert.Equal(t, 60.0, repo.pools[ref].quantity)
	assert.Len(t, repo.items, 1)
	assert.Len(t, repo.orders, 1)
}

func TestDeleteMissingOrder(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersFiltersAreConjunctive(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})
	repo.buyerNames[2] = "Hillside Farm"

	mk := func(buyerID int64, status Status, daysAgo int) {
		id := repo.nextOrder
		repo.nextOrder++
		repo.orders[id] = Order{
			ID:        id,
			BuyerID:   buyerID,
			OrderDate: NewDate(time.Now().UTC().AddDate(0, 0, -daysAgo)),
			Status:    status,
		}
	}
	mk(1, StatusOngoing, 0)
	mk(1, StatusCompleted, 1)
	mk(2, StatusOngoing, 2)
	mk(1, StatusOngoing, 30)

	status := StatusOngoing
	buyerID := int64(1)
	start := NewDate(time.Now().UTC().AddDate(0, 0, -7))
	resp, err := svc.List(context.Background(), ListFilter{
		Status:    &status,
		BuyerID:   &buyerID,
		StartDate: &start,
	})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, int64(1), resp.Orders[0].ID)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	for _, daysAgo := range []int{5, 1, 3} {
		id := repo.nextOrder
		repo.nextOrder++
		repo.orders[id] = Order{
			ID:        id,
			BuyerID:   1,
			OrderDate: NewDate(time.Now().UTC().AddDate(0, 0, -daysAgo)),
			Status:    StatusOngoing,
		}
	}

	resp, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 3)
	for i := 1; i < len(resp.Orders); i++ {
		prev, cur := resp.Orders[i-1].OrderDate, resp.Orders[i].OrderDate
		assert.False(t, cur.After(prev), "orders must be sorted by order date descending")
	}
}

func TestListOrdersRejectsUnknownStatusFilter(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	bad := Status("Pending")
	_, err := svc.List(context.Background(), ListFilter{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListItemsUnknownOrder(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.ListItems(context.Background(), 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
