package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/db"
	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

// Repository exposes order persistence. Multi-row mutations run through
// WithTx so a mid-sequence failure leaves the store unchanged.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	GetOrder(ctx context.Context, id int64) (Order, error)
	GetOrderWithDetails(ctx context.Context, id int64) (OrderWithDetails, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]OrderWithDetails, int, error)
	CreateOrder(ctx context.Context, o Order) (int64, error)
	UpdateOrder(ctx context.Context, id int64, updates map[string]any) error

	GetItem(ctx context.Context, id int64) (Item, error)
	GetItemWithDetails(ctx context.Context, id int64) (ItemWithDetails, error)
	ListItems(ctx context.Context, orderID int64) ([]ItemWithDetails, error)
}

// TxRepository exposes the operations that must share one transaction: item
// mutations and the compensating stock-pool adjustments.
type TxRepository interface {
	GetItemForUpdate(ctx context.Context, id int64) (Item, error)
	ListItemsForUpdate(ctx context.Context, orderID int64) ([]Item, error)
	InsertItem(ctx context.Context, item Item) (int64, error)
	UpdateItem(ctx context.Context, id int64, updates map[string]any) error
	DeleteItem(ctx context.Context, id int64) error
	DeleteItems(ctx context.Context, orderID int64) error
	DeleteOrder(ctx context.Context, id int64) error

	GetPoolForUpdate(ctx context.Context, ref stock.Ref) (stock.Pool, error)
	AdjustPool(ctx context.Context, ref stock.Ref, delta float64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const orderColumns = "id, buyer_id, order_date, deadline_date, status, created_at, updated_at"

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.OrderDate, &o.DeadlineDate, &o.Status,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *pgRepository) GetOrder(ctx context.Context, id int64) (Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1"
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *pgRepository) GetOrderWithDetails(ctx context.Context, id int64) (OrderWithDetails, error) {
	query := `
		SELECT o.id, o.buyer_id, o.order_date, o.deadline_date, o.status,
		       o.created_at, o.updated_at,
		       b.name AS buyer_name,
		       COUNT(oi.id) AS item_count,
		       COALESCE(SUM(oi.total_price), 0) AS total_amount
		FROM orders o
		JOIN buyers b ON o.buyer_id = b.id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.id = $1
		GROUP BY o.id, b.name`

	var d OrderWithDetails
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.BuyerID, &d.OrderDate, &d.DeadlineDate, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
		&d.BuyerName, &d.ItemCount, &d.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderWithDetails{}, ErrOrderNotFound
		}
		return OrderWithDetails{}, err
	}
	return d, nil
}

func (r *pgRepository) ListOrders(ctx context.Context, filter ListFilter) ([]OrderWithDetails, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	add := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}
	if filter.Status != nil {
		add("o.status = $%d", *filter.Status)
	}
	if filter.BuyerID != nil {
		add("o.buyer_id = $%d", *filter.BuyerID)
	}
	if filter.StartDate != nil {
		add("o.order_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("o.order_date <= $%d", *filter.EndDate)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders o %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	// Most recent orders first. The order_date DESC ordering is part of the
	// API contract.
	query := fmt.Sprintf(`
		SELECT o.id, o.buyer_id, o.order_date, o.deadline_date, o.status,
		       o.created_at, o.updated_at,
		       b.name AS buyer_name,
		       COUNT(oi.id) AS item_count,
		       COALESCE(SUM(oi.total_price), 0) AS total_amount
		FROM orders o
		JOIN buyers b ON o.buyer_id = b.id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		%s
		GROUP BY o.id, b.name
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []OrderWithDetails{}
	for rows.Next() {
		var d OrderWithDetails
		err := rows.Scan(&d.ID, &d.BuyerID, &d.OrderDate, &d.DeadlineDate, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &d.BuyerName, &d.ItemCount, &d.TotalAmount)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *pgRepository) CreateOrder(ctx context.Context, o Order) (int64, error) {
	query := `INSERT INTO orders (buyer_id, order_date, deadline_date, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,NOW(),NOW()) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, o.BuyerID, o.OrderDate, o.DeadlineDate, o.Status).Scan(&id)
	return id, err
}

func (r *pgRepository) UpdateOrder(ctx context.Context, id int64, updates map[string]any) error {
	return updateOrderRow(ctx, r.pool, id, updates)
}

const itemColumns = `id, order_id, inventory_id, chicken_record_id, chick_record_id, egg_record_id,
quantity, unit_price, total_price, notes, created_at, updated_at`

// itemRefIDs splits a stock ref back into the four nullable columns.
func itemRefIDs(ref stock.Ref) (inventoryID, chickenID, chickID, eggID *int64) {
	id := ref.ID
	switch ref.Type {
	case stock.TypeInventory:
		inventoryID = &id
	case stock.TypeChicken:
		chickenID = &id
	case stock.TypeChick:
		chickID = &id
	case stock.TypeEgg:
		eggID = &id
	}
	return
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var inventoryID, chickenID, chickID, eggID *int64
	err := row.Scan(&it.ID, &it.OrderID, &inventoryID, &chickenID, &chickID, &eggID,
		&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	switch {
	case inventoryID != nil:
		it.Stock = stock.Ref{Type: stock.TypeInventory, ID: *inventoryID}
	case chickenID != nil:
		it.Stock = stock.Ref{Type: stock.TypeChicken, ID: *chickenID}
	case chickID != nil:
		it.Stock = stock.Ref{Type: stock.TypeChick, ID: *chickID}
	case eggID != nil:
		it.Stock = stock.Ref{Type: stock.TypeEgg, ID: *eggID}
	}
	return it, nil
}

func (r *pgRepository) GetItem(ctx context.Context, id int64) (Item, error) {
	query := "SELECT " + itemColumns + " FROM order_items WHERE id = $1"
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

const itemDetailQuery = `
	SELECT oi.id, oi.order_id, oi.inventory_id, oi.chicken_record_id,
	       oi.chick_record_id, oi.egg_record_id,
	       oi.quantity, oi.unit_price, oi.total_price, oi.notes,
	       oi.created_at, oi.updated_at,
	       COALESCE(inv.name, ck.name, cc.name, eg.name) AS stock_name,
	       COALESCE(inv.category, ck.category, cc.category, eg.category) AS stock_category,
	       COALESCE(inv.unit, ck.unit, cc.unit, eg.unit) AS stock_unit
	FROM order_items oi
	LEFT JOIN inventory inv ON oi.inventory_id = inv.id
	LEFT JOIN chicken_records ck ON oi.chicken_record_id = ck.id
	LEFT JOIN chick_records cc ON oi.chick_record_id = cc.id
	LEFT JOIN egg_records eg ON oi.egg_record_id = eg.id`

func scanItemDetails(row pgx.Row) (ItemWithDetails, error) {
	var d ItemWithDetails
	var inventoryID, chickenID, chickID, eggID *int64
	err := row.Scan(&d.ID, &d.OrderID, &inventoryID, &chickenID, &chickID, &eggID,
		&d.Quantity, &d.UnitPrice, &d.TotalPrice, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		&d.StockName, &d.StockCategory, &d.StockUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemWithDetails{}, ErrItemNotFound
		}
		return ItemWithDetails{}, err
	}
	switch {
	case inventoryID != nil:
		d.Stock = stock.Ref{Type: stock.TypeInventory, ID: *inventoryID}
	case chickenID != nil:
		d.Stock = stock.Ref{Type: stock.TypeChicken, ID: *chickenID}
	case chickID != nil:
		d.Stock = stock.Ref{Type: stock.TypeChick, ID: *chickID}
	case eggID != nil:
		d.Stock = stock.Ref{Type: stock.TypeEgg, ID: *eggID}
	}
	return d, nil
}

func (r *pgRepository) GetItemWithDetails(ctx context.Context, id int64) (ItemWithDetails, error) {
	return scanItemDetails(r.pool.QueryRow(ctx, itemDetailQuery+" WHERE oi.id = $1", id))
}

func (r *pgRepository) ListItems(ctx context.Context, orderID int64) ([]ItemWithDetails, error) {
	rows, err := r.pool.Query(ctx, itemDetailQuery+" WHERE oi.order_id = $1 ORDER BY oi.id ASC", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ItemWithDetails{}
	for rows.Next() {
		d, err := scanItemDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
