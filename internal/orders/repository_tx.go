package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

type txRepository struct {
	tx pgx.Tx
}

// execer covers pgx.Tx and *pgxpool.Pool.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateOrderRow(ctx context.Context, q execer, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	setClause := ""
	args := []any{}
	argPos := 1
	for _, col := range []string{"buyer_id", "order_date", "deadline_date", "status"} {
		v, ok := updates[col]
		if !ok {
			continue
		}
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", col, argPos)
		args = append(args, v)
		argPos++
	}
	if setClause == "" {
		return nil
	}
	query := fmt.Sprintf("UPDATE orders SET %s, updated_at = NOW() WHERE id = $%d", setClause, argPos)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *txRepository) GetItemForUpdate(ctx context.Context, id int64) (Item, error) {
	query := "SELECT " + itemColumns + " FROM order_items WHERE id = $1 FOR UPDATE"
	return scanItem(r.tx.QueryRow(ctx, query, id))
}

func (r *txRepository) ListItemsForUpdate(ctx context.Context, orderID int64) ([]Item, error) {
	query := "SELECT " + itemColumns + " FROM order_items WHERE order_id = $1 ORDER BY id ASC FOR UPDATE"
	rows, err := r.tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *txRepository) InsertItem(ctx context.Context, item Item) (int64, error) {
	inventoryID, chickenID, chickID, eggID := itemRefIDs(item.Stock)
	query := `INSERT INTO order_items
(order_id, inventory_id, chicken_record_id, chick_record_id, egg_record_id,
 quantity, unit_price, total_price, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW()) RETURNING id`
	var id int64
	err := r.tx.QueryRow(ctx, query, item.OrderID, inventoryID, chickenID, chickID, eggID,
		item.Quantity, item.UnitPrice, item.TotalPrice, item.Notes).Scan(&id)
	return id, err
}

func (r *txRepository) UpdateItem(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	setClause := ""
	args := []any{}
	argPos := 1
	for _, col := range []string{"quantity", "unit_price", "total_price", "notes"} {
		v, ok := updates[col]
		if !ok {
			continue
		}
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", col, argPos)
		args = append(args, v)
		argPos++
	}
	if setClause == "" {
		return nil
	}
	query := fmt.Sprintf("UPDATE order_items SET %s, updated_at = NOW() WHERE id = $%d", setClause, argPos)
	args = append(args, id)

	tag, err := r.tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *txRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, "DELETE FROM order_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *txRepository) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := r.tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID)
	return err
}

func (r *txRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *txRepository) GetPoolForUpdate(ctx context.Context, ref stock.Ref) (stock.Pool, error) {
	meta, ok := stock.Meta(ref.Type)
	if !ok {
		return stock.Pool{}, stock.ErrInvalidType
	}
	query := fmt.Sprintf("SELECT name, unit, quantity FROM %s WHERE id = $1 FOR UPDATE", meta.Table)

	p := stock.Pool{Ref: ref}
	err := r.tx.QueryRow(ctx, query, ref.ID).Scan(&p.Name, &p.Unit, &p.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stock.Pool{}, ErrStockNotFound
		}
		return stock.Pool{}, err
	}
	return p, nil
}

func (r *txRepository) AdjustPool(ctx context.Context, ref stock.Ref, delta float64) error {
	meta, ok := stock.Meta(ref.Type)
	if !ok {
		return stock.ErrInvalidType
	}
	query := fmt.Sprintf(
		"UPDATE %s SET quantity = quantity + $1, updated_at = NOW() WHERE id = $2 AND quantity + $1 >= 0",
		meta.Table)

	tag, err := r.tx.Exec(ctx, query, delta, ref.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkQuery := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", meta.Table)
		if err := r.tx.QueryRow(ctx, checkQuery, ref.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrStockNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
