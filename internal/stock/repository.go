package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists stock records in PostgreSQL. Every pool type maps onto
// its own table; the SQL is built from the Meta table mapping.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = "id, name, category, unit, quantity, unit_price, notes, created_at, updated_at"

func scanRecord(row pgx.Row, t Type) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Unit, &rec.Quantity,
		&rec.UnitPrice, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.Type = t
	return rec, nil
}

// Create inserts a record and returns its id.
func (r *Repository) Create(ctx context.Context, t Type, rec Record) (int64, error) {
	info, ok := Meta(t)
	if !ok {
		return 0, ErrInvalidType
	}
	query := fmt.Sprintf(`INSERT INTO %s (name, category, unit, quantity, unit_price, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW()) RETURNING id`, info.Table)
	var id int64
	err := r.pool.QueryRow(ctx, query,
		rec.Name, rec.Category, rec.Unit, rec.Quantity, rec.UnitPrice, rec.Notes).Scan(&id)
	return id, err
}

// Get fetches one record by pool reference.
func (r *Repository) Get(ctx context.Context, ref Ref) (Record, error) {
	info, ok := Meta(ref.Type)
	if !ok {
		return Record{}, ErrInvalidType
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", recordColumns, info.Table)
	return scanRecord(r.pool.QueryRow(ctx, query, ref.ID), ref.Type)
}

// List returns records of one type, optionally filtered by name search.
func (r *Repository) List(ctx context.Context, t Type, search string, limit, offset int) ([]Record, int, error) {
	info, ok := Meta(t)
	if !ok {
		return nil, 0, ErrInvalidType
	}
	if limit <= 0 {
		limit = 50
	}

	where := ""
	args := []any{}
	if search != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", info.Table, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d",
		recordColumns, info.Table, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, t)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// Update applies a partial update built from the given column map.
func (r *Repository) Update(ctx context.Context, ref Ref, updates map[string]any) error {
	info, ok := Meta(ref.Type)
	if !ok {
		return ErrInvalidType
	}
	if len(updates) == 0 {
		return nil
	}

	var setClauses []string
	var args []any
	argPos := 1
	for field, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, argPos))
		args = append(args, value)
		argPos++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++
	args = append(args, ref.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		info.Table, strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record.
func (r *Repository) Delete(ctx context.Context, ref Ref) error {
	info, ok := Meta(ref.Type)
	if !ok {
		return ErrInvalidType
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", info.Table), ref.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustQuantity changes a pool's quantity by delta, refusing to go negative.
func (r *Repository) AdjustQuantity(ctx context.Context, ref Ref, delta float64) error {
	info, ok := Meta(ref.Type)
	if !ok {
		return ErrInvalidType
	}
	query := fmt.Sprintf(`UPDATE %s SET quantity = quantity + $1, updated_at = NOW()
WHERE id = $2 AND quantity + $1 >= 0`, info.Table)
	tag, err := r.pool.Exec(ctx, query, delta, ref.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is missing or the adjustment would go negative.
		if _, err := r.Get(ctx, ref); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// LowStock lists pools across every table whose quantity is under threshold.
func (r *Repository) LowStock(ctx context.Context, threshold float64) ([]Pool, error) {
	var selects []string
	for _, t := range Types() {
		info, _ := Meta(t)
		selects = append(selects, fmt.Sprintf(
			"SELECT '%s' AS pool_type, id, name, unit, quantity FROM %s WHERE quantity < $1", t, info.Table))
	}
	query := strings.Join(selects, " UNION ALL ") + " ORDER BY quantity ASC"

	rows, err := r.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pools := []Pool{}
	for rows.Next() {
		var p Pool
		var poolType string
		if err := rows.Scan(&poolType, &p.Ref.ID, &p.Name, &p.Unit, &p.Quantity); err != nil {
			return nil, err
		}
		p.Ref.Type = Type(poolType)
		pools = append(pools, p)
	}
	return pools, rows.Err()
}
