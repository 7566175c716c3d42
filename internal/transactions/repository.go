package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists transactions in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txnColumns = "id, type, amount, description, date, order_id, created_at, updated_at"

func scanTxn(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.Description, &t.Date, &t.OrderID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

// Get fetches one transaction.
func (r *Repository) Get(ctx context.Context, id int64) (Transaction, error) {
	query := "SELECT " + txnColumns + " FROM transactions WHERE id = $1"
	return scanTxn(r.pool.QueryRow(ctx, query, id))
}

// List returns transactions matching the filter, newest date first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	add := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}
	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM transactions %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		txnColumns, where, argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Create inserts a transaction and returns its id.
func (r *Repository) Create(ctx context.Context, t Transaction) (int64, error) {
	query := `INSERT INTO transactions (type, amount, description, date, order_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW()) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, t.Type, t.Amount, t.Description, t.Date, t.OrderID).Scan(&id)
	return id, err
}

// Update applies a partial update built from the given column map.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
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
	args = append(args, id)

	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
