package buyers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists buyers in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const buyerColumns = "id, name, contact_name, phone, email, address, created_at, updated_at"

func scanBuyer(row pgx.Row) (Buyer, error) {
	var b Buyer
	err := row.Scan(&b.ID, &b.Name, &b.ContactName, &b.Phone, &b.Email, &b.Address,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Buyer{}, ErrNotFound
		}
		return Buyer{}, err
	}
	return b, nil
}

// Get fetches one buyer.
func (r *Repository) Get(ctx context.Context, id int64) (Buyer, error) {
	query := "SELECT " + buyerColumns + " FROM buyers WHERE id = $1"
	return scanBuyer(r.pool.QueryRow(ctx, query, id))
}

// List returns buyers filtered by an optional name search.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Buyer, int, error) {
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM buyers "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM buyers %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d",
		buyerColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Buyer{}
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// Create inserts a buyer and returns its id.
func (r *Repository) Create(ctx context.Context, b Buyer) (int64, error) {
	query := `INSERT INTO buyers (name, contact_name, phone, email, address, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW()) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, b.Name, b.ContactName, b.Phone, b.Email, b.Address).Scan(&id)
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

	query := fmt.Sprintf("UPDATE buyers SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a buyer.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM buyers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
