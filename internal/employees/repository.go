package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists employees in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = "id, name, position, phone, salary, hire_date, created_at, updated_at"

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Phone, &e.Salary, &e.HireDate,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

// Get fetches one employee.
func (r *Repository) Get(ctx context.Context, id int64) (Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE id = $1"
	return scanEmployee(r.pool.QueryRow(ctx, query, id))
}

// List returns employees filtered by an optional name search.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Employee, int, error) {
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM employees %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d",
		employeeColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// Create inserts an employee and returns its id.
func (r *Repository) Create(ctx context.Context, e Employee) (int64, error) {
	query := `INSERT INTO employees (name, position, phone, salary, hire_date, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW()) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, e.Name, e.Position, e.Phone, e.Salary, e.HireDate).Scan(&id)
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

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an employee.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
