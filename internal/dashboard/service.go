// Package dashboard aggregates cross-module counts for the landing view.
package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

// Summary is the dashboard payload.
type Summary struct {
	OngoingOrders   int     `json:"ongoing_orders"`
	CompletedOrders int     `json:"completed_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	Revenue         float64 `json:"revenue"`
	BuyerCount      int     `json:"buyer_count"`
	EmployeeCount   int     `json:"employee_count"`
	LowStockPools   int     `json:"low_stock_pools"`
}

// Service computes the summary straight from the database.
type Service struct {
	pool              *pgxpool.Pool
	lowStockThreshold float64
}

// NewService constructs the dashboard service.
func NewService(pool *pgxpool.Pool, lowStockThreshold float64) *Service {
	return &Service{pool: pool, lowStockThreshold: lowStockThreshold}
}

// Summary fans the component queries out concurrently and assembles the
// result. The whole call is bounded by a five second deadline.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out Summary
	g, ctx := errgroup.WithContext(ctx)

	countByStatus := func(status string, dst *int) func() error {
		return func() error {
			return s.pool.QueryRow(ctx,
				"SELECT COUNT(*) FROM orders WHERE status = $1", status).Scan(dst)
		}
	}
	g.Go(countByStatus("Ongoing", &out.OngoingOrders))
	g.Go(countByStatus("Completed", &out.CompletedOrders))
	g.Go(countByStatus("Cancelled", &out.CancelledOrders))

	g.Go(func() error {
		return s.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(oi.total_price), 0)
			FROM order_items oi
			JOIN orders o ON oi.order_id = o.id
			WHERE o.status = 'Completed'`).Scan(&out.Revenue)
	})
	g.Go(func() error {
		return s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM buyers").Scan(&out.BuyerCount)
	})
	g.Go(func() error {
		return s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM employees").Scan(&out.EmployeeCount)
	})
	g.Go(func() error {
		query := ""
		for i, t := range stock.Types() {
			meta, ok := stock.Meta(t)
			if !ok {
				return stock.ErrInvalidType
			}
			if i > 0 {
				query += " UNION ALL "
			}
			query += "SELECT quantity FROM " + meta.Table
		}
		return s.pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM ("+query+") pools WHERE quantity < $1",
			s.lowStockThreshold).Scan(&out.LowStockPools)
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return out, nil
}
