// Package jobs holds the background task definitions and the Asynq worker
// that runs them.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan walks every stock pool and logs the ones below the
	// configured threshold.
	TaskLowStockScan = "stock:low_scan"
	// TaskOverdueOrderScan reports ongoing orders whose deadline has passed.
	TaskOverdueOrderScan = "orders:overdue_scan"
)

// LowStockScanPayload parameterizes a low-stock scan.
type LowStockScanPayload struct {
	Threshold float64 `json:"threshold"`
}

// NewLowStockScanTask constructs the Asynq task.
func NewLowStockScanTask(threshold float64) (*asynq.Task, error) {
	data, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// LowStockScanJob checks every pool type against the threshold.
type LowStockScanJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{pool: pool, logger: logger}
}

// Handle processes TaskLowStockScan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	for _, poolType := range stock.Types() {
		meta, ok := stock.Meta(poolType)
		if !ok {
			return stock.ErrInvalidType
		}
		rows, err := j.pool.Query(ctx,
			"SELECT id, name, quantity FROM "+meta.Table+" WHERE quantity < $1 ORDER BY quantity ASC",
			payload.Threshold)
		if err != nil {
			return err
		}
		for rows.Next() {
			var id int64
			var name string
			var quantity float64
			if err := rows.Scan(&id, &name, &quantity); err != nil {
				rows.Close()
				return err
			}
			j.logger.Warn("low stock",
				"type", poolType, "id", id, "name", name,
				"quantity", quantity, "threshold", payload.Threshold)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// NewOverdueOrderScanTask constructs the Asynq task. It carries no payload.
func NewOverdueOrderScanTask() *asynq.Task {
	return asynq.NewTask(TaskOverdueOrderScan, nil)
}

// OverdueOrderScanJob reports ongoing orders past their deadline.
type OverdueOrderScanJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewOverdueOrderScanJob(pool *pgxpool.Pool, logger *slog.Logger) *OverdueOrderScanJob {
	return &OverdueOrderScanJob{pool: pool, logger: logger}
}

// Handle processes TaskOverdueOrderScan tasks.
func (j *OverdueOrderScanJob) Handle(ctx context.Context, _ *asynq.Task) error {
	rows, err := j.pool.Query(ctx, `
		SELECT o.id, b.name, o.deadline_date
		FROM orders o
		JOIN buyers b ON o.buyer_id = b.id
		WHERE o.status = 'Ongoing'
		  AND o.deadline_date IS NOT NULL
		  AND o.deadline_date < CURRENT_DATE
		ORDER BY o.deadline_date ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	overdue := 0
	for rows.Next() {
		var id int64
		var buyerName string
		var deadline time.Time
		if err := rows.Scan(&id, &buyerName, &deadline); err != nil {
			return err
		}
		j.logger.Warn("overdue order", "id", id, "buyer", buyerName,
			"deadline", deadline.Format("2006-01-02"))
		overdue++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	j.logger.Info("overdue order scan finished", "overdue", overdue)
	return nil
}
