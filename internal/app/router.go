package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead-erp/farmstead-erp/internal/auth"
	"github.com/farmstead-erp/farmstead-erp/internal/buyers"
	"github.com/farmstead-erp/farmstead-erp/internal/dashboard"
	"github.com/farmstead-erp/farmstead-erp/internal/employees"
	"github.com/farmstead-erp/farmstead-erp/internal/observability"
	"github.com/farmstead-erp/farmstead-erp/internal/orders"
	"github.com/farmstead-erp/farmstead-erp/internal/stock"
	"github.com/farmstead-erp/farmstead-erp/internal/transactions"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	Metrics             *observability.Metrics
	AuthService         *auth.Service
	AuthHandler         *auth.Handler
	BuyersHandler       *buyers.Handler
	StockHandler        *stock.Handler
	OrdersHandler       *orders.Handler
	TransactionsHandler *transactions.Handler
	EmployeesHandler    *employees.Handler
	DashboardHandler    *dashboard.Handler
}

// NewRouter constructs the chi.Router with the farmstead defaults: the full
// middleware stack, health and metrics endpoints, and the /api tree behind
// bearer auth.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthService.RequireAuth)

			params.AuthHandler.MountProtectedRoutes(r)
			params.BuyersHandler.MountRoutes(r)
			params.StockHandler.MountRoutes(r)
			params.OrdersHandler.MountRoutes(r, auth.RequireRole(auth.RoleAdmin))
			params.TransactionsHandler.MountRoutes(r)
			params.EmployeesHandler.MountRoutes(r)
			params.DashboardHandler.MountRoutes(r)
		})
	})

	return r
}
