package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farmstead-erp/farmstead-erp/internal/app"
	"github.com/farmstead-erp/farmstead-erp/internal/auth"
	"github.com/farmstead-erp/farmstead-erp/internal/buyers"
	"github.com/farmstead-erp/farmstead-erp/internal/dashboard"
	"github.com/farmstead-erp/farmstead-erp/internal/employees"
	"github.com/farmstead-erp/farmstead-erp/internal/observability"
	"github.com/farmstead-erp/farmstead-erp/internal/orders"
	"github.com/farmstead-erp/farmstead-erp/internal/platform/cache"
	"github.com/farmstead-erp/farmstead-erp/internal/platform/db"
	"github.com/farmstead-erp/farmstead-erp/internal/stock"
	"github.com/farmstead-erp/farmstead-erp/internal/transactions"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokenStore)
	authHandler := auth.NewHandler(logger, authService)

	buyersService := buyers.NewService(buyers.NewRepository(pool))
	buyersHandler := buyers.NewHandler(logger, buyersService)

	stockService := stock.NewService(stock.NewRepository(pool))
	stockHandler := stock.NewHandler(logger, stockService)

	transitions := orders.PermissiveTransitions()
	if cfg.OrderStrictTransitions {
		transitions = orders.StrictTransitions()
	}
	ordersService := orders.NewService(
		orders.NewRepository(pool),
		buyersService,
		orders.ServiceConfig{Transitions: transitions},
	)
	ordersHandler := orders.NewHandler(logger, ordersService)

	transactionsService := transactions.NewService(transactions.NewRepository(pool), ordersService)
	transactionsHandler := transactions.NewHandler(logger, transactionsService)

	employeesService := employees.NewService(employees.NewRepository(pool))
	employeesHandler := employees.NewHandler(logger, employeesService)

	dashboardService := dashboard.NewService(pool, cfg.LowStockThreshold)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Metrics:             metrics,
		AuthService:         authService,
		AuthHandler:         authHandler,
		BuyersHandler:       buyersHandler,
		StockHandler:        stockHandler,
		OrdersHandler:       ordersHandler,
		TransactionsHandler: transactionsHandler,
		EmployeesHandler:    employeesHandler,
		DashboardHandler:    dashboardHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
