// cmd/server/run.go
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"git.platform.alem.school/amibragim/order-up/internal/app/mailer"
	"git.platform.alem.school/amibragim/order-up/internal/app/orderapi"
	"git.platform.alem.school/amibragim/order-up/internal/app/realtime"
	"git.platform.alem.school/amibragim/order-up/internal/app/storeapi"
	"git.platform.alem.school/amibragim/order-up/internal/shared/config"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
	pg "git.platform.alem.school/amibragim/order-up/internal/shared/postgres"
)

// Run wires the server and blocks until ctx is cancelled.
// It returns the first terminal error (server or startup failure).
func Run(ctx context.Context, configPath string, port int) error {
	// set up a new logger for the server
	logger := logger.NewLogger("order-up-server")

	// load a config from file (env vars override file values)
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}
	if port > 0 {
		cfg.HTTP.Port = port
	}

	// set up a Postgres connection pool
	pool, err := pg.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err)
		return err
	}
	defer pool.Close()

	// set up repositories, unit of work, and application services
	uow := pg.NewUnitOfWork(pool)
	ordersRepo := pg.NewOrdersRepo()
	customersRepo := pg.NewCustomersRepo()
	productsRepo := pg.NewProductsRepo()

	orderSvc := orderapi.NewService(uow, ordersRepo, customersRepo, logger)
	catalogSvc := storeapi.NewService(uow, productsRepo, customersRepo, logger)

	// email side effects go through a bounded queue; Close drains the worker
	dispatcher := mailer.New(cfg.SMTP, logger)
	defer dispatcher.Close()

	// realtime fan-out: connection registry, event broadcaster, WS endpoint
	hub := realtime.NewHub(logger)
	sound := realtime.LoadSound(cfg.NotificationSound, logger)
	broadcaster := realtime.NewBroadcaster(orderSvc, hub, dispatcher, sound, logger)

	mux := http.NewServeMux()
	orderapi.NewOrderHTTPHandler(orderSvc, broadcaster, logger).Register(mux)
	storeapi.NewCatalogHTTPHandler(catalogSvc, logger).Register(mux)
	realtime.NewWSHandler(hub, logger, cfg.WebSocket).Register(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		// Tie server lifetime to incoming ctx (nice for tests / parent cancel).
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Server started on port %d", cfg.HTTP.Port),
		map[string]any{"port": cfg.HTTP.Port, "smtp_enabled": cfg.SMTP.Configured()},
	)

	// ---- Serve + graceful shutdown -------------------------------------------
	errCh := make(chan error, 1)
	go func() {
		// http.ErrServerClosed is returned on Shutdown; treat that as clean exit.
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		// Graceful HTTP shutdown (drain keep-alives / in-flight requests).
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx) // best-effort
		logger.Info(context.Background(), "service_stopped", "Server shut down", nil)
		return nil
	case err := <-errCh:
		if err != nil {
			logger.Error(ctx, "server_failed", "HTTP server terminated", err)
		}
		return err
	}
}
