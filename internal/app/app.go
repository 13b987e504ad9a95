package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"vendascli/internal/config"
	"vendascli/internal/errors"
	"vendascli/internal/infrastructure"
	customMiddleware "vendascli/internal/middleware"
	"vendascli/internal/services"
	handlers "vendascli/internal/transport/http"
	"vendascli/pkg/contracts"
)

const AppName = "vendascli"

// Application wires configuration, the sales service and the HTTP server.
type Application struct {
	Config       *config.Config
	Router       *chi.Mux
	Server       *http.Server
	SalesService *services.SalesService
	Logger       *slog.Logger
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("source", cfg.Source.File))

	if _, err := os.Stat(cfg.Source.File); err != nil {
		// Non-fatal: the file can appear later, requests degrade until then.
		logger.Warn("Sales spreadsheet not found at startup",
			slog.String("path", cfg.Source.File))
	}

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		SalesService: services.NewSalesService(cfg, logger),
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))

	if a.Config.Server.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := errors.NewErrorHandler(a.Logger, false)

	salesHandler := handlers.NewSalesHandler(a.SalesService, a.Logger, errorHandler)
	r.Mount("/api/sales", salesHandler.Routes())

	healthHandler := handlers.NewHealthHandler(a.SalesService, a.Logger, contracts.Version)
	r.Mount("/api/health", healthHandler.Routes())

	// Prometheus endpoint stays outside the rate limited API surface.
	r.Handle("/metrics", handlers.MetricsHandler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and warms the dataset cache.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Warm the cache so the first request does not pay the spreadsheet parse.
	go func() {
		if ds, err := a.SalesService.Dataset(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Initial dataset load failed",
				slog.String("error", err.Error()))
		} else {
			a.Logger.InfoContext(ctx, "Initial dataset loaded",
				slog.Int("records", len(ds.Records)),
				slog.Int("dropped_rows", ds.DroppedRows))
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
