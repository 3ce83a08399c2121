// Package app assembles configuration, logging, services and the HTTP
// router into a runnable application.
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

	"finsight/internal/config"
	apierrors "finsight/internal/errors"
	"finsight/internal/infrastructure"
	"finsight/internal/metrics"
	custommw "finsight/internal/middleware"
	"finsight/internal/services"
	"finsight/internal/store"
	transport "finsight/internal/transport/http"
)

// Application holds the wired dependencies of the running service.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Router   chi.Router
	Server   *http.Server
	Store    *store.MemoryStore
	Metrics  *metrics.Metrics
	Services *ServiceContainer
}

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Normalize *services.NormalizeService
	Datasets  *services.DatasetService
	Analyses  *services.AnalysisService
}

// NewApplication loads configuration from the given path and wires the
// application. An empty path uses environment variables and defaults only.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() {
	a.Store = store.NewMemoryStore(a.Config.Store.SessionTTL, a.Config.Store.SweepInterval, a.Logger)

	a.Services = &ServiceContainer{
		Normalize: services.NewNormalizeService(a.Logger),
		Datasets:  services.NewDatasetService(a.Store, a.Logger),
		Analyses:  services.NewAnalysisService(a.Store, a.Logger),
	}
	a.Metrics.RegisterSessionGauge(a.Services.Datasets.SessionCount)
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.CORS(custommw.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
	}))
	r.Use(a.Metrics.Middleware)

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	metaHandler := transport.NewMetaHandler()
	r.Get("/", metaHandler.ServiceInfo)
	r.Handle("/metrics", a.Metrics.Handler())

	rateLimiter := custommw.NewRateLimiter(
		a.Config.Security.RateLimitRPS,
		a.Config.Security.RateLimitBurst,
		a.Logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := transport.NewHealthHandler(a.Services.Datasets)
		r.Mount("/health", healthHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(custommw.BodyLimit(a.Config.Security.MaxBodyBytes))
			normalizeHandler := transport.NewNormalizeHandler(a.Services.Normalize, a.Logger, errorHandler, a.Metrics)
			r.Mount("/normalize", normalizeHandler.Routes())

			analysisHandler := transport.NewAnalysisHandler(a.Services.Analyses, a.Logger, errorHandler, a.Metrics)
			r.Mount("/analyses", analysisHandler.Routes())
		})

		datasetHandler := transport.NewDatasetHandler(a.Services.Datasets, a.Logger, errorHandler, a.Config.Security.MaxUploadBytes)
		r.Mount("/csvs", datasetHandler.Routes())

		r.Mount("/", metaHandler.Routes())
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving. Listen failures cancel the passed context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Logger.InfoContext(ctx, "application starting",
		slog.String("name", transport.ServiceName),
		slog.String("version", transport.ServiceVersion),
		slog.String("addr", a.Config.Server.Addr()),
	)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop gracefully shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Store.Close()
	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run serves until an interrupt or termination signal arrives, then shuts
// down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
