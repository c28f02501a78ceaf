package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bscmoz/consultoria-platform/internal/api/router"
	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/internal/cases"
	appconfig "github.com/bscmoz/consultoria-platform/internal/config"
	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/internal/observability/metrics"
	"github.com/bscmoz/consultoria-platform/internal/stats"
	"github.com/bscmoz/consultoria-platform/internal/studies"
	"github.com/bscmoz/consultoria-platform/internal/triage"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

func main() {
	// Load configuration; a missing .env is fine in production
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting consultoria-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Data client: hosted backend, or the in-memory store for development
	var client dataclient.Client
	if cfg.UseMemoryStore {
		logger.Warn("using in-memory data store, nothing will be persisted")
		client = dataclient.NewMemoryClient()
	} else {
		client = dataclient.NewRestClient(cfg.DataClientURL, cfg.DataClientKey, logger)
	}

	// Repositories
	leadsRepo := leads.NewRepository(client)
	casesRepo := cases.NewRepository(client)
	studiesRepo := studies.NewRepository(client)

	// Triage view and aggregates; the view recomputes stats after mutations
	leadMetrics := metrics.NewLeadMetrics(nil)
	aggregator := stats.NewAggregator(leadsRepo, logger)
	view := triage.NewView(leadsRepo, logger)
	view.OnUpdate(func(ctx context.Context, sess *dataclient.Session) {
		if _, err := aggregator.Recompute(ctx, sess); err != nil {
			logger.Error("failed to recompute stats", "error", err)
		}
	})

	gate := auth.NewGate(client, logger)
	gate.Resolve(nil)

	// Handlers
	intakeHandler := leads.NewHandler(leadsRepo, leadMetrics, cfg.WhatsAppNumber, logger)
	triageHandler := triage.NewHandler(view, leadMetrics, logger)
	statsHandler := stats.NewHandler(aggregator, logger)
	casesHandler := cases.NewHandler(casesRepo, logger)
	studiesHandler := studies.NewHandler(studiesRepo, logger)
	authHandler := auth.NewHandler(gate, cfg.DataJWTSecret, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intakeHandler,
		TriageHandler:      triageHandler,
		StatsHandler:       statsHandler,
		CasesHandler:       casesHandler,
		StudiesHandler:     studiesHandler,
		AuthHandler:        authHandler,
		SessionSecret:      cfg.DataJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
