package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/tradedesk/internal"
	"github.com/dukerupert/tradedesk/internal/billing"
	"github.com/dukerupert/tradedesk/internal/handler/api"
	"github.com/dukerupert/tradedesk/internal/middleware"
	"github.com/dukerupert/tradedesk/internal/postgres"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/dukerupert/tradedesk/internal/router"
	"github.com/dukerupert/tradedesk/internal/routes"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/dukerupert/tradedesk/internal/shipping"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/dukerupert/tradedesk/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// ==========================================================================
	// Metrics
	// ==========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(registry, registry, cfg.Metrics.Namespace)
	pricingMetrics := telemetry.NewPricingMetrics(registry, cfg.Metrics.Namespace)

	// ==========================================================================
	// Pricing core
	// ==========================================================================

	rules, err := tax.NewRules(cfg.VAT.HomeCountry, cfg.VAT.StandardRate)
	if err != nil {
		return fmt.Errorf("failed to build VAT rules: %w", err)
	}
	vat := tax.NewVATResolver(rules)
	logger.Info("VAT rules loaded",
		"home_country", rules.HomeCountry(),
		"standard_rate", rules.StandardRate().String(),
	)

	estimator, err := newEstimator(cfg.Shipping.RatesFile, rules, logger)
	if err != nil {
		return err
	}

	store := postgres.NewStore(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)

	resolver := pricing.NewResolver(store,
		pricing.WithLogger(logger),
		pricing.WithObserver(pricingMetrics),
	)

	quoteService := service.NewQuoteService(store, resolver, estimator, vat,
		service.WithQuoteLogger(logger),
		service.WithQuoteObserver(pricingMetrics),
		service.WithQuoteRepository(quoteRepo),
		service.WithCurrency(cfg.Currency),
	)

	// Card payments are optional
	var paymentService service.PaymentService
	if cfg.Stripe.Enabled {
		logger.Info("Initializing Stripe billing provider...")
		stripeConfig := billing.StripeConfig{
			APIKey:     cfg.Stripe.SecretKey,
			MaxRetries: cfg.Stripe.MaxRetries,
		}
		provider, err := billing.NewStripeProvider(stripeConfig, logger, pricingMetrics)
		if err != nil {
			return fmt.Errorf("failed to initialize Stripe provider: %w", err)
		}
		paymentService = service.NewPaymentService(quoteService, provider, logger)
		logger.Info("Stripe billing provider initialized", "test_mode", stripeConfig.IsTestMode())
	} else {
		logger.Info("Stripe disabled; payment intent route will answer 501")
	}

	// ==========================================================================
	// Routes
	// ==========================================================================

	apiDeps := routes.APIDeps{
		QuoteHandler:       api.NewQuoteHandler(quoteService, paymentService),
		CatalogHandler:     api.NewCatalogHandler(store, resolver),
		VATHandler:         api.NewVATHandler(vat, rules),
		HealthHandler:      api.NewHealthHandler(pool),
		MetricsHandler:     httpMetrics.Handler(),
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		httpMetrics.Middleware,
		router.Logger(logger),
	)
	routes.RegisterAPIRoutes(r, apiDeps)
	for _, route := range r.Routes() {
		logger.Debug("Route registered", "route", route)
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// newEstimator loads the shipping rate table, or an empty table when no
// file is configured so every destination gets the default cost.
func newEstimator(path string, rules *tax.Rules, logger *slog.Logger) (shipping.Estimator, error) {
	if path == "" {
		logger.Warn("SHIPPING_RATES_FILE not set; all destinations use the default shipping cost")
		return shipping.NewRateTable(rules, shipping.RateTableConfig{})
	}

	table, err := shipping.LoadRateTable(path, rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping rates from %s: %w", path, err)
	}
	logger.Info("Shipping rate table loaded", "path", path)
	return table, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
