package cmd

import (
	"context"
	"fmt"

	"github.com/dukerupert/tradedesk/internal"
	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/postgres"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/dukerupert/tradedesk/internal/shipping"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/jackc/pgx/v5/pgxpool"
)

// catalogStore is everything the pricing commands read.
// postgres.Store and pricing.MemoryStore implement it.
type catalogStore interface {
	pricing.Store
	service.CompanyStore
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
}

// openStore returns the fixtures store when fixtures is set, otherwise a
// Postgres store. The returned func releases the connection pool.
func openStore(ctx context.Context, cfg *internal.Config, fixtures string) (catalogStore, func(), error) {
	if fixtures != "" {
		store, err := loadFixtures(fixtures, cfg.Currency)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("database ping failed: %w", err)
	}
	return postgres.NewStore(pool), pool.Close, nil
}

// loadEstimator builds the shipping estimator from path. An empty path
// yields an empty table, so every destination uses the default cost.
func loadEstimator(path string, rules *tax.Rules) (shipping.Estimator, error) {
	if path == "" {
		return shipping.NewRateTable(rules, shipping.RateTableConfig{})
	}
	return shipping.LoadRateTable(path, rules)
}
