package pricing

import (
	"context"

	"github.com/dukerupert/tradedesk/internal/domain"
)

// Store supplies the read-only rows the resolver walks. Lookups that find
// nothing return an error with code domain.ENOTFOUND; any other error is
// treated as a storage failure.
type Store interface {
	// GetProduct returns the catalog product for code.
	GetProduct(ctx context.Context, code string) (*domain.Product, error)

	// GetDistributorPrice returns the distributor standard price for code.
	GetDistributorPrice(ctx context.Context, code string) (*domain.DistributorPrice, error)

	// GetCustomPrice returns the negotiated price for (companyID, code).
	GetCustomPrice(ctx context.Context, companyID, code string) (*domain.CustomPrice, error)
}
