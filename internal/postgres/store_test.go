package postgres

import (
	"context"
	"testing"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalConversions(t *testing.T) {
	tests := []string{"0", "40.00", "32.5", "0.2", "1234567.8912", "-3.75"}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)
			back, err := decimalFromNumeric(numericFromDecimal(d))
			require.NoError(t, err)
			assert.True(t, d.Equal(back), "%s != %s", d, back)
		})
	}

	t.Run("null base price", func(t *testing.T) {
		p, err := decimalPtrFromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		_, err := decimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
		assert.Error(t, err)
	})
}

func TestStore_GetCompany(t *testing.T) {
	db := newFakeDB()
	db.rows["FROM companies"] = fakeRow{values: []any{
		"dist-de", "Berlin Tools", "distributor", "DE123456789", "DE",
		"Hauptstr. 1", "", "Berlin", "", "10115",
	}}
	store := NewStore(db)

	c, err := store.GetCompany(context.Background(), "dist-de")
	require.NoError(t, err)

	assert.Equal(t, domain.CompanyTypeDistributor, c.Type)
	assert.Equal(t, "DE123456789", c.VATNumber)
	assert.Equal(t, "10115", c.BillingAddress.PostalCode)
	assert.Equal(t, "DE", c.BillingAddress.Country)
	assert.Equal(t, []any{"dist-de"}, db.calls[0].args)
}

func TestStore_GetCompany_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		_, err := NewStore(newFakeDB()).GetCompany(context.Background(), "ghost")
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("driver failure", func(t *testing.T) {
		db := newFakeDB()
		db.rows["FROM companies"] = fakeRow{err: errConnReset}
		_, err := NewStore(db).GetCompany(context.Background(), "c-1")
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
		assert.ErrorIs(t, err, errConnReset)
	})

	t.Run("unknown type", func(t *testing.T) {
		db := newFakeDB()
		db.rows["FROM companies"] = fakeRow{values: []any{"c-1", "X", "reseller", "", "GB", "", "", "", "", ""}}
		_, err := NewStore(db).GetCompany(context.Background(), "c-1")
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	})
}

func TestStore_GetProduct(t *testing.T) {
	t.Run("with base price", func(t *testing.T) {
		db := newFakeDB()
		db.rows["FROM products"] = fakeRow{values: []any{"GUIL-01", "Guillotine", "cutters", "tool", true, num("40.00"), "GBP"}}

		p, err := NewStore(db).GetProduct(context.Background(), "GUIL-01")
		require.NoError(t, err)
		require.True(t, p.HasBasePrice())
		assert.True(t, decimal.RequireFromString("40").Equal(*p.BasePrice))
		assert.Equal(t, domain.ProductTypeTool, p.Type)
	})

	t.Run("without base price", func(t *testing.T) {
		db := newFakeDB()
		db.rows["FROM products"] = fakeRow{values: []any{"NOPRICE", "Sample", "", "other", true, pgtype.Numeric{}, "GBP"}}

		p, err := NewStore(db).GetProduct(context.Background(), "NOPRICE")
		require.NoError(t, err)
		assert.False(t, p.HasBasePrice())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := NewStore(newFakeDB()).GetProduct(context.Background(), "NOPE")
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})
}

func TestStore_ListActiveProducts(t *testing.T) {
	db := newFakeDB()
	db.multi["WHERE active"] = &fakeRows{rows: [][]any{
		{"BLADE-10", "Blade pack", "", "consumable", true, num("5.00"), "GBP"},
		{"GUIL-01", "Guillotine", "", "tool", true, num("40.00"), "GBP"},
	}}

	products, err := NewStore(db).ListActiveProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "BLADE-10", products[0].Code)
	assert.Equal(t, "GUIL-01", products[1].Code)
}

func TestStore_PriceOverrides(t *testing.T) {
	db := newFakeDB()
	db.rows["FROM distributor_prices"] = fakeRow{values: []any{num("32.00")}}
	db.rows["FROM company_custom_prices"] = fakeRow{values: []any{num("29.50")}}
	store := NewStore(db)
	ctx := context.Background()

	std, err := store.GetDistributorPrice(ctx, "GUIL-01")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("32").Equal(std.Price))

	custom, err := store.GetCustomPrice(ctx, "dist-de", "GUIL-01")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("29.50").Equal(custom.Price))
	assert.Equal(t, "dist-de", custom.CompanyID)

	_, err = NewStore(newFakeDB()).GetCustomPrice(ctx, "dist-de", "GUIL-01")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestStore_DrivesPriceResolver(t *testing.T) {
	db := newFakeDB()
	db.rows["FROM products"] = fakeRow{values: []any{"GUIL-01", "Guillotine", "", "tool", true, num("40.00"), "GBP"}}
	db.rows["FROM distributor_prices"] = fakeRow{values: []any{num("32.00")}}

	resolver := pricing.NewResolver(NewStore(db))

	customer, err := resolver.ResolveUnitPrice(context.Background(), "cust-gb", domain.CompanyTypeCustomer, "GUIL-01")
	require.NoError(t, err)
	assert.Equal(t, domain.PriceSourceBase, customer.Source)

	distributor, err := resolver.ResolveUnitPrice(context.Background(), "dist-de", domain.CompanyTypeDistributor, "GUIL-01")
	require.NoError(t, err)
	assert.Equal(t, domain.PriceSourceStandard, distributor.Source)
	assert.True(t, decimal.RequireFromString("32").Equal(distributor.UnitPrice))
}
