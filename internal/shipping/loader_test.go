package shipping_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukerupert/tradedesk/internal/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRateTable_YAML(t *testing.T) {
	path := writeFile(t, "rates.yaml", `
countries:
  IE:
    - cost: "12.50"
    - min_subtotal: "500"
      cost: "0"
regions:
  domestic:
    - cost: "8.95"
  eu:
    - cost: 25
`)

	table, err := shipping.LoadRateTable(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, "12.50", table.Estimate(ctx, "IE", dec("100")).Cost.StringFixed(2))
	assert.Equal(t, "0.00", table.Estimate(ctx, "IE", dec("600")).Cost.StringFixed(2))
	assert.Equal(t, "8.95", table.Estimate(ctx, "GB", dec("10")).Cost.StringFixed(2))
	assert.Equal(t, "25.00", table.Estimate(ctx, "DE", dec("10")).Cost.StringFixed(2))
	assert.False(t, table.Estimate(ctx, "US", dec("10")).Matched)
}

func TestLoadRateTable_MissingFile(t *testing.T) {
	_, err := shipping.LoadRateTable(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadRateTable_RejectsNegativeCost(t *testing.T) {
	path := writeFile(t, "rates.yaml", `
regions:
  row:
    - cost: "-3"
`)

	_, err := shipping.LoadRateTable(path, nil)
	assert.ErrorIs(t, err, shipping.ErrNegativeCost)
}
