package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fixturesPath = "../../config/fixtures.yaml"
	ratesPath    = "../../config/shipping_rates.yaml"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "CURRENCY", "VAT_HOME_COUNTRY", "VAT_STANDARD_RATE",
		"SHIPPING_RATES_FILE", "STRIPE_ENABLED", "STRIPE_SECRET_KEY",
	} {
		t.Setenv(key, "")
	}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassifyCmd(t *testing.T) {
	out, err := runCmd(t, "classify", "uk", "DE", "el", "US")
	require.NoError(t, err)

	assert.Regexp(t, `uk\s+GB\s+domestic`, out)
	assert.Regexp(t, `DE\s+DE\s+eu`, out)
	assert.Regexp(t, `el\s+GR\s+eu`, out)
	assert.Regexp(t, `US\s+US\s+row`, out)
}

func TestClassifyCmd_RequiresCountry(t *testing.T) {
	_, err := runCmd(t, "classify")
	assert.Error(t, err)
}

func TestVATCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "eu without vat number",
			args: []string{"vat", "--country", "FR", "--amount", "100"},
			want: []string{"Treatment: charged", "VAT:       GBP 20.00 @ 20%", "Total:     GBP 120.00"},
		},
		{
			name: "eu reverse charge",
			args: []string{"vat", "--country", "FR", "--vat-number", "FR123", "--amount", "100"},
			want: []string{"Treatment: reverse_charge", "Reason:    EU Reverse Charge", "Total:     GBP 100.00"},
		},
		{
			name: "export",
			args: []string{"vat", "--country", "US", "--amount", "1234.5"},
			want: []string{"Country:   US (row)", "Reason:    Export", "Taxable:   GBP 1,234.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestVATCmd_Errors(t *testing.T) {
	_, err := runCmd(t, "vat", "--country", "GB", "--amount", "ten")
	assert.Error(t, err)

	_, err = runCmd(t, "vat", "--country", "GB", "--amount", "-5")
	assert.Error(t, err)

	_, err = runCmd(t, "vat", "--amount", "5")
	assert.Error(t, err, "--country is required")
}

func TestQuoteCmd_FromFixtures(t *testing.T) {
	out, err := runCmd(t, "quote",
		"--company", "dist-de",
		"--line", "GUIL-01=2",
		"--line", "BLADE-10=10",
		"--ship-to", "de",
		"--fixtures", fixturesPath,
		"--rates", ratesPath,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Quote for dist-de shipped to DE (eu)")
	assert.Regexp(t, `GUIL-01\s+2\s+GBP 32.00\s+STANDARD\s+GBP 64.00`, out)
	assert.Regexp(t, `BLADE-10\s+10\s+GBP 3.50\s+CUSTOM\s+GBP 35.00`, out)
	assert.Contains(t, out, "Subtotal:  GBP 99.00")
	assert.Contains(t, out, "Shipping:  GBP 25.00 (region:eu)")
	assert.Contains(t, out, "VAT:       GBP 0.00 (EU Reverse Charge)")
	assert.Contains(t, out, "Total:     GBP 124.00")
}

func TestQuoteCmd_DomesticCustomer(t *testing.T) {
	out, err := runCmd(t, "quote",
		"--company", "cust-gb",
		"--line", "GUIL-01=2",
		"--ship-to", "GB",
		"--fixtures", fixturesPath,
		"--rates", ratesPath,
	)
	require.NoError(t, err)

	// 80.00 + 8.95 shipping = 88.95 taxable, VAT 17.79
	assert.Contains(t, out, "Subtotal:  GBP 80.00")
	assert.Contains(t, out, "Shipping:  GBP 8.95 (region:domestic)")
	assert.Contains(t, out, "VAT:       GBP 17.79 @ 20%")
	assert.Contains(t, out, "Total:     GBP 106.74")
}

func TestQuoteCmd_InvalidQuantity(t *testing.T) {
	_, err := runCmd(t, "quote",
		"--company", "cust-gb",
		"--line", "GUIL-01=0",
		"--ship-to", "GB",
		"--fixtures", fixturesPath,
	)
	require.Error(t, err)

	assert.True(t, domain.IsCode(err, domain.EINVALID))
	assert.Equal(t, "line 1 (GUIL-01): Quantity must be greater than 0", errorText(err))
}

func TestQuoteCmd_UnknownCompany(t *testing.T) {
	_, err := runCmd(t, "quote",
		"--company", "ghost",
		"--line", "GUIL-01=1",
		"--ship-to", "GB",
		"--fixtures", fixturesPath,
	)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestCatalogCmd(t *testing.T) {
	out, err := runCmd(t, "catalog", "--company", "dist-de", "--fixtures", fixturesPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Prices for Berlin Tools GmbH (distributor)")
	assert.Regexp(t, `BLADE-10\s+Replacement blade pack\s+GBP 3.50\s+CUSTOM`, out)
	assert.Regexp(t, `GUIL-01\s+Guillotine\s+GBP 32.00\s+STANDARD`, out)
	assert.Regexp(t, `SAMPLE-01\s+Sample kit\s+GBP 0.00\s+BASE`, out)
}

func TestParseLines(t *testing.T) {
	lines, err := parseLines([]string{"GUIL-01=2", " BLADE-10 = 10"})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, domain.LineRequest{ProductCode: "GUIL-01", Quantity: 2}, lines[0])
	assert.Equal(t, domain.LineRequest{ProductCode: "BLADE-10", Quantity: 10}, lines[1])

	for _, bad := range []string{"GUIL-01", "GUIL-01=two", "GUIL-01=1.5"} {
		_, err := parseLines([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestLoadFixtures(t *testing.T) {
	store, err := loadFixtures(fixturesPath, "GBP")
	require.NoError(t, err)

	ctx := context.Background()
	company, err := store.GetCompany(ctx, "dist-de")
	require.NoError(t, err)
	assert.Equal(t, domain.CompanyTypeDistributor, company.Type)
	assert.Equal(t, "DE123456789", company.VATNumber)

	product, err := store.GetProduct(ctx, "SAMPLE-01")
	require.NoError(t, err)
	assert.False(t, product.HasBasePrice())

	custom, err := store.GetCustomPrice(ctx, "dist-de", "BLADE-10")
	require.NoError(t, err)
	require.NotNil(t, custom)
	assert.True(t, custom.Price.Equal(decimal.RequireFromString("3.50")))
}

func TestMoneyFormatter(t *testing.T) {
	m := newMoneyFormatter("GBP")

	assert.Equal(t, "GBP 0.00", m.Format(decimal.Zero))
	assert.Equal(t, "GBP 1,234.50", m.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "GBP 0.01", m.Format(decimal.RequireFromString("0.005")))
	assert.Equal(t, "GBP -1,000.00", m.Format(decimal.RequireFromString("-1000")))
	// 2^53 + 1 has no exact float64 form.
	assert.Equal(t, "GBP 9,007,199,254,740,993.01", m.Format(decimal.RequireFromString("9007199254740993.01")))
	assert.Equal(t, "GBP 12,345,678,901,234,567,890.99", m.Format(decimal.RequireFromString("12345678901234567890.99")))
	assert.Equal(t, "GBP -12,345,678,901,234,567,890.00", m.Format(decimal.RequireFromString("-12345678901234567890")))
	assert.Equal(t, "20%", m.Rate(decimal.RequireFromString("0.20")))
	assert.Equal(t, "17.5%", m.Rate(decimal.RequireFromString("0.175")))
}
