package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		companyID string
		lines     []string
		shipTo    string
		fixtures  string
		rates     string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an order for a company",
		Long: `Quote prices each line for the company, estimates shipping to the
destination, applies VAT and prints the breakdown. Nothing is stored.

Example:
  tradectl quote --company dist-de --line GUIL-01=2 --line BLADE-10=10 --ship-to DE \
    --fixtures config/fixtures.yaml --rates config/shipping_rates.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd)

			requests, err := parseLines(lines)
			if err != nil {
				return err
			}

			rules, err := tax.NewRules(cfg.VAT.HomeCountry, cfg.VAT.StandardRate)
			if err != nil {
				return fmt.Errorf("failed to build VAT rules: %w", err)
			}

			if rates == "" {
				rates = cfg.Shipping.RatesFile
			}
			estimator, err := loadEstimator(rates, rules)
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(ctx, cfg, fixtures)
			if err != nil {
				return err
			}
			defer closeStore()

			resolver := pricing.NewResolver(store, pricing.WithLogger(logger))
			quotes := service.NewQuoteService(store, resolver, estimator, tax.NewVATResolver(rules),
				service.WithQuoteLogger(logger),
				service.WithCurrency(cfg.Currency),
			)

			quote, err := quotes.QuoteForCompany(ctx, companyID, requests, shipTo)
			if err != nil {
				return err
			}

			return printQuote(cmd, quote)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID (required)")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "Order line as CODE=QTY, repeatable (required)")
	cmd.Flags().StringVar(&shipTo, "ship-to", "", "Destination country code (required)")
	cmd.Flags().StringVar(&fixtures, "fixtures", "", "Read the catalog from a fixtures file instead of the database")
	cmd.Flags().StringVar(&rates, "rates", "", "Shipping rate table file (defaults to SHIPPING_RATES_FILE)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("ship-to")
	return cmd
}

// parseLines turns CODE=QTY flags into line requests. Quantities are not
// range-checked here; the quote service reports bad ones per line.
func parseLines(raw []string) ([]domain.LineRequest, error) {
	requests := make([]domain.LineRequest, 0, len(raw))
	for _, r := range raw {
		code, qty, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --line %q: expected CODE=QTY", r)
		}
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("invalid --line %q: quantity must be a whole number", r)
		}
		requests = append(requests, domain.LineRequest{
			ProductCode: strings.TrimSpace(code),
			Quantity:    n,
		})
	}
	return requests, nil
}

func printQuote(cmd *cobra.Command, q *service.Quote) error {
	money := newMoneyFormatter(q.Currency)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Quote for %s shipped to %s (%s)\n\n", q.CompanyID, q.Destination, q.Region)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tQTY\tUNIT PRICE\tSOURCE\tLINE TOTAL\t")
	for _, l := range q.Lines {
		source := string(l.PriceSource)
		if l.PriceDefaulted {
			source += " (no price)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t\n",
			l.ProductCode, l.Quantity, money.Format(l.UnitPrice), source, money.Format(l.LineTotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	shippingNote := q.ShippingRule
	if !q.ShippingMatched {
		shippingNote = "no rate matched, default"
	}

	t := q.Totals
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Subtotal:  %s\n", money.Format(t.Subtotal))
	fmt.Fprintf(out, "Shipping:  %s (%s)\n", money.Format(t.PredictedShipping), shippingNote)
	if t.Exempt() {
		fmt.Fprintf(out, "VAT:       %s (%s)\n", money.Format(t.VATAmount), t.VATExemptReason)
	} else {
		fmt.Fprintf(out, "VAT:       %s @ %s\n", money.Format(t.VATAmount), money.Rate(t.VATRate))
	}
	fmt.Fprintf(out, "Total:     %s\n", money.Format(t.Total))
	return nil
}
