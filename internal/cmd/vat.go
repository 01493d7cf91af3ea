package cmd

import (
	"fmt"

	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newVATCmd() *cobra.Command {
	var (
		country   string
		vatNumber string
		amount    string
	)

	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Preview the VAT treatment of an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			taxable, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			rules, err := tax.NewRules(cfg.VAT.HomeCountry, cfg.VAT.StandardRate)
			if err != nil {
				return fmt.Errorf("failed to build VAT rules: %w", err)
			}

			res, err := tax.NewVATResolver(rules).Resolve(taxable, country, vatNumber)
			if err != nil {
				return err
			}

			money := newMoneyFormatter(cfg.Currency)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Country:   %s (%s)\n", rules.Normalize(country), res.Region)
			fmt.Fprintf(out, "Treatment: %s\n", service.VATTreatmentFor(res.ExemptReason))
			if res.Exempt() {
				fmt.Fprintf(out, "Reason:    %s\n", res.ExemptReason)
			}
			fmt.Fprintf(out, "Taxable:   %s\n", money.Format(taxable))
			fmt.Fprintf(out, "VAT:       %s @ %s\n", money.Format(res.Amount), money.Rate(res.Rate))
			fmt.Fprintf(out, "Total:     %s\n", money.Format(taxable.Add(res.Amount)))
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Destination country code (required)")
	cmd.Flags().StringVar(&vatNumber, "vat-number", "", "Buyer VAT registration number")
	cmd.Flags().StringVar(&amount, "amount", "", "Taxable amount: subtotal plus shipping (required)")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
