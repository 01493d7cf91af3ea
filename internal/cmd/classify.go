package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <country> [country...]",
		Short: "Show the VAT region of destination countries",
		Long: `Classify prints the VAT region (domestic, eu or row) each destination
falls into. Aliases such as UK and EL are normalised first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rules, err := tax.NewRules(cfg.VAT.HomeCountry, cfg.VAT.StandardRate)
			if err != nil {
				return fmt.Errorf("failed to build VAT rules: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INPUT\tCOUNTRY\tREGION")
			for _, arg := range args {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", arg, rules.Normalize(arg), rules.Classify(arg))
			}
			return tw.Flush()
		},
	}
}
