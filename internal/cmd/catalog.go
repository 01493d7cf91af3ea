package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var (
		companyID string
		fixtures  string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every active product priced for a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(ctx, cfg, fixtures)
			if err != nil {
				return err
			}
			defer closeStore()

			company, err := store.GetCompany(ctx, companyID)
			if err != nil {
				return err
			}
			products, err := store.ListActiveProducts(ctx)
			if err != nil {
				return err
			}

			resolver := pricing.NewResolver(store, pricing.WithLogger(newLogger(cmd)))
			entries, err := resolver.ResolveCatalog(ctx, *company, products)
			if err != nil {
				return err
			}

			money := newMoneyFormatter(cfg.Currency)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prices for %s (%s)\n\n", company.Name, company.Type)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tUNIT PRICE\tSOURCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					e.Product.Code, e.Product.Name, money.Format(e.Resolution.UnitPrice), e.Resolution.Source)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID (required)")
	cmd.Flags().StringVar(&fixtures, "fixtures", "", "Read the catalog from a fixtures file instead of the database")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
