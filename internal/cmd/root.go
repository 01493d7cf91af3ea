package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dukerupert/tradedesk/internal"
	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the tradectl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tradectl",
		Short: "tradectl - pricing and VAT tools for the trade desk",
		Long: `tradectl prices orders the same way the API does: company-specific
prices, distributor prices, shipping and UK VAT treatment.

Use it to check how a destination is classified for VAT, preview a quote
from the database or a fixtures file, and run database migrations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClassifyCmd(),
		newVATCmd(),
		newQuoteCmd(),
		newCatalogCmd(),
		newMigrateCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the user-facing message of domain errors. Internal
// errors are printed in full since the operator is the only reader.
func errorText(err error) string {
	if code := domain.ErrorCode(err); code != domain.EINTERNAL {
		return domain.ErrorMessage(err)
	}
	return err.Error()
}

// loadConfig reads configuration the same way the server does.
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes warnings and errors to stderr so command output stays clean.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return internal.NewLogger(cmd.ErrOrStderr(), "dev", "warn")
}
