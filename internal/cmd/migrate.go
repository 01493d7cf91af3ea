package cmd

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/tradedesk/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrationDB(cmd, internal.RunMigrations)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrationDB(cmd, internal.MigrationStatus)
		},
	})
	return cmd
}

func withMigrationDB(cmd *cobra.Command, fn func(*sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := fn(db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations OK")
	return nil
}
