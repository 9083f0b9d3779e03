// cmd/api/migrate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "auction-listings/internal"
	"auction-listings/pkg/db"
)

var printOnly bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long:  `Applies the embedded schema. Every statement is idempotent, so running it twice is safe.`,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if printOnly {
		_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema())
		return err
	}

	ctx := cmd.Context()
	application := app.NewApplication()
	if err := application.InitializeDatabase(ctx); err != nil {
		return err
	}
	defer func() { _ = application.Shutdown(ctx) }()

	if err := db.Migrate(ctx, application.DB); err != nil {
		return err
	}
	application.Logger.Info("Database schema applied")
	return nil
}
