package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the wines table if needed and add the investment columns",
	Long: `Applies the embedded schema migrations. With --down the investment
columns are dropped again; the storefront's wines table is never removed.`,
	RunE: runMigrate,
}

var migrateDown bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the investment columns")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateDown {
		if err := db.MigrateDown(ctx); err != nil {
			return err
		}
		logger.Info("Investment columns rolled back")
		return nil
	}

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	version, dirty, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	logger.Info("Schema up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
