package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/trogers1052/wine-investment-service/internal/catalog"
)

var copyPageSize int

var copyCatalogCmd = &cobra.Command{
	Use:   "copy-catalog",
	Short: "Copy the wine catalog from SOURCE_DATABASE_URL into the configured database",
	Long: `Copies every wine from the source database into the target, keeping ids.
Wines that already exist in the target are left as they are. The target schema
is migrated first and its id sequence is moved past the highest copied id.`,
	RunE: runCopyCatalog,
}

func init() {
	copyCatalogCmd.Flags().IntVar(&copyPageSize, "page-size", catalog.DefaultPageSize, "Rows read from the source per query")
}

func runCopyCatalog(cmd *cobra.Command, args []string) error {
	if cfg.SourceDatabase.URL == "" {
		return errors.New("SOURCE_DATABASE_URL is required for copy-catalog")
	}

	ctx, cancel := signalContext()
	defer cancel()

	source, err := openDB(cfg.SourceDatabase)
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer target.Close()

	if err := target.Migrate(ctx); err != nil {
		return err
	}

	_, err = catalog.NewCopier(source, target, copyPageSize, logger).Copy(ctx)
	return err
}
