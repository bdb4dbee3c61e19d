package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

var reportTop int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the top investment-grade wines by score",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVarP(&reportTop, "top", "n", 5, "Number of wines to list")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	wines, err := db.TopInvestmentWines(ctx, reportTop)
	if err != nil {
		return err
	}
	writeTopWines(os.Stdout, wines)
	return nil
}

// writeReport prints the run summary followed by the top wines
func writeReport(w io.Writer, s models.BatchSummary, wines []*models.InvestmentWine) {
	fmt.Fprintf(w, "Run %s: %d wines, %d updated (%d investment grade, %d regular), %d skipped, %d failed in %s\n\n",
		s.RunID, s.Total, s.Updated, s.InvestmentGrade, s.Regular(), s.Skipped, s.Failed, s.Duration.Round(time.Millisecond))
	writeTopWines(w, wines)
}

func writeTopWines(w io.Writer, wines []*models.InvestmentWine) {
	if len(wines) == 0 {
		fmt.Fprintln(w, "No investment-grade wines found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREGION\tSCORE\t5Y RETURN\tSTORAGE")
	for _, wine := range wines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			wine.Name, wine.Region, nullDecimal(wine.InvestmentScore, ""), nullDecimal(wine.FiveYearReturn, "%"), wine.StorageType)
	}
	tw.Flush()
}

func nullDecimal(d decimal.NullDecimal, suffix string) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(1) + suffix
}
