package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"faxfhir/internal/port"
	"faxfhir/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export stored processing results as an XLSX workbook",
	Example: `  # Export the most recent 200 results
  faxfhir report --out results.xlsx --limit 200

  # Export only results waiting for review
  faxfhir report --out review.xlsx --needs-review=true`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("out", "o", "results.xlsx", "Output file path")
	reportCmd.Flags().Int("limit", 0, "Maximum rows (0 uses the server default)")
	reportCmd.Flags().String("needs-review", "", "Filter by review flag (true or false)")
}

func runReport(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	limit, _ := cmd.Flags().GetInt("limit")
	needsReviewRaw, _ := cmd.Flags().GetString("needs-review")

	filter := port.ResultFilter{Limit: limit}
	if needsReviewRaw != "" {
		v, err := strconv.ParseBool(needsReviewRaw)
		if err != nil {
			return fmt.Errorf("needs-review must be true or false")
		}
		filter.NeedsReview = &v
	}

	repo, err := buildRepo()
	if err != nil {
		return err
	}
	results, err := repo.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := report.WriteXLSX(f, results); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	fmt.Printf("wrote %d results to %s\n", len(results), outPath)
	return nil
}
