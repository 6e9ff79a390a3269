package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"faxfhir/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate processing statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	repo, err := buildRepo()
	if err != nil {
		return err
	}

	stats, err := service.NewStatsService(repo).GetStats(cmd.Context())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
