package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"faxfhir/internal/service"
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Process a single fax document",
	Long: `Run one document through the full pipeline and print the processing
result, including the annotated FHIR bundle, as JSON.`,
	Example: `  # Process a referral fax and keep the output bundle on disk
  faxfhir process referral.pdf --store

  # Process without retaining any artifacts
  faxfhir process referral.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Bool("store", false, "Keep the output bundle on disk and in the archive")
}

func runProcess(cmd *cobra.Command, args []string) error {
	store, _ := cmd.Flags().GetBool("store")

	processor, err := buildProcessor(cmd.Context())
	if err != nil {
		return err
	}

	result := processor.ProcessDocument(cmd.Context(), args[0], service.Options{StoreData: store})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
	return nil
}
