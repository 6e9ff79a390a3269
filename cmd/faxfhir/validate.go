package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"faxfhir/internal/fhir"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bundle.json]",
	Short: "Check a FHIR bundle file for structural problems",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	problems := fhir.Validate(raw)
	if len(problems) == 0 {
		fmt.Println("bundle is valid")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, p)
	}
	os.Exit(1)
	return nil
}
