package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"faxfhir/internal/domain"
	"faxfhir/internal/service"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir or files...]",
	Short: "Process a batch of fax documents concurrently",
	Long: `Process multiple documents through the pipeline with a worker pool.
A single directory argument expands to every supported document inside it.
Results are printed as a JSON array once all documents finish.`,
	Example: `  # Process every supported document in a directory with 4 workers
  faxfhir batch ./inbox --concurrency 4

  # Process specific files and keep outputs
  faxfhir batch a.pdf b.pdf --store`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("concurrency", "c", 0, "Worker count (0 uses the configured default)")
	batchCmd.Flags().Bool("store", false, "Keep output bundles on disk and in the archive")
}

func runBatch(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	store, _ := cmd.Flags().GetBool("store")

	paths, err := expandBatchArgs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported documents found")
	}

	processor, err := buildProcessor(cmd.Context())
	if err != nil {
		return err
	}

	results := processor.ProcessBatch(cmd.Context(), paths, concurrency, service.Options{StoreData: store})

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	fmt.Println(string(out))

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	fmt.Fprintf(os.Stderr, "processed %d documents, %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

// expandBatchArgs turns a single directory argument into the supported
// documents it contains; explicit file arguments pass through unchanged.
func expandBatchArgs(args []string) ([]string, error) {
	if len(args) != 1 {
		return args, nil
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return args, nil
	}

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		if _, ok := domain.AllowedExtensions[ext]; ok {
			paths = append(paths, filepath.Join(args[0], entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
