package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"faxfhir/internal/config"
	"faxfhir/internal/email/noop"
	"faxfhir/internal/email/ses"
	"faxfhir/internal/ocr"
	"faxfhir/internal/port"
	"faxfhir/internal/repository/postgres"
	"faxfhir/internal/service"
	gcsstorage "faxfhir/internal/storage/gcs"
	s3storage "faxfhir/internal/storage/s3"
	"faxfhir/internal/structurer/register"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "faxfhir",
	Short: "Convert faxed referral documents into confidence-scored FHIR bundles",
	Long: `faxfhir runs scanned fax documents through OCR, structures the extracted
text into FHIR referral bundles, and scores each bundle's confidence so
low-quality conversions can be routed to manual review.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildProcessor wires the full pipeline from config. The repository is nil
// when no database is configured.
func buildProcessor(ctx context.Context) (*service.Processor, error) {
	storage, err := gcsstorage.NewClient(ctx, &cfg.GCS)
	if err != nil {
		return nil, fmt.Errorf("initializing GCS client: %w", err)
	}
	ocrClient, err := ocr.NewVisionClient(ctx, &cfg.GCS)
	if err != nil {
		return nil, fmt.Errorf("initializing Vision client: %w", err)
	}
	structurer, err := register.BuildChain(&cfg.Structurer)
	if err != nil {
		return nil, fmt.Errorf("building structurer chain: %w", err)
	}

	var archive port.ObjectStorage
	if cfg.Archive.Enabled() {
		archive, err = s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("initializing archive client: %w", err)
		}
	}

	var results port.ResultRepository
	if cfg.DB.Enabled() {
		db, dbErr := postgres.NewDB(&cfg.DB)
		if dbErr != nil {
			return nil, fmt.Errorf("connecting to database: %w", dbErr)
		}
		results = postgres.NewResultRepo(db)
	}

	var notifier port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		notifier, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return nil, fmt.Errorf("initializing SES sender: %w", err)
		}
	default:
		notifier = noop.NewNoopSender()
	}

	return service.NewProcessor(storage, archive, ocrClient, structurer, results, notifier, cfg), nil
}

// buildRepo connects to the configured database.
func buildRepo() (port.ResultRepository, error) {
	if !cfg.DB.Enabled() {
		return nil, fmt.Errorf("no database configured; set FAXFHIR_DB_HOST")
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return postgres.NewResultRepo(db), nil
}
