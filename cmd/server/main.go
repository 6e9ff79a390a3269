package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"faxfhir/internal/config"
	"faxfhir/internal/email/noop"
	"faxfhir/internal/email/ses"
	"faxfhir/internal/handler"
	"faxfhir/internal/logger"
	"faxfhir/internal/ocr"
	"faxfhir/internal/port"
	"faxfhir/internal/repository/postgres"
	"faxfhir/internal/router"
	"faxfhir/internal/service"
	gcsstorage "faxfhir/internal/storage/gcs"
	s3storage "faxfhir/internal/storage/s3"
	"faxfhir/internal/structurer/register"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	ctx := context.Background()

	// Persistence is optional; without a database the API still processes
	// documents but cannot list results or serve stats.
	var results port.ResultRepository
	healthH := handler.NewHealthHandler(nil)
	if cfg.DB.Enabled() {
		db, dbErr := postgres.NewDB(&cfg.DB)
		if dbErr != nil {
			return fmt.Errorf("failed to connect to database: %w", dbErr)
		}
		defer db.Close()
		results = postgres.NewResultRepo(db)
		healthH = handler.NewHealthHandler(db)
	}

	// Initialize storage and OCR
	storage, err := gcsstorage.NewClient(ctx, &cfg.GCS)
	if err != nil {
		return fmt.Errorf("failed to initialize GCS client: %w", err)
	}
	ocrClient, err := ocr.NewVisionClient(ctx, &cfg.GCS)
	if err != nil {
		return fmt.Errorf("failed to initialize Vision client: %w", err)
	}

	var archive port.ObjectStorage
	if cfg.Archive.Enabled() {
		archive, err = s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize archive client: %w", err)
		}
	}

	structurer, err := register.BuildChain(&cfg.Structurer)
	if err != nil {
		return fmt.Errorf("failed to build structurer chain: %w", err)
	}

	var notifier port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		notifier, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		notifier = noop.NewNoopSender()
	}

	// Initialize services
	processor := service.NewProcessor(storage, archive, ocrClient, structurer, results, notifier, cfg)
	authSvc := service.NewAuthService(cfg.Auth.APIKeys, cfg.JWT)
	statsSvc := service.NewStatsService(results)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	documentH := handler.NewDocumentHandler(processor, results)
	statsH := handler.NewStatsHandler(statsSvc)
	reportH := handler.NewReportHandler(results)

	r := router.Setup(cfg, authSvc, authH, documentH, statsH, reportH, healthH)

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
