package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"faxfhir/internal/config"
	"faxfhir/internal/logger"
)

const usage = `Usage: migrate [up|down|steps N|version]

Applies the faxfhir result-store schema (processing_results).
Set FAXFHIR_MIGRATIONS_DIR to read migrations from a non-default path.`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}
	if !cfg.DB.Enabled() {
		log.Fatal().Msg("no database configured; set FAXFHIR_DB_HOST")
	}

	dir := os.Getenv("FAXFHIR_MIGRATIONS_DIR")
	if dir == "" {
		dir = "db/migrations"
	}

	m, err := migrate.New("file://"+dir, cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("failed to create migrate instance")
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("migration up failed")
		}
		log.Info().Msg("migrations applied")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("migration down failed")
		}
		log.Info().Msg("migrations reverted")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid steps argument")
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("migration steps failed")
		}
		log.Info().Int("steps", n).Msg("migration steps applied")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get version")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}
