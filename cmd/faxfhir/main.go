package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"faxfhir/internal/config"
	"faxfhir/internal/logger"
)

func main() {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	Execute()
}
