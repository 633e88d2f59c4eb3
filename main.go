package main

import (
	stdlog "log"

	"github.com/joho/godotenv"

	"autoform/cmd"
	"autoform/internal/config"
	"autoform/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: Could not load .env file: %v", err)
	}

	// Initialize logging. Config validation happens per command, so a failed
	// load here only falls back to the default logger config.
	cfg, err := config.Load()
	if err != nil {
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Info().Msg("Starting Autoform")

	cmd.Execute()
}
