package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"autoform/internal/config"
	"autoform/internal/logger"
	"autoform/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local web UI",
	Long: `Start the local web server with the upload-extract-fill UI.

Open the printed address in a browser, upload a passport and a Form G-28,
review the extracted data, and fill the online form with one click.`,
	Example: `  # Serve on the default address (:8000)
  autoform serve

  # Serve on a specific address
  autoform serve --addr 127.0.0.1:9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ListenAddr = addr
	}

	ctx := cmd.Context()

	extractor, err := buildExtractor(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create extractor")
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	filler, err := buildFiller(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create form filler")
		return fmt.Errorf("failed to create form filler: %w", err)
	}

	srv := server.New(cfg.ListenAddr, extractor, filler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Autoform listening on %s\n", cfg.ListenAddr)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
