package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"autoform/internal/config"
	"autoform/internal/extraction"
	"autoform/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract form data from a passport and/or a Form G-28",
	Long: `Process a passport and a completed Form G-28 and extract the data needed
to fill the online form, printed as JSON. Either document may be omitted;
at least one is required.

The default backend uploads the documents to Gemini and asks for structured
output in one multimodal call. The alternative "ocr" backend runs Google
Cloud OCR first and maps the raw text with an OpenAI chat completion.

Required environment variables (gemini backend):
  GOOGLE_AI_API_KEY - Google AI Studio API key

Required environment variables (ocr backend):
  OPENAI_API_KEY - OpenAI API key
  GOOGLE_CLOUD_PROJECT - Google Cloud project ID
  DOCUMENT_AI_PROCESSOR_ID - Document AI OCR processor`,
	Example: `  # Extract from both documents to stdout
  autoform extract --passport passport.pdf --g28 g28.pdf

  # Passport only, saved to a file
  autoform extract --passport passport.jpg -o data.json

  # Use the OCR backend
  autoform extract --passport passport.pdf --g28 g28.pdf --backend ocr`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("passport", "", "Passport file (PDF, JPG, or PNG)")
	extractCmd.Flags().String("g28", "", "Completed Form G-28 file (PDF, JPG, or PNG)")
	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().String("backend", "", "Extraction backend: gemini or ocr (default: EXTRACTION_BACKEND)")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	passportPath, _ := cmd.Flags().GetString("passport")
	g28Path, _ := cmd.Flags().GetString("g28")
	outputPath, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("backend")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if passportPath == "" && g28Path == "" {
		return fmt.Errorf("provide at least one document with --passport or --g28")
	}

	if backend != "" {
		os.Setenv("EXTRACTION_BACKEND", backend)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info().
		Str("passport", passportPath).
		Str("g28", g28Path).
		Str("backend", cfg.ExtractionBackend).
		Int("timeout", timeoutSecs).
		Msg("Starting document extraction")

	paths := map[string]string{
		extraction.KindPassport: passportPath,
		extraction.KindG28:      g28Path,
	}
	docs := make([]extraction.Document, 0, 2)
	for _, kind := range []string{extraction.KindPassport, extraction.KindG28} {
		if paths[kind] == "" {
			continue
		}
		doc, err := loadDocument(kind, paths[kind], log)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	extractor, err := buildExtractor(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create extractor")
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	startTime := time.Now()
	data, err := extractor.Extract(ctx, docs)
	if err != nil {
		return handleExtractionError(err, log)
	}

	log.Info().
		Int("fields_extracted", data.CountSet()).
		Dur("duration", time.Since(startTime)).
		Msg("Extraction completed successfully")

	outputData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Extracted data written to file")
	} else {
		fmt.Println(string(outputData))
	}

	return nil
}

// loadDocument reads and validates one document file.
func loadDocument(kind, path string, log zerolog.Logger) (extraction.Document, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Document file not found")
			return extraction.Document{}, fmt.Errorf("%s file not found: %s", kind, path)
		}
		return extraction.Document{}, fmt.Errorf("error accessing %s file: %w", kind, err)
	}

	if fileInfo.Size() == 0 {
		log.Error().Str("file", path).Msg("Document file is empty")
		return extraction.Document{}, fmt.Errorf("%s file is empty: %s", kind, path)
	}
	if fileInfo.Size() > extraction.MaxDocumentSizeBytes {
		log.Error().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Msg("Document file exceeds maximum size limit")
		return extraction.Document{}, fmt.Errorf("%s file too large (%d bytes). Maximum size is %d bytes (20MB)",
			kind, fileInfo.Size(), extraction.MaxDocumentSizeBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return extraction.Document{}, fmt.Errorf("failed to read %s file: %w", kind, err)
	}

	return extraction.Document{
		Kind: kind,
		Name: filepath.Base(path),
		MIME: extraction.DetectMIME(path, data),
		Data: data,
	}, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleExtractionError provides user-friendly error messages for extraction failures
func handleExtractionError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Extraction failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("extraction timed out. Try increasing --timeout or processing smaller files")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("extraction was canceled")
	case errors.Is(err, extraction.ErrDocumentTooLarge):
		return fmt.Errorf("document is too large (maximum 20MB). Try compressing the file")
	case errors.Is(err, extraction.ErrUnsupportedFormat):
		return fmt.Errorf("unsupported document format. Use PDF, JPG, or PNG files")
	case errors.Is(err, extraction.ErrInvalidDocument):
		return fmt.Errorf("invalid or corrupted document file. Please check the file integrity")
	case errors.Is(err, extraction.ErrMissingAPIKey):
		return fmt.Errorf("API key not configured. Set GOOGLE_AI_API_KEY (gemini backend) or OPENAI_API_KEY (ocr backend)")
	case errors.Is(err, extraction.ErrFileProcessingFailed):
		return fmt.Errorf("the AI service could not process an uploaded document. The file may be corrupted or in an unsupported format")
	case errors.Is(err, extraction.ErrInvalidResponse):
		return fmt.Errorf("the AI model returned an unreadable response. Try again or switch backends with --backend")
	case strings.Contains(errStr, "API_KEY_INVALID") ||
		strings.Contains(errStr, "API key not valid") ||
		strings.Contains(errStr, "invalid api key"):
		return fmt.Errorf("invalid API key. Please check your GOOGLE_AI_API_KEY or OPENAI_API_KEY")
	case strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate limit"):
		return fmt.Errorf("API quota exceeded. Wait a moment and try again, or check your plan limits")
	case errors.Is(err, extraction.ErrExtractionFailed):
		return fmt.Errorf("extraction failed. This may be due to network issues or service unavailability: %w", err)
	default:
		return fmt.Errorf("extraction failed: %w", err)
	}
}
