package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"autoform/internal/logger"
)

// DocumentAIConfig holds configuration for the Document AI OCR processor.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the Document AI OCR processor ID.
	ProcessorID string

	// Timeout is the maximum time to wait for processing. Default: 60s.
	Timeout time.Duration
}

// DocumentAIService implements Service for PDFs using a Google Document AI
// OCR processor.
type DocumentAIService struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIService creates the service with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID
// Optional: GOOGLE_CLOUD_LOCATION (defaults to "us")
func NewDocumentAIService(ctx context.Context) (Service, error) {
	const op = "NewDocumentAIService"

	config := DocumentAIConfig{
		ProjectID:   getEnvVar("GOOGLE_CLOUD_PROJECT", "GOOGLE_PROJECT_ID"),
		Location:    getEnvVar("GOOGLE_CLOUD_LOCATION", "GOOGLE_LOCATION"),
		ProcessorID: getEnvVar("DOCUMENT_AI_PROCESSOR_ID", "GOOGLE_PROCESSOR_ID"),
		Timeout:     60 * time.Second,
	}

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrOCRFailed, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for non-us locations
	if config.Location != "" && config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIService{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIServiceWithConfig creates the service with explicit config and client (for testing).
func NewDocumentAIServiceWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) Service {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &DocumentAIService{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// ExtractText runs the PDF through the Document AI OCR processor.
func (s *DocumentAIService) ExtractText(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	const op = "DocumentAIService.ExtractText"
	startTime := time.Now()

	if len(data) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(data)))
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, WrapOCRError(op, ErrInvalidDocument, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: s.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "application/pdf",
			},
		},
	}

	resp, err := s.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, s.handleProcessingError(op, err)
	}

	if resp.Document == nil {
		return nil, WrapOCRError(op, ErrOCRFailed, "no document in response")
	}

	text := resp.Document.Text
	if strings.TrimSpace(text) == "" {
		return nil, WrapOCRError(op, ErrEmptyDocument, "")
	}

	result := &Result{
		Text:       text,
		PageCount:  len(resp.Document.Pages),
		Confidence: averagePageConfidence(resp.Document),
	}
	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	s.log.Info().
		Int("page_count", result.PageCount).
		Float32("confidence", result.Confidence).
		Int("text_length", len(result.Text)).
		Dur("duration", result.ProcessingDuration).
		Msg("Document AI OCR completed")

	return result, nil
}

// processorName constructs the full processor name for the Document AI API.
func (s *DocumentAIService) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		s.config.ProjectID, s.config.Location, s.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to OCR errors.
func (s *DocumentAIService) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapOCRError(op, ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("processor not found: %s", s.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapOCRError(op, ErrInvalidDocument, "document format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// averagePageConfidence averages the detected-language confidences across pages.
func averagePageConfidence(doc *documentaipb.Document) float32 {
	var sum float32
	var count int
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			if lang.Confidence > 0 {
				sum += lang.Confidence
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float32(count)
}

// getEnvVar tries multiple environment variable names and returns the first non-empty value
func getEnvVar(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

// Close closes the underlying Document AI client.
func (s *DocumentAIService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
