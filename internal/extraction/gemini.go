package extraction

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"autoform/internal/logger"
	"autoform/pkg/models"
)

// GeminiConfig configures the Gemini extraction backend.
type GeminiConfig struct {
	// Model is the Gemini model name.
	Model string

	// PollInterval is how often uploaded files are polled while processing.
	// Default: 2 seconds.
	PollInterval time.Duration

	// UploadTimeout bounds the wait for one uploaded file to become active.
	// Default: 2 minutes.
	UploadTimeout time.Duration
}

// DefaultGeminiConfig returns a GeminiConfig with sensible defaults.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:         "gemini-3-flash-preview",
		PollInterval:  2 * time.Second,
		UploadTimeout: 2 * time.Minute,
	}
}

// GeminiExtractor implements Extractor with a single multimodal Gemini call:
// documents are uploaded via the Files API and the generation is constrained
// to JSON matching the field registry schema.
type GeminiExtractor struct {
	client *genai.Client
	config GeminiConfig
	log    zerolog.Logger
}

// NewGeminiExtractor creates the extractor with the API key from environment.
// Expects: GOOGLE_AI_API_KEY
// Optional: GEMINI_MODEL
func NewGeminiExtractor(ctx context.Context) (*GeminiExtractor, error) {
	const op = "NewGeminiExtractor"

	apiKey := os.Getenv("GOOGLE_AI_API_KEY")
	if apiKey == "" {
		return nil, WrapExtractionError(op, ErrMissingAPIKey, "GOOGLE_AI_API_KEY environment variable not set")
	}

	config := DefaultGeminiConfig()
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.Model = model
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to create Gemini client")
	}

	return NewGeminiExtractorWithClient(client, config), nil
}

// NewGeminiExtractorWithClient creates the extractor with an explicit client (for testing).
func NewGeminiExtractorWithClient(client *genai.Client, config GeminiConfig) *GeminiExtractor {
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = 2 * time.Minute
	}
	return &GeminiExtractor{
		client: client,
		config: config,
		log:    logger.WithComponent("gemini-extractor"),
	}
}

// Extract uploads the documents and runs the structured extraction call.
func (e *GeminiExtractor) Extract(ctx context.Context, docs []Document) (*models.FormA28Data, error) {
	const op = "GeminiExtractor.Extract"

	if err := validateDocuments(op, docs); err != nil {
		return nil, err
	}

	e.log.Info().
		Int("documents", len(docs)).
		Str("model", e.config.Model).
		Msg("Starting Gemini extraction")

	parts := make([]*genai.Part, 0, len(docs)+1)
	for _, doc := range docs {
		file, err := e.uploadDocument(ctx, doc)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromURI(file.URI, file.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(extractionPrompt()))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := e.client.Models.GenerateContent(ctx, e.config.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		Temperature:      genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("Gemini request failed: %v", err))
	}

	data, err := decodeFormData(resp.Text())
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Int("fields_extracted", data.CountSet()).
		Msg("Gemini extraction completed")

	return data, nil
}

// uploadDocument pushes one document through the Files API and waits until it
// leaves the PROCESSING state.
func (e *GeminiExtractor) uploadDocument(ctx context.Context, doc Document) (*genai.File, error) {
	const op = "uploadDocument"

	e.log.Debug().
		Str("kind", doc.Kind).
		Str("name", doc.Name).
		Str("mime", doc.MIME).
		Int("size", len(doc.Data)).
		Msg("Uploading document to Gemini")

	file, err := e.client.Files.Upload(ctx, bytes.NewReader(doc.Data), &genai.UploadFileConfig{
		MIMEType:    doc.MIME,
		DisplayName: doc.Name,
	})
	if err != nil {
		return nil, WrapExtractionError(op, ErrUploadFailed, fmt.Sprintf("%s: %v", doc.Name, err))
	}

	deadline := time.Now().Add(e.config.UploadTimeout)
	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, WrapExtractionError(op, ErrUploadFailed, fmt.Sprintf("%s: timed out waiting for processing", doc.Name))
		}
		select {
		case <-ctx.Done():
			return nil, WrapExtractionError(op, ctx.Err(), doc.Name)
		case <-time.After(e.config.PollInterval):
		}

		file, err = e.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, WrapExtractionError(op, ErrUploadFailed, fmt.Sprintf("%s: poll failed: %v", doc.Name, err))
		}
	}

	if file.State == genai.FileStateFailed {
		return nil, WrapExtractionError(op, ErrFileProcessingFailed, doc.Name)
	}

	e.log.Debug().
		Str("name", doc.Name).
		Str("file", file.Name).
		Msg("Document uploaded")

	return file, nil
}

// responseSchema builds the JSON response schema from the field registry:
// one nullable string property per form field.
func responseSchema() *genai.Schema {
	fields := models.Fields()
	props := make(map[string]*genai.Schema, len(fields))
	for _, field := range fields {
		props[field.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: field.Description,
			Nullable:    genai.Ptr(true),
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
	}
}
