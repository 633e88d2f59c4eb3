package extraction

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"autoform/internal/logger"
	"autoform/internal/ocr"
	"autoform/pkg/models"
)

// TextConfig configures the OCR-then-chat-completion backend.
type TextConfig struct {
	Model       string  // OpenAI model name
	Temperature float32 // completion temperature
	MaxTokens   int     // completion token budget
}

// DefaultTextConfig returns a TextConfig with sensible defaults.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Model:       openai.GPT4oMini,
		Temperature: 0.1,
		MaxTokens:   2000,
	}
}

// TextExtractor implements Extractor by OCR'ing each document and asking an
// OpenAI chat completion to map the raw text to the form fields. It serves
// accounts without Gemini access.
type TextExtractor struct {
	ocrService   ocr.Service
	openaiClient *openai.Client
	config       TextConfig
	log          zerolog.Logger
}

// NewTextExtractor creates the extractor with dependencies from environment.
// Expects: OPENAI_API_KEY plus the Google Cloud OCR variables (see ocr package).
// Optional: OPENAI_MODEL
func NewTextExtractor(ctx context.Context) (*TextExtractor, error) {
	const op = "NewTextExtractor"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, WrapExtractionError(op, ErrMissingAPIKey, "OPENAI_API_KEY environment variable not set")
	}

	pdfOCR, err := ocr.NewDocumentAIService(ctx)
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to create Document AI service")
	}
	imageOCR, err := ocr.NewVisionService(ctx)
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to create Vision service")
	}

	config := DefaultTextConfig()
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.Model = model
	}

	router := &ocr.Router{PDF: pdfOCR, Image: imageOCR}
	return NewTextExtractorWithDeps(router, openai.NewClient(apiKey), config), nil
}

// NewTextExtractorWithDeps creates the extractor with explicit dependencies (for testing).
func NewTextExtractorWithDeps(ocrService ocr.Service, openaiClient *openai.Client, config TextConfig) *TextExtractor {
	return &TextExtractor{
		ocrService:   ocrService,
		openaiClient: openaiClient,
		config:       config,
		log:          logger.WithComponent("text-extractor"),
	}
}

// Extract OCRs the documents and maps the combined text to form fields.
func (e *TextExtractor) Extract(ctx context.Context, docs []Document) (*models.FormA28Data, error) {
	const op = "TextExtractor.Extract"

	if err := validateDocuments(op, docs); err != nil {
		return nil, err
	}

	texts := make(map[string]string, len(docs))
	for _, doc := range docs {
		result, err := e.ocrService.ExtractText(ctx, doc.Data, doc.MIME)
		if err != nil {
			return nil, WrapExtractionError(op, err, fmt.Sprintf("OCR failed for %s", doc.Name))
		}
		e.log.Info().
			Str("kind", doc.Kind).
			Str("name", doc.Name).
			Int("text_length", len(result.Text)).
			Float32("confidence", result.Confidence).
			Msg("OCR extraction completed")
		texts[doc.Kind] = result.Text
	}

	resp, err := e.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: textExtractionPrompt(texts),
			},
		},
		Temperature: e.config.Temperature,
		MaxTokens:   e.config.MaxTokens,
	})
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("OpenAI request failed: %v", err))
	}

	if len(resp.Choices) == 0 {
		return nil, WrapExtractionError(op, ErrInvalidResponse, "no response choices")
	}

	data, err := decodeFormData(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Int("fields_extracted", data.CountSet()).
		Msg("Text extraction completed")

	return data, nil
}
