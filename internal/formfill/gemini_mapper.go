package formfill

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"autoform/internal/logger"
)

// GeminiMapper implements CommandGenerator with a Gemini text call.
type GeminiMapper struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiMapper creates the mapper with the API key from environment.
// Expects: GOOGLE_AI_API_KEY
// Optional: GEMINI_MODEL
func NewGeminiMapper(ctx context.Context) (*GeminiMapper, error) {
	const op = "NewGeminiMapper"

	apiKey := os.Getenv("GOOGLE_AI_API_KEY")
	if apiKey == "" {
		return nil, NewFormFillError(op, ErrMappingFailed, "GOOGLE_AI_API_KEY environment variable not set")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, WrapFormFillError(op, err, "failed to create Gemini client")
	}

	return NewGeminiMapperWithClient(client, model), nil
}

// NewGeminiMapperWithClient creates the mapper with an explicit client (for testing).
func NewGeminiMapperWithClient(client *genai.Client, model string) *GeminiMapper {
	return &GeminiMapper{
		client: client,
		model:  model,
		log:    logger.WithComponent("gemini-mapper"),
	}
}

// GenerateCommands asks Gemini to map the fields to page selectors.
func (m *GeminiMapper) GenerateCommands(ctx context.Context, pageHTML string, fields map[string]string) ([]FillCommand, error) {
	const op = "GeminiMapper.GenerateCommands"

	contents := []*genai.Content{
		genai.NewContentFromText(mappingPrompt(pageHTML, fields), genai.RoleUser),
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return nil, NewFormFillError(op, ErrMappingFailed, fmt.Sprintf("Gemini request failed: %v", err))
	}

	commands, err := decodeCommands(resp.Text())
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Int("fields", len(fields)).
		Int("commands", len(commands)).
		Msg("Generated fill commands")

	return commands, nil
}
