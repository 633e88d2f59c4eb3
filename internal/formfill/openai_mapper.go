package formfill

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"autoform/internal/logger"
)

// OpenAIMapper implements CommandGenerator with an OpenAI chat completion.
// It serves deployments that route all LLM traffic through OpenAI.
type OpenAIMapper struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIMapper creates the mapper with the API key from environment.
// Expects: OPENAI_API_KEY
// Optional: OPENAI_MODEL
func NewOpenAIMapper() (*OpenAIMapper, error) {
	const op = "NewOpenAIMapper"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, NewFormFillError(op, ErrMappingFailed, "OPENAI_API_KEY environment variable not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	return NewOpenAIMapperWithClient(openai.NewClient(apiKey), model), nil
}

// NewOpenAIMapperWithClient creates the mapper with an explicit client (for testing).
func NewOpenAIMapperWithClient(client *openai.Client, model string) *OpenAIMapper {
	return &OpenAIMapper{
		client: client,
		model:  model,
		log:    logger.WithComponent("openai-mapper"),
	}
}

// GenerateCommands asks the model to map the fields to page selectors.
func (m *OpenAIMapper) GenerateCommands(ctx context.Context, pageHTML string, fields map[string]string) ([]FillCommand, error) {
	const op = "OpenAIMapper.GenerateCommands"

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: mappingPrompt(pageHTML, fields),
			},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, NewFormFillError(op, ErrMappingFailed, fmt.Sprintf("OpenAI request failed: %v", err))
	}

	if len(resp.Choices) == 0 {
		return nil, NewFormFillError(op, ErrInvalidCommands, "no response choices")
	}

	commands, err := decodeCommands(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Int("fields", len(fields)).
		Int("commands", len(commands)).
		Msg("Generated fill commands")

	return commands, nil
}
