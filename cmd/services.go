package cmd

import (
	"context"
	"fmt"

	"autoform/internal/browserbase"
	"autoform/internal/config"
	"autoform/internal/extraction"
	"autoform/internal/formfill"
)

// buildExtractor creates the extraction backend selected in the config.
func buildExtractor(ctx context.Context, cfg *config.Config) (extraction.Extractor, error) {
	switch cfg.ExtractionBackend {
	case config.BackendGemini:
		return extraction.NewGeminiExtractor(ctx)
	case config.BackendOCR:
		return extraction.NewTextExtractor(ctx)
	default:
		return nil, fmt.Errorf("unknown extraction backend %q", cfg.ExtractionBackend)
	}
}

// buildFiller creates the form filler: a Browserbase session client plus the
// selector mapper. Gemini maps selectors when its key is present, otherwise
// OpenAI does.
func buildFiller(ctx context.Context, cfg *config.Config) (formfill.FormFiller, error) {
	if err := cfg.ValidateFormFill(); err != nil {
		return nil, err
	}

	sessions, err := browserbase.NewClient(cfg.BrowserbaseAPIKey, cfg.BrowserbaseProjectID,
		browserbase.WithAPIURL(cfg.BrowserbaseAPIURL))
	if err != nil {
		return nil, err
	}

	var mapper formfill.CommandGenerator
	if cfg.GoogleAIAPIKey != "" {
		mapper, err = formfill.NewGeminiMapper(ctx)
	} else {
		mapper, err = formfill.NewOpenAIMapper()
	}
	if err != nil {
		return nil, err
	}

	return formfill.NewPopulator(sessions, mapper, formfill.DefaultPopulatorConfig(cfg.FormURL)), nil
}
