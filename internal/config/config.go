package config

import (
	"fmt"
	"os"

	"autoform/internal/logger"
)

// Extraction backend selection.
const (
	BackendGemini = "gemini" // multimodal extraction via the Gemini Files API
	BackendOCR    = "ocr"    // OCR text first, then an OpenAI chat completion
)

type Config struct {
	// Gemini Configuration
	GoogleAIAPIKey string
	GeminiModel    string

	// Browserbase Configuration
	BrowserbaseAPIKey    string
	BrowserbaseProjectID string
	BrowserbaseAPIURL    string

	// Target form
	FormURL string

	// OpenAI Configuration (optional, enables the OCR backend and the
	// OpenAI selector mapper)
	OpenAIAPIKey string
	OpenAIModel  string

	// Extraction backend: "gemini" (default) or "ocr"
	ExtractionBackend string

	// Google Cloud Configuration (OCR backend only)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Web UI
	ListenAddr string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleAIAPIKey:        getEnv("GOOGLE_AI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		BrowserbaseAPIKey:     getEnv("BROWSERBASE_API_KEY", ""),
		BrowserbaseProjectID:  getEnv("BROWSERBASE_PROJECT_ID", ""),
		BrowserbaseAPIURL:     getEnv("BROWSERBASE_API_URL", "https://api.browserbase.com"),
		FormURL:               getEnv("FORM_URL", "https://mendrika-alma.github.io/form-submission/"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ExtractionBackend:     getEnv("EXTRACTION_BACKEND", BackendGemini),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		ListenAddr:            getEnv("LISTEN_ADDR", ":8000"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.ExtractionBackend {
	case BackendGemini:
		if c.GoogleAIAPIKey == "" {
			return fmt.Errorf("GOOGLE_AI_API_KEY is required for the gemini backend")
		}
	case BackendOCR:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the ocr backend")
		}
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the ocr backend")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the ocr backend")
		}
	default:
		return fmt.Errorf("unknown EXTRACTION_BACKEND %q (use %q or %q)", c.ExtractionBackend, BackendGemini, BackendOCR)
	}
	return nil
}

// ValidateFormFill checks the variables the form-filling path needs. Kept
// separate from validate() so extraction-only use works without Browserbase
// credentials.
func (c *Config) ValidateFormFill() error {
	if c.BrowserbaseAPIKey == "" {
		return fmt.Errorf("BROWSERBASE_API_KEY is required")
	}
	if c.BrowserbaseProjectID == "" {
		return fmt.Errorf("BROWSERBASE_PROJECT_ID is required")
	}
	if c.GoogleAIAPIKey == "" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("GOOGLE_AI_API_KEY or OPENAI_API_KEY is required for selector mapping")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
