package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient settings cannot leak
// into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_AI_API_KEY", "GEMINI_MODEL",
		"BROWSERBASE_API_KEY", "BROWSERBASE_PROJECT_ID", "BROWSERBASE_API_URL",
		"FORM_URL", "OPENAI_API_KEY", "OPENAI_MODEL", "EXTRACTION_BACKEND",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "DOCUMENT_AI_PROCESSOR_ID",
		"LISTEN_ADDR", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadGeminiBackendDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_AI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendGemini, cfg.ExtractionBackend)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, "https://mendrika-alma.github.io/form-submission/", cfg.FormURL)
	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, "us", cfg.GoogleCloudLocation)
}

func TestLoadGeminiBackendRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_AI_API_KEY")
}

func TestLoadOCRBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXTRACTION_BACKEND", BackendOCR)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")
	t.Setenv("DOCUMENT_AI_PROCESSOR_ID", "proc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendOCR, cfg.ExtractionBackend)
}

func TestLoadOCRBackendRequiresProcessorID(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXTRACTION_BACKEND", BackendOCR)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOCUMENT_AI_PROCESSOR_ID")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXTRACTION_BACKEND", "bogus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXTRACTION_BACKEND")
}

func TestValidateFormFill(t *testing.T) {
	cfg := &Config{
		BrowserbaseAPIKey:    "key",
		BrowserbaseProjectID: "proj",
		GoogleAIAPIKey:       "gemini-key",
	}
	require.NoError(t, cfg.ValidateFormFill())

	cfg.GoogleAIAPIKey = ""
	err := cfg.ValidateFormFill()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector mapping")

	cfg.OpenAIAPIKey = "openai-key"
	require.NoError(t, cfg.ValidateFormFill())

	cfg.BrowserbaseProjectID = ""
	err = cfg.ValidateFormFill()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BROWSERBASE_PROJECT_ID")
}
