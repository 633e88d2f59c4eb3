package formfill

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoform/pkg/models"
)

func TestMappingPrompt(t *testing.T) {
	html := `<form><input id="passport-number"><input id="beneficiary-last-name"></form>`
	fields := map[string]string{
		"passport_number":       "C03005988",
		"beneficiary_last_name": "Jonas",
	}

	prompt := mappingPrompt(html, fields)

	assert.Contains(t, prompt, html)
	assert.Contains(t, prompt, "- passport_number: C03005988")
	assert.Contains(t, prompt, "- beneficiary_last_name: Jonas")
	assert.Contains(t, prompt, "JSON array")
	assert.Contains(t, prompt, "Do NOT produce commands for submit buttons")
}

func TestMappingPromptTruncatesHTML(t *testing.T) {
	html := strings.Repeat("x", MaxPageHTMLChars+5000)
	prompt := mappingPrompt(html, map[string]string{"passport_number": "A1"})

	assert.NotContains(t, prompt, strings.Repeat("x", MaxPageHTMLChars+1))
	assert.Contains(t, prompt, strings.Repeat("x", MaxPageHTMLChars))
}

func TestDecodeCommands(t *testing.T) {
	commands, err := decodeCommands(`[{"selector":"#passport-number","value":"C03005988"},{"selector":"#sex","value":"M"}]`)
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, FillCommand{Selector: "#passport-number", Value: "C03005988"}, commands[0])
}

func TestDecodeCommandsStripsCodeFences(t *testing.T) {
	commands, err := decodeCommands("```json\n[{\"selector\":\"#a\",\"value\":\"1\"}]\n```")
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "#a", commands[0].Selector)
}

func TestDecodeCommandsDropsIncomplete(t *testing.T) {
	commands, err := decodeCommands(`[{"selector":"","value":"x"},{"selector":"#b","value":""},{"selector":" #c ","value":"3"}]`)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "#c", commands[0].Selector)
}

func TestDecodeCommandsRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"selector":"#a"}`} {
		_, err := decodeCommands(raw)
		require.Error(t, err, "input: %q", raw)
		assert.ErrorIs(t, err, ErrInvalidCommands)
	}
}

func TestPopulatorRejectsEmptyData(t *testing.T) {
	p := NewPopulator(nil, nil, DefaultPopulatorConfig("https://example.com/form"))

	_, err := p.Fill(context.Background(), &models.FormA28Data{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDefaultPopulatorConfig(t *testing.T) {
	cfg := DefaultPopulatorConfig("https://example.com/form")
	assert.Equal(t, "https://example.com/form", cfg.FormURL)
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 60*time.Second, cfg.NavigateTimeout)
	assert.Equal(t, 90, cfg.ScreenshotQuality)
}

func TestTruncateHTML(t *testing.T) {
	short := "<html></html>"
	assert.Equal(t, short, truncateHTML(short))

	long := strings.Repeat("a", MaxPageHTMLChars+1)
	assert.Len(t, truncateHTML(long), MaxPageHTMLChars)
}
