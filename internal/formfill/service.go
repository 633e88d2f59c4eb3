// Package formfill drives a remote browser to populate the online G-28 form
// with extracted document data. A Browserbase session provides the browser,
// CDP drives it, and an LLM maps form fields to CSS selectors from the live
// page HTML. The form is filled and screenshotted but never submitted.
package formfill

import (
	"context"

	"autoform/pkg/models"
)

// MaxPageHTMLChars caps how much of the page HTML is handed to the mapper.
const MaxPageHTMLChars = 20000

// FillCommand is one field assignment on the page.
type FillCommand struct {
	// Selector is the CSS selector of the input element.
	Selector string `json:"selector"`

	// Value is the text to enter.
	Value string `json:"value"`
}

// FieldOutcome records the result of one fill command.
type FieldOutcome struct {
	Selector string `json:"selector"`
	Value    string `json:"value"`
	Filled   bool   `json:"filled"`
	Error    string `json:"error,omitempty"`
}

// FillResult is the outcome of a form filling run.
type FillResult struct {
	// SessionID identifies the remote browser session used.
	SessionID string `json:"session_id"`

	// FieldsAttempted is the number of fill commands executed.
	FieldsAttempted int `json:"fields_attempted"`

	// FieldsFilled is the number that succeeded.
	FieldsFilled int `json:"fields_filled"`

	// Outcomes lists every command with its result.
	Outcomes []FieldOutcome `json:"outcomes"`

	// Screenshot is a PNG capture of the full page after filling.
	Screenshot []byte `json:"-"`
}

// FormFiller populates the online form with the given data.
type FormFiller interface {
	// Fill opens the form in a remote browser, enters every non-empty field,
	// and returns per-field outcomes with a final screenshot. The form is
	// never submitted.
	Fill(ctx context.Context, data *models.FormA28Data) (*FillResult, error)
}

// CommandGenerator maps non-empty form fields to fill commands using the
// page's HTML. Implementations call an LLM.
type CommandGenerator interface {
	GenerateCommands(ctx context.Context, pageHTML string, fields map[string]string) ([]FillCommand, error)
}

// truncateHTML bounds the page HTML before it goes into a prompt.
func truncateHTML(html string) string {
	if len(html) > MaxPageHTMLChars {
		return html[:MaxPageHTMLChars]
	}
	return html
}
