package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"autoform/internal/config"
	"autoform/internal/formfill"
	"autoform/internal/logger"
	"autoform/pkg/models"
)

var fillCmd = &cobra.Command{
	Use:   "fill [data-file]",
	Short: "Fill the online G-28 form with previously extracted data",
	Long: `Read extracted form data from a JSON file (as produced by "autoform
extract"), open the online form in a remote Browserbase session, and fill
every non-empty field. A screenshot of the filled form is saved for review.
The form is never submitted.

Required environment variables:
  BROWSERBASE_API_KEY - Browserbase API key
  BROWSERBASE_PROJECT_ID - Browserbase project ID
  GOOGLE_AI_API_KEY or OPENAI_API_KEY - for field-to-selector mapping`,
	Example: `  # Fill the form from extracted data
  autoform fill data.json

  # Save the screenshot somewhere specific
  autoform fill data.json --screenshot review.png

  # Target a different form page
  autoform fill data.json --form-url https://example.com/form`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().String("screenshot", "filled-form.png", "Screenshot output path")
	fillCmd.Flags().String("form-url", "", "Form page URL (default: FORM_URL)")
	fillCmd.Flags().Int("timeout", 600, "Processing timeout in seconds")
}

func runFill(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("fill")

	screenshotPath, _ := cmd.Flags().GetString("screenshot")
	formURL, _ := cmd.Flags().GetString("form-url")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	dataPath := args[0]

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		log.Error().Err(err).Str("file", dataPath).Msg("Failed to read data file")
		return fmt.Errorf("failed to read data file: %w", err)
	}

	var data models.FormA28Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid data file %s: %w", dataPath, err)
	}
	if data.IsEmpty() {
		return fmt.Errorf("data file %s contains no filled fields", dataPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if formURL != "" {
		cfg.FormURL = formURL
	}

	log.Info().
		Str("data_file", dataPath).
		Str("form_url", cfg.FormURL).
		Int("fields", data.CountSet()).
		Msg("Starting form fill")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	filler, err := buildFiller(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create form filler")
		return fmt.Errorf("failed to create form filler: %w", err)
	}

	result, err := filler.Fill(ctx, &data)
	if err != nil {
		return handleFillError(err, log)
	}

	fmt.Printf("Filled %d of %d fields (session %s)\n",
		result.FieldsFilled, result.FieldsAttempted, result.SessionID)
	for _, outcome := range result.Outcomes {
		if outcome.Filled {
			fmt.Printf("  ok    %s\n", outcome.Selector)
		} else {
			fmt.Printf("  FAIL  %s: %s\n", outcome.Selector, outcome.Error)
		}
	}

	if len(result.Screenshot) > 0 {
		if err := os.WriteFile(screenshotPath, result.Screenshot, 0644); err != nil {
			log.Error().Err(err).Str("file", screenshotPath).Msg("Failed to write screenshot")
			return fmt.Errorf("failed to write screenshot: %w", err)
		}
		fmt.Printf("Screenshot saved to %s\n", screenshotPath)
	}
	fmt.Println("The form was NOT submitted. Review it before submitting manually.")

	return nil
}

// handleFillError provides user-friendly error messages for fill failures
func handleFillError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Form fill failed")

	switch {
	case errors.Is(err, formfill.ErrNoData):
		return fmt.Errorf("no form data to fill. Run \"autoform extract\" first")
	case errors.Is(err, formfill.ErrSessionFailed):
		return fmt.Errorf("could not create a browser session. Check BROWSERBASE_API_KEY and BROWSERBASE_PROJECT_ID")
	case errors.Is(err, formfill.ErrNavigationFailed):
		return fmt.Errorf("could not load the form page. Check FORM_URL and network connectivity")
	case errors.Is(err, formfill.ErrMappingFailed), errors.Is(err, formfill.ErrInvalidCommands):
		return fmt.Errorf("could not map fields to form inputs. The form layout may have changed: %w", err)
	default:
		return fmt.Errorf("form fill failed: %w", err)
	}
}
