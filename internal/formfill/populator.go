package formfill

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"autoform/internal/browserbase"
	"autoform/internal/logger"
	"autoform/pkg/models"
)

// PopulatorConfig configures the browser-driving form filler.
type PopulatorConfig struct {
	// FormURL is the address of the form page.
	FormURL string

	// NavigateTimeout bounds page load. Default: 60 seconds.
	NavigateTimeout time.Duration

	// CommandTimeout bounds each individual fill command. Default: 5 seconds.
	CommandTimeout time.Duration

	// ScreenshotQuality is the capture quality (0-100). Default: 90.
	ScreenshotQuality int
}

// DefaultPopulatorConfig returns a PopulatorConfig with sensible defaults.
func DefaultPopulatorConfig(formURL string) PopulatorConfig {
	return PopulatorConfig{
		FormURL:           formURL,
		NavigateTimeout:   60 * time.Second,
		CommandTimeout:    5 * time.Second,
		ScreenshotQuality: 90,
	}
}

// Populator implements FormFiller over a Browserbase session driven via CDP.
type Populator struct {
	sessions *browserbase.Client
	mapper   CommandGenerator
	config   PopulatorConfig
	log      zerolog.Logger
}

// NewPopulator creates a form filler.
func NewPopulator(sessions *browserbase.Client, mapper CommandGenerator, config PopulatorConfig) *Populator {
	if config.NavigateTimeout <= 0 {
		config.NavigateTimeout = 60 * time.Second
	}
	if config.CommandTimeout <= 0 {
		config.CommandTimeout = 5 * time.Second
	}
	if config.ScreenshotQuality <= 0 {
		config.ScreenshotQuality = 90
	}
	return &Populator{
		sessions: sessions,
		mapper:   mapper,
		config:   config,
		log:      logger.WithComponent("populator"),
	}
}

// Fill opens the form, enters every non-empty field, and screenshots the
// result. Individual field failures are tolerated and reported per field;
// the form is never submitted.
func (p *Populator) Fill(ctx context.Context, data *models.FormA28Data) (*FillResult, error) {
	const op = "Populator.Fill"

	fields := data.NonEmpty()
	if len(fields) == 0 {
		return nil, NewFormFillError(op, ErrNoData, "all fields are empty")
	}

	session, err := p.sessions.CreateSession(ctx)
	if err != nil {
		return nil, WrapFormFillError(op, ErrSessionFailed, err.Error())
	}

	p.log.Info().
		Str("session_id", session.ID).
		Str("form_url", p.config.FormURL).
		Int("fields", len(fields)).
		Msg("Starting form fill")

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, session.ConnectURL, chromedp.NoModifyURL)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pageHTML string
	navCtx, cancelNav := context.WithTimeout(browserCtx, p.config.NavigateTimeout)
	defer cancelNav()
	err = chromedp.Run(navCtx,
		chromedp.Navigate(p.config.FormURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		return nil, WrapFormFillError(op, ErrNavigationFailed, fmt.Sprintf("%s: %v", p.config.FormURL, err))
	}

	commands, err := p.mapper.GenerateCommands(ctx, pageHTML, fields)
	if err != nil {
		return nil, err
	}

	result := &FillResult{
		SessionID: session.ID,
		Outcomes:  make([]FieldOutcome, 0, len(commands)),
	}
	for _, cmd := range commands {
		outcome := p.fillOne(browserCtx, cmd)
		result.FieldsAttempted++
		if outcome.Filled {
			result.FieldsFilled++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	var screenshot []byte
	if err := chromedp.Run(browserCtx, chromedp.FullScreenshot(&screenshot, p.config.ScreenshotQuality)); err != nil {
		p.log.Warn().Err(err).Msg("Screenshot capture failed")
	} else {
		result.Screenshot = screenshot
	}

	p.log.Info().
		Str("session_id", session.ID).
		Int("attempted", result.FieldsAttempted).
		Int("filled", result.FieldsFilled).
		Msg("Form fill completed")

	return result, nil
}

// fillOne executes a single fill command under its own timeout. Selectors
// that match nothing are reported without waiting out the timeout.
func (p *Populator) fillOne(browserCtx context.Context, cmd FillCommand) FieldOutcome {
	outcome := FieldOutcome{Selector: cmd.Selector, Value: cmd.Value}

	cmdCtx, cancel := context.WithTimeout(browserCtx, p.config.CommandTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(cmdCtx, chromedp.Nodes(cmd.Selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		outcome.Error = err.Error()
		p.log.Warn().Str("selector", cmd.Selector).Err(err).Msg("Selector lookup failed")
		return outcome
	}
	if len(nodes) == 0 {
		outcome.Error = "no matching element"
		p.log.Warn().Str("selector", cmd.Selector).Msg("Selector matched no element")
		return outcome
	}

	if err := chromedp.Run(cmdCtx,
		chromedp.Clear(cmd.Selector, chromedp.ByQuery),
		chromedp.SendKeys(cmd.Selector, cmd.Value, chromedp.ByQuery),
	); err != nil {
		outcome.Error = err.Error()
		p.log.Warn().Str("selector", cmd.Selector).Err(err).Msg("Fill command failed")
		return outcome
	}

	outcome.Filled = true
	p.log.Debug().Str("selector", cmd.Selector).Msg("Field filled")
	return outcome
}
