// Package browserbase is a minimal REST client for the Browserbase session
// API. It only covers what the form filler needs: creating a session and
// retrieving its CDP connect URL. Browser control itself happens over CDP.
package browserbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"autoform/internal/logger"
)

// DefaultAPIURL is the production Browserbase API endpoint.
const DefaultAPIURL = "https://api.browserbase.com"

// Common client errors
var (
	// ErrMissingCredentials is returned when the API key or project ID is not configured.
	ErrMissingCredentials = errors.New("missing Browserbase credentials: set BROWSERBASE_API_KEY and BROWSERBASE_PROJECT_ID")

	// ErrSessionFailed is returned when the session API rejects a request.
	ErrSessionFailed = errors.New("browserbase session request failed")
)

// Session is a remote browser session.
type Session struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Status     string    `json:"status"`
	ConnectURL string    `json:"connectUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Client talks to the Browserbase REST API.
type Client struct {
	apiURL     string
	apiKey     string
	projectID  string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithAPIURL overrides the API endpoint (for testing).
func WithAPIURL(url string) Option {
	return func(c *Client) { c.apiURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a Browserbase client.
func NewClient(apiKey, projectID string, opts ...Option) (*Client, error) {
	if apiKey == "" || projectID == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		apiURL:     DefaultAPIURL,
		apiKey:     apiKey,
		projectID:  projectID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.WithComponent("browserbase"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateSession starts a new remote browser session and returns it with the
// CDP connect URL populated.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	const op = "CreateSession"

	payload, err := json.Marshal(map[string]string{"projectId": c.projectID})
	if err != nil {
		return nil, fmt.Errorf("browserbase: %s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("browserbase: %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-BB-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browserbase: %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("browserbase: %s: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Session creation rejected")
		return nil, fmt.Errorf("browserbase: %s: %w: status %d", op, ErrSessionFailed, resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("browserbase: %s: decode response: %w", op, err)
	}
	if session.ConnectURL == "" {
		return nil, fmt.Errorf("browserbase: %s: %w: response carries no connect URL", op, ErrSessionFailed)
	}

	c.log.Info().
		Str("session_id", session.ID).
		Str("status", session.Status).
		Msg("Browserbase session created")

	return &session, nil
}
