package browserbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sessions", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-BB-API-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "proj-123", payload["projectId"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":         "sess-42",
			"projectId":  "proj-123",
			"status":     "RUNNING",
			"connectUrl": "wss://connect.browserbase.com/sess-42?signing=abc",
		})
	}))
	defer server.Close()

	client, err := NewClient("secret-key", "proj-123", WithAPIURL(server.URL))
	require.NoError(t, err)

	session, err := client.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-42", session.ID)
	assert.Equal(t, "RUNNING", session.Status)
	assert.Equal(t, "wss://connect.browserbase.com/sess-42?signing=abc", session.ConnectURL)
}

func TestCreateSessionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient("bad-key", "proj-123", WithAPIURL(server.URL))
	require.NoError(t, err)

	_, err = client.CreateSession(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionFailed)
}

func TestCreateSessionWithoutConnectURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "sess-42", "status": "RUNNING"})
	}))
	defer server.Close()

	client, err := NewClient("key", "proj", WithAPIURL(server.URL))
	require.NoError(t, err)

	_, err = client.CreateSession(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionFailed)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "proj")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewClient("key", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
