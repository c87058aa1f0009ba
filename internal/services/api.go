package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// APIError is a non-success response from the resource API. The status
// and path carry enough context for the caller to classify the failure;
// nothing in the gateway retries on its own.
type APIError struct {
	StatusCode int
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d on %s", e.StatusCode, e.Path)
}

// Temporary reports whether the failure is server-side or rate-limited,
// i.e. a retry at the caller's discretion could succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NotFound reports whether the resource does not exist.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// SpotifyClient issues bearer-authenticated requests against the Spotify
// Web API. Tokens come from the [TokenSource] per request, never cached
// here.
type SpotifyClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyClient creates a client. The HTTP client and logger may be nil.
func NewSpotifyClient(tokens TokenSource, client *http.Client, logger *log.Logger) *SpotifyClient {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyClient{
		baseURL:    spotifyBaseURL,
		tokens:     tokens,
		httpClient: client,
		logger:     logger,
	}
}

// SetBaseURL overrides the resource API root, for tests.
func (c *SpotifyClient) SetBaseURL(u string) { c.baseURL = u }

// call performs an authenticated request and decodes a JSON response into
// result when one is expected. Player endpoints answer 204 with no body.
func (c *SpotifyClient) call(ctx context.Context, method, path string, body any, result any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Path: path}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
