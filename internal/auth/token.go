package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Spotify accounts service endpoints.
const (
	SpotifyAuthURL  = "https://accounts.spotify.com/authorize"
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// DefaultScopes covers library read, playback state read/write, streaming,
// and profile read.
var DefaultScopes = []string{
	"user-library-read",
	"user-read-playback-state",
	"user-modify-playback-state",
	"streaming",
	"user-read-private",
}

// Config holds the provider endpoints and client settings for the PKCE flow.
// ClientID and RedirectURI are required; the rest default to the Spotify
// accounts service.
type Config struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	AuthURL     string
	TokenURL    string
}

func (c Config) withDefaults() Config {
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes
	}
	if c.AuthURL == "" {
		c.AuthURL = SpotifyAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = SpotifyTokenURL
	}
	return c
}

// tokenResponse is the token endpoint's JSON payload for both the code
// exchange and the refresh grant.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// credentials converts the response into a bundle with an absolute expiry
// computed at the given instant. When the provider omits refresh token
// rotation, the prior refresh token is retained.
func (t *tokenResponse) credentials(now time.Time, prior *Credentials) *Credentials {
	creds := &Credentials{
		AccessToken: t.AccessToken,
		ExpiresAt:   now.Add(time.Duration(t.ExpiresIn) * time.Second),
	}

	if t.RefreshToken != "" {
		creds.RefreshToken = t.RefreshToken
	} else if prior != nil {
		creds.RefreshToken = prior.RefreshToken
	}

	return creds
}

// tokenRejectedError is the internal carrier for a non-2xx token endpoint
// response. Callers map it to [ExchangeError] or [RefreshError].
type tokenRejectedError struct {
	Status  int
	Message string
}

func (e *tokenRejectedError) Error() string {
	return fmt.Sprintf("token endpoint returned status %d: %s", e.Status, e.Message)
}

// postToken performs a single form-encoded POST against the token endpoint
// and decodes the response.
func postToken(ctx context.Context, client *http.Client, endpoint string, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &tokenRejectedError{Status: resp.StatusCode, Message: providerMessage(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("malformed token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("malformed token response: missing access_token")
	}

	return &tok, nil
}

// providerMessage extracts the error description from a token endpoint
// failure body, best effort.
func providerMessage(body []byte) string {
	var payload struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if payload.Description != "" {
		return payload.Description
	}
	return payload.Error
}
