package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/shared"
)

const (
	verifierLength = 64
	stateLength    = 16
)

// Flow drives the authorization-code + PKCE handshake: [Flow.Begin] builds
// the authorization redirect, [Flow.Complete] consumes the callback.
type Flow struct {
	cfg    Config
	store  Store
	client *http.Client
	logger *log.Logger
}

// NewFlow creates a [Flow]. The HTTP client and logger may be nil.
func NewFlow(cfg Config, store Store, client *http.Client, logger *log.Logger) *Flow {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Flow{
		cfg:    cfg.withDefaults(),
		store:  store,
		client: client,
		logger: logger,
	}
}

// Begin generates a fresh PKCE pair and anti-forgery state, persists the
// verifier and state, and returns the authorization URL to navigate to.
//
// Any handshake already in flight is overwritten: only one authorization
// attempt exists per store at a time. Begin does not perform the
// navigation itself.
func (f *Flow) Begin() (string, error) {
	verifier, err := RandomString(verifierLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate code verifier: %w", err)
	}

	state, err := RandomString(stateLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	if err := f.store.Set(KeyVerifier, verifier); err != nil {
		return "", fmt.Errorf("failed to persist code verifier: %w", err)
	}
	if err := f.store.Set(KeyState, state); err != nil {
		return "", fmt.Errorf("failed to persist state token: %w", err)
	}

	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", f.cfg.RedirectURI)
	params.Set("code_challenge_method", "S256")
	params.Set("code_challenge", CodeChallenge(verifier))
	params.Set("state", state)
	params.Set("scope", strings.Join(f.cfg.Scopes, " "))

	return f.cfg.AuthURL + "?" + params.Encode(), nil
}

// Complete consumes the query parameters of the provider's callback
// redirect, exchanges the authorization code plus the stored verifier for a
// credential bundle, and persists it.
//
// The stored verifier and state are invalidated exactly once, whatever the
// outcome: a verifier must never be reused for a later code. Complete is
// not idempotent, since the authorization code is single-use by provider
// contract; an [ExchangeError] from a second attempt is not retryable.
func (f *Flow) Complete(ctx context.Context, query url.Values) (*Credentials, error) {
	defer f.clearHandshake()

	if reason := query.Get("error"); reason != "" {
		return nil, &AuthorizationDeniedError{Reason: reason}
	}

	if err := f.verifyState(query.Get("state")); err != nil {
		return nil, err
	}

	code := query.Get("code")
	if code == "" {
		return nil, ErrMalformedCallback
	}

	verifier, ok, err := f.store.Get(KeyVerifier)
	if err != nil {
		return nil, fmt.Errorf("failed to read code verifier: %w", err)
	}
	if !ok || verifier == "" {
		return nil, ErrMissingVerifier
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {f.cfg.RedirectURI},
		"code_verifier": {verifier},
		"client_id":     {f.cfg.ClientID},
	}

	tok, err := postToken(ctx, f.client, f.cfg.TokenURL, form)
	if err != nil {
		var rejected *tokenRejectedError
		if errors.As(err, &rejected) {
			return nil, &ExchangeError{StatusCode: rejected.Status, Message: rejected.Message}
		}
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	creds := tok.credentials(time.Now(), nil)
	if err := SaveCredentials(f.store, creds); err != nil {
		return nil, err
	}

	f.logger.Info("authorization complete", "expires_at", creds.ExpiresAt)

	return creds, nil
}

// verifyState checks the returned state against the one issued by Begin.
func (f *Flow) verifyState(returned string) error {
	issued, ok, err := f.store.Get(KeyState)
	if err != nil {
		return fmt.Errorf("failed to read state token: %w", err)
	}
	if !ok || issued == "" || returned != issued {
		return ErrStateMismatch
	}
	return nil
}

// clearHandshake invalidates the stored verifier and state. Removal
// failures are logged, not surfaced: the handshake outcome already carries
// the caller-facing result.
func (f *Flow) clearHandshake() {
	if err := f.store.Remove(KeyVerifier); err != nil {
		f.logger.Warn("failed to clear code verifier", "error", err)
	}
	if err := f.store.Remove(KeyState); err != nil {
		f.logger.Warn("failed to clear state token", "error", err)
	}
}
