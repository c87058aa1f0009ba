package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/shared"
	"golang.org/x/sync/singleflight"
)

// RefreshMargin is how close to expiry a bundle may get before a refresh
// is forced. A token expiring within the margin is treated as unusable.
const RefreshMargin = 5 * time.Minute

// Manager owns the credential bundle after authorization: it decides
// whether the persisted bundle is usable and refreshes it on demand.
// All components that need a bearer token call [Manager.AccessToken].
type Manager struct {
	cfg    Config
	store  Store
	client *http.Client
	logger *log.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewManager creates a [Manager]. The HTTP client and logger may be nil.
func NewManager(cfg Config, store Store, client *http.Client, logger *log.Logger) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Manager{
		cfg:    cfg.withDefaults(),
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// AccessToken returns a bearer token valid for at least [RefreshMargin].
//
// A bundle comfortably ahead of expiry is returned without any network
// call. An expiring or expired bundle triggers a refresh exchange; at most
// one refresh request is outstanding per store at a time, and every caller
// that arrives while it is in flight receives its single result. Fails
// with [ErrNotAuthenticated] when there is no bundle or no refresh token,
// and with [RefreshError] when the provider rejects the refresh (the stale
// bundle stays in the store).
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	creds, err := LoadCredentials(m.store)
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", ErrNotAuthenticated
	}

	if creds.Fresh(RefreshMargin, m.now()) {
		return creds.AccessToken, nil
	}

	// The refresh runs on a detached context: once issued it completes and
	// commits even if the requester stopped waiting, so a valid new token
	// is never discarded.
	token, err, _ := m.group.Do(KeyCredentials, func() (any, error) {
		return m.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}

	return token.(string), nil
}

// refresh performs a single refresh exchange and commits the new bundle.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	// Re-read under the flight: a sibling caller may already have committed
	// a fresh bundle between our expiry check and joining the group.
	creds, err := LoadCredentials(m.store)
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", ErrNotAuthenticated
	}
	if creds.Fresh(RefreshMargin, m.now()) {
		return creds.AccessToken, nil
	}

	if creds.RefreshToken == "" {
		return "", ErrNotAuthenticated
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {creds.RefreshToken},
		"client_id":     {m.cfg.ClientID},
	}

	tok, err := postToken(ctx, m.client, m.cfg.TokenURL, form)
	if err != nil {
		var rejected *tokenRejectedError
		if errors.As(err, &rejected) {
			// The stale bundle stays put: a concurrent caller may still be
			// holding its access token, and clearing is the caller's call.
			return "", &RefreshError{StatusCode: rejected.Status}
		}
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	next := tok.credentials(m.now(), creds)
	if err := SaveCredentials(m.store, next); err != nil {
		return "", err
	}

	m.logger.Debug("access token refreshed", "expires_at", next.ExpiresAt)

	return next.AccessToken, nil
}
