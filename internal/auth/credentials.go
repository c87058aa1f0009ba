package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// Credentials is the persisted credential bundle for the Spotify Web API.
//
// ExpiresAt is always an absolute timestamp computed at issuance from the
// provider's relative expires_in; a relative value is never stored, since
// wall-clock time elapsed between issuance and use would desynchronize it.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Fresh reports whether the access token is still usable without a refresh
// at the given instant, applying the safety margin.
func (c *Credentials) Fresh(margin time.Duration, now time.Time) bool {
	return c.AccessToken != "" && c.ExpiresAt.After(now.Add(margin))
}

// LoadCredentials reads the credential bundle from the store.
// Returns (nil, nil) when no bundle is stored.
func LoadCredentials(s Store) (*Credentials, error) {
	raw, ok, err := s.Get(KeyCredentials)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential bundle: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("corrupt credential bundle: %w", err)
	}

	return &creds, nil
}

// SaveCredentials writes the bundle to the store as a single value, so a
// reader never observes a new access token paired with a stale expiry.
func SaveCredentials(s Store, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credential bundle: %w", err)
	}

	if err := s.Set(KeyCredentials, string(data)); err != nil {
		return fmt.Errorf("failed to persist credential bundle: %w", err)
	}

	return nil
}

// ClearCredentials removes the bundle from the store (explicit sign-out).
func ClearCredentials(s Store) error {
	return s.Remove(KeyCredentials)
}
