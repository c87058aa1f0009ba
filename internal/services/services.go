package services

import "context"

// TokenSource supplies a bearer token that is valid at the time of the
// call. auth.Manager is the production implementation.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a [TokenSource] returning a fixed token, for tests and
// one-off calls with an already-known credential.
type StaticToken string

func (s StaticToken) AccessToken(context.Context) (string, error) {
	return string(s), nil
}

// Album is the provider-independent view of a saved album used by the CLI
// and the local library cache.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	URI         string `json:"uri"`
	ImageURL    string `json:"image_url"`
	AddedAt     string `json:"added_at"`
}
