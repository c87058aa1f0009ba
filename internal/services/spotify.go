package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a track within an album context.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	TrackNumber int             `json:"track_number"`
	DurationMS  int             `json:"duration_ms"`
	Explicit    bool            `json:"explicit"`
	URI         string          `json:"uri"`
}

type albumTracks struct {
	Total int            `json:"total"`
	Items []SpotifyTrack `json:"items"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	Tracks      albumTracks     `json:"tracks"`
	URI         string          `json:"uri"`
}

// SpotifySavedAlbum represents an album saved in the user's library.
type SpotifySavedAlbum struct {
	AddedAt string       `json:"added_at"`
	Album   SpotifyAlbum `json:"album"`
}

// SpotifyPaginatedAlbums represents a paginated response of saved albums.
type SpotifyPaginatedAlbums struct {
	Items    []SpotifySavedAlbum `json:"items"`
	Total    int                 `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
}

// SpotifyDevice represents a playback device.
type SpotifyDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"` // Computer, Smartphone, Speaker, ...
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

// SpotifyPlaybackState represents the current player state.
type SpotifyPlaybackState struct {
	Device       SpotifyDevice `json:"device"`
	IsPlaying    bool          `json:"is_playing"`
	ProgressMS   int           `json:"progress_ms"`
	ShuffleState bool          `json:"shuffle_state"`
	RepeatState  string        `json:"repeat_state"`
	Item         *SpotifyTrack `json:"item"`
	Context      *struct {
		URI  string `json:"uri"`
		Type string `json:"type"`
	} `json:"context"`
}

// UserProfile retrieves the current authenticated user's profile.
func (c *SpotifyClient) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := c.call(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SavedAlbums retrieves a page of the user's saved albums.
func (c *SpotifyClient) SavedAlbums(ctx context.Context, limit, offset int) (*SpotifyPaginatedAlbums, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/albums?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedAlbums
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Album retrieves a single album by ID, including its track listing.
func (c *SpotifyClient) Album(ctx context.Context, albumID string) (*SpotifyAlbum, error) {
	endpoint := fmt.Sprintf("/albums/%s", url.PathEscape(albumID))

	var album SpotifyAlbum
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &album); err != nil {
		return nil, err
	}

	return &album, nil
}

// PlaybackState retrieves the current player state. Spotify answers 204
// when nothing is playing on any device; that surfaces as (nil, nil).
func (c *SpotifyClient) PlaybackState(ctx context.Context) (*SpotifyPlaybackState, error) {
	var state SpotifyPlaybackState
	if err := c.call(ctx, http.MethodGet, "/me/player", nil, &state); err != nil {
		return nil, err
	}
	if state.Device.ID == "" && state.Item == nil {
		return nil, nil
	}
	return &state, nil
}

// Devices lists the user's available playback devices.
func (c *SpotifyClient) Devices(ctx context.Context) ([]SpotifyDevice, error) {
	var response struct {
		Devices []SpotifyDevice `json:"devices"`
	}

	if err := c.call(ctx, http.MethodGet, "/me/player/devices", nil, &response); err != nil {
		return nil, err
	}

	return response.Devices, nil
}

// Play starts or resumes playback of a context (an album URI) on the given
// device. An empty deviceID targets the active device; positionMS seeks
// into the first track.
func (c *SpotifyClient) Play(ctx context.Context, deviceID, contextURI string, positionMS int) error {
	endpoint := "/me/player/play"
	if deviceID != "" {
		endpoint += "?device_id=" + url.QueryEscape(deviceID)
	}

	var body any
	if contextURI != "" {
		body = map[string]any{
			"context_uri": contextURI,
			"position_ms": positionMS,
		}
	}

	return c.call(ctx, http.MethodPut, endpoint, body, nil)
}

// Pause pauses playback on the active device.
func (c *SpotifyClient) Pause(ctx context.Context) error {
	return c.call(ctx, http.MethodPut, "/me/player/pause", nil, nil)
}

// Next skips to the next track on the active device.
func (c *SpotifyClient) Next(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/me/player/next", nil, nil)
}

// Previous skips to the previous track on the active device.
func (c *SpotifyClient) Previous(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/me/player/previous", nil, nil)
}

// SavedAlbum converts a saved-album item into the provider-independent view.
func (s *SpotifySavedAlbum) SavedAlbum() Album {
	album := Album{
		ID:          s.Album.ID,
		Name:        s.Album.Name,
		ReleaseDate: s.Album.ReleaseDate,
		TotalTracks: s.Album.TotalTracks,
		URI:         s.Album.URI,
		AddedAt:     s.AddedAt,
	}

	if len(s.Album.Artists) > 0 {
		album.Artist = s.Album.Artists[0].Name
	}
	if len(s.Album.Images) > 0 {
		album.ImageURL = s.Album.Images[0].URL
	}

	return album
}
