package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumsList lists the user's saved albums, from the API or the local cache.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	cached := cmd.Bool("cached")

	var albums []services.Album
	var err error

	if cached {
		if r.albums == nil {
			return fmt.Errorf("%w: album cache requires a database", shared.ErrServiceUnavailable)
		}
		albums, err = r.albums.List()
		if err != nil {
			return err
		}
	} else {
		albums, err = r.fetchSavedAlbums(ctx, limit)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if limit > 0 && limit < len(albums) {
		albums = albums[:limit]
	}

	if useJSON {
		return r.writeJSON(albums, pretty)
	}

	r.writePlain("Found %d albums:\n\n", len(albums))
	for i, album := range albums {
		r.writePlain("%d. %s — %s\n", i+1, album.Artist, album.Name)
		if album.ReleaseDate != "" {
			r.writePlain("   Released: %s\n", album.ReleaseDate)
		}
		r.writePlain("   ID: %s\n", album.ID)
		r.writePlain("   Tracks: %d\n", album.TotalTracks)
		r.writePlain("\n")
	}

	return nil
}

// AlbumsShow prints a single album with its track listing.
func (r *Runner) AlbumsShow(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if albumID == "" {
		return fmt.Errorf("%w: album ID is required", shared.ErrMissingArgument)
	}

	album, err := r.spotify.Album(ctx, albumID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(album, pretty)
	}

	r.writePlain("Album: %s\n", album.Name)
	if len(album.Artists) > 0 {
		r.writePlain("Artist: %s\n", album.Artists[0].Name)
	}
	r.writePlain("Released: %s\n", album.ReleaseDate)
	r.writePlain("URI: %s\n", album.URI)
	r.writePlain("Tracks: %d\n\n", album.TotalTracks)

	for _, track := range album.Tracks.Items {
		seconds := track.DurationMS / 1000
		r.writePlain("%2d. %s (%d:%02d)\n", track.TrackNumber, track.Name, seconds/60, seconds%60)
	}

	return nil
}

// fetchSavedAlbums pages through /me/albums until limit is satisfied.
// A limit of zero fetches everything.
func (r *Runner) fetchSavedAlbums(ctx context.Context, limit int) ([]services.Album, error) {
	var albums []services.Album
	pageSize := 50
	offset := 0

	for {
		response, err := r.spotify.SavedAlbums(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range response.Items {
			albums = append(albums, item.SavedAlbum())
		}

		if response.Next == nil || len(response.Items) == 0 {
			break
		}
		if limit > 0 && len(albums) >= limit {
			break
		}
		offset += pageSize
	}

	return albums, nil
}
