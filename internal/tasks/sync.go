package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
	"golang.org/x/time/rate"
)

// AlbumSource is the slice of the Spotify client the engine needs.
type AlbumSource interface {
	SavedAlbums(ctx context.Context, limit, offset int) (*services.SpotifyPaginatedAlbums, error)
}

// AlbumCache is the persistence capability the engine writes pages into.
type AlbumCache interface {
	UpsertAll(albums []services.Album) error
}

// SyncOpts contains configuration for a library sync.
type SyncOpts struct {
	PageSize  int     // Albums per request (default 50, the API maximum)
	RateLimit float64 // Requests per second (default 5)
}

// SyncResult summarizes a completed library sync.
type SyncResult struct {
	TotalAlbums int // Albums reported by the provider
	Synced      int // Albums written to the cache
	Pages       int // Pages fetched
}

// LibraryEngine orchestrates saved-album library syncs.
type LibraryEngine struct {
	source AlbumSource
	cache  AlbumCache
}

// NewLibraryEngine creates a new engine over the given source and cache.
func NewLibraryEngine(source AlbumSource, cache AlbumCache) *LibraryEngine {
	return &LibraryEngine{source: source, cache: cache}
}

// SyncLibrary fetches the entire saved-album library page by page under a
// rate limit and persists each page into the cache. Progress updates are
// emitted per page; a nil or full progress channel never blocks the sync.
func (e *LibraryEngine) SyncLibrary(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: Spotify client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.PageSize <= 0 || opts.PageSize > 50 {
		opts.PageSize = 50
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	result := &SyncResult{}

	offset := 0
	page := 1
	totalPages := 0

	for {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("sync interrupted: %w", err)
		}

		e.sendProgress(progress, fetchPageUpdate(page, totalPages))

		response, err := e.source.SavedAlbums(ctx, opts.PageSize, offset)
		if err != nil {
			return result, fmt.Errorf("%w: failed to fetch saved albums: %v", shared.ErrAPIRequest, err)
		}

		if totalPages == 0 && response.Total > 0 {
			totalPages = (response.Total + opts.PageSize - 1) / opts.PageSize
			result.TotalAlbums = response.Total
		}

		albums := make([]services.Album, 0, len(response.Items))
		for _, item := range response.Items {
			albums = append(albums, item.SavedAlbum())
		}

		if e.cache != nil && len(albums) > 0 {
			if err := e.cache.UpsertAll(albums); err != nil {
				return result, fmt.Errorf("failed to cache albums: %w", err)
			}
		}

		result.Synced += len(albums)
		result.Pages = page

		e.sendProgress(progress, savePageUpdate(page, totalPages, len(albums)))

		if response.Next == nil || len(response.Items) == 0 {
			break
		}

		offset += opts.PageSize
		page++
	}

	return result, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
