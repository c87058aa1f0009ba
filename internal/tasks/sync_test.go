package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
)

// pagedSource serves a fixed library of saved albums in API-shaped pages.
type pagedSource struct {
	library  []services.SpotifySavedAlbum
	requests []int // offsets seen
	err      error
}

func (s *pagedSource) SavedAlbums(_ context.Context, limit, offset int) (*services.SpotifyPaginatedAlbums, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requests = append(s.requests, offset)

	end := offset + limit
	if end > len(s.library) {
		end = len(s.library)
	}

	page := &services.SpotifyPaginatedAlbums{
		Items:  s.library[offset:end],
		Total:  len(s.library),
		Limit:  limit,
		Offset: offset,
	}
	if end < len(s.library) {
		next := fmt.Sprintf("https://api.spotify.com/v1/me/albums?offset=%d", end)
		page.Next = &next
	}

	return page, nil
}

// recordingCache collects every batch written to it.
type recordingCache struct {
	batches [][]services.Album
	err     error
}

func (c *recordingCache) UpsertAll(albums []services.Album) error {
	if c.err != nil {
		return c.err
	}
	c.batches = append(c.batches, albums)
	return nil
}

func library(n int) []services.SpotifySavedAlbum {
	saved := make([]services.SpotifySavedAlbum, n)
	for i := range saved {
		saved[i] = services.SpotifySavedAlbum{
			AddedAt: "2024-01-01T00:00:00Z",
			Album: services.SpotifyAlbum{
				ID:   fmt.Sprintf("alb%d", i),
				Name: fmt.Sprintf("Album %d", i),
			},
		}
	}
	return saved
}

func TestSyncLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("Single Page", func(t *testing.T) {
		source := &pagedSource{library: library(3)}
		cache := &recordingCache{}
		engine := NewLibraryEngine(source, cache)

		result, err := engine.SyncLibrary(ctx, nil, SyncOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalAlbums != 3 || result.Synced != 3 || result.Pages != 1 {
			t.Errorf("unexpected result %+v", result)
		}
		if len(cache.batches) != 1 || len(cache.batches[0]) != 3 {
			t.Errorf("unexpected cache writes %v", cache.batches)
		}
	})

	t.Run("Multiple Pages", func(t *testing.T) {
		source := &pagedSource{library: library(12)}
		cache := &recordingCache{}
		engine := NewLibraryEngine(source, cache)

		result, err := engine.SyncLibrary(ctx, nil, SyncOpts{PageSize: 5, RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Synced != 12 || result.Pages != 3 {
			t.Errorf("unexpected result %+v", result)
		}

		wantOffsets := []int{0, 5, 10}
		if len(source.requests) != len(wantOffsets) {
			t.Fatalf("expected %d requests, got %d", len(wantOffsets), len(source.requests))
		}
		for i, offset := range wantOffsets {
			if source.requests[i] != offset {
				t.Errorf("request %d: expected offset %d, got %d", i, offset, source.requests[i])
			}
		}

		if cache.batches[0][0].ID != "alb0" || cache.batches[2][0].ID != "alb10" {
			t.Errorf("unexpected batch contents %v", cache.batches)
		}
	})

	t.Run("Empty Library", func(t *testing.T) {
		source := &pagedSource{}
		cache := &recordingCache{}
		engine := NewLibraryEngine(source, cache)

		result, err := engine.SyncLibrary(ctx, nil, SyncOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.TotalAlbums != 0 || result.Synced != 0 {
			t.Errorf("unexpected result %+v", result)
		}
		if len(cache.batches) != 0 {
			t.Errorf("expected no cache writes, got %v", cache.batches)
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		source := &pagedSource{library: library(4)}
		engine := NewLibraryEngine(source, &recordingCache{})

		progress := make(chan ProgressUpdate, 16)
		if _, err := engine.SyncLibrary(ctx, progress, SyncOpts{RateLimit: 1000}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		if len(phases) != 2 || phases[0] != FetchAlbums || phases[1] != SaveAlbums {
			t.Errorf("unexpected phase sequence %v", phases)
		}
	})

	t.Run("Full Progress Channel Never Blocks", func(t *testing.T) {
		source := &pagedSource{library: library(4)}
		engine := NewLibraryEngine(source, &recordingCache{})

		// Unbuffered with no reader: every send must be dropped.
		progress := make(chan ProgressUpdate)
		if _, err := engine.SyncLibrary(ctx, progress, SyncOpts{RateLimit: 1000}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Source Failure", func(t *testing.T) {
		source := &pagedSource{err: errors.New("boom")}
		engine := NewLibraryEngine(source, &recordingCache{})

		if _, err := engine.SyncLibrary(ctx, nil, SyncOpts{RateLimit: 1000}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Cache Failure", func(t *testing.T) {
		source := &pagedSource{library: library(2)}
		cache := &recordingCache{err: errors.New("disk full")}
		engine := NewLibraryEngine(source, cache)

		if _, err := engine.SyncLibrary(ctx, nil, SyncOpts{RateLimit: 1000}); err == nil {
			t.Error("expected the cache failure to surface")
		}
	})

	t.Run("Nil Source", func(t *testing.T) {
		engine := NewLibraryEngine(nil, &recordingCache{})

		if _, err := engine.SyncLibrary(ctx, nil, SyncOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		engine := NewLibraryEngine(&pagedSource{library: library(2)}, &recordingCache{})

		if _, err := engine.SyncLibrary(cancelled, nil, SyncOpts{}); err == nil {
			t.Error("expected cancellation to interrupt the sync")
		}
	})
}

func TestPhaseString(t *testing.T) {
	cases := []struct {
		phase Phase
		want  string
	}{
		{FetchAlbums, "fetch_albums"},
		{SaveAlbums, "save_albums"},
		{Phase(99), ""},
	}

	for _, c := range cases {
		if got := c.phase.String(); got != c.want {
			t.Errorf("Phase(%d).String() = %q, want %q", c.phase, got, c.want)
		}
	}
}
