package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinyl/internal/formatter"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/desertthunder/vinyl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LibrarySync fetches the entire saved-album library into the local cache.
func (r *Runner) LibrarySync(ctx context.Context, cmd *cli.Command) error {
	if r.albums == nil {
		return fmt.Errorf("%w: library sync requires a database", shared.ErrServiceUnavailable)
	}

	engine := tasks.NewLibraryEngine(r.spotify, r.albums)
	opts := tasks.SyncOpts{
		PageSize:  int(cmd.Int("page-size")),
		RateLimit: cmd.Float64("rate"),
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.SyncLibrary(ctx, progress, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Library synced")
	r.writePlain("  Albums: %d across %d pages\n", result.Synced, result.Pages)

	return nil
}

// LibraryStats prints a summary of the local album cache.
func (r *Runner) LibraryStats(ctx context.Context, cmd *cli.Command) error {
	if r.albums == nil {
		return fmt.Errorf("%w: library stats require a database", shared.ErrServiceUnavailable)
	}

	count, err := r.albums.Count()
	if err != nil {
		return err
	}

	return r.writePlain("Cached albums: %d\n", count)
}

// LibraryExport writes the cached library to a file in the chosen format.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	if r.albums == nil {
		return fmt.Errorf("%w: library export requires a database", shared.ErrServiceUnavailable)
	}

	albums, err := r.albums.List()
	if err != nil {
		return err
	}
	if len(albums) == 0 {
		return fmt.Errorf("%w: the cache is empty, run vinyl library sync first", shared.ErrAlbumNotFound)
	}

	path, err := formatter.WriteExport(
		albums,
		formatter.Format(cmd.String("format")),
		cmd.String("title"),
		cmd.String("output"),
	)
	if err != nil {
		return err
	}

	r.logger.Info("library exported", "path", path, "albums", len(albums))
	return r.writePlain("✓ Exported %d albums to %s\n", len(albums), path)
}
