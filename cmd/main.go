package main

import (
	"context"
	"os"

	"github.com/desertthunder/vinyl/internal/auth"
	"github.com/desertthunder/vinyl/internal/repositories"
	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config.toml, using defaults: %v", err)
		}
	}

	var store auth.Store
	var albums *repositories.AlbumRepository

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warnf("failed to open database, credentials will not persist: %v", err)
		store = auth.NewMemoryStore()
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Fatalf("failed to migrate database: %v", err)
		}
		store = repositories.NewCredentialRepository(db)
		albums = repositories.NewAlbumRepository(db)
	}

	authConfig := auth.Config{
		ClientID:    config.Spotify.ClientID,
		RedirectURI: config.Spotify.RedirectURI,
	}

	manager := auth.NewManager(authConfig, store, nil, logger)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Store:   store,
		Flow:    auth.NewFlow(authConfig, store, nil, logger),
		Spotify: services.NewSpotifyClient(manager, nil, logger),
		Albums:  albums,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "vinyl",
		Usage:    "Browse your Spotify record shelf and control playback",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
