// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles the credential lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify using OAuth2 + PKCE",
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show current authentication state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "probe",
						Usage: "Verify the credential against the profile endpoint",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear stored credentials",
				Action: r.AuthLogout,
			},
		},
	}
}

// albumsCommand handles album browsing
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"al"},
		Usage:   "Browse your saved albums",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved albums",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of albums to return (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache instead of the API",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "show",
				Usage: "Show an album with its track listing",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AlbumsShow,
			},
		},
	}
}

// playerCommand handles transport controls
func playerCommand(r *Runner) *cli.Command {
	jsonFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}

	return &cli.Command{
		Name:    "player",
		Aliases: []string{"p"},
		Usage:   "Control playback",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "Start or resume playback",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "device",
						Aliases: []string{"d"},
						Usage:   "Target device ID (defaults to the active device)",
					},
					&cli.StringFlag{
						Name:  "uri",
						Usage: "Context URI to play (e.g. spotify:album:...)",
					},
					&cli.StringFlag{
						Name:    "album",
						Aliases: []string{"a"},
						Usage:   "Album ID to play",
					},
					&cli.IntFlag{
						Name:  "position",
						Usage: "Start position in milliseconds",
					},
				},
				Action: r.PlayerPlay,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.PlayerPause,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next track",
				Action: r.PlayerNext,
			},
			{
				Name:    "previous",
				Aliases: []string{"prev"},
				Usage:   "Skip to the previous track",
				Action:  r.PlayerPrevious,
			},
			{
				Name:   "devices",
				Usage:  "List available playback devices",
				Flags:  jsonFlags,
				Action: r.PlayerDevices,
			},
			{
				Name:   "status",
				Usage:  "Show current playback state",
				Flags:  jsonFlags,
				Action: r.PlayerStatus,
			},
			{
				Name:  "watch",
				Usage: "Stream playback state changes",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Poll interval",
						Value: 5 * time.Second,
					},
				},
				Action: r.PlayerWatch,
			},
		},
	}
}

// libraryCommand handles the local album cache
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Manage the local album library cache",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch the full saved-album library into the cache",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Albums per request (max 50)",
						Value: 50,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 5,
					},
				},
				Action: r.LibrarySync,
			},
			{
				Name:   "stats",
				Usage:  "Show cache summary",
				Action: r.LibraryStats,
			},
			{
				Name:  "export",
				Usage: "Export the cached library to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title for markdown and text exports",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}
