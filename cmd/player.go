package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/vinyl/internal/player"
	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerPlay starts or resumes playback, optionally of a specific album.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	deviceID := cmd.String("device")
	contextURI := cmd.String("uri")
	albumID := cmd.String("album")
	position := int(cmd.Int("position"))

	if contextURI == "" && albumID != "" {
		contextURI = "spotify:album:" + albumID
	}
	if contextURI != "" && !strings.HasPrefix(contextURI, "spotify:") {
		return fmt.Errorf("%w: context URI must start with spotify:", shared.ErrInvalidArgument)
	}

	if err := r.spotify.Play(ctx, deviceID, contextURI, position); err != nil {
		return r.describePlayerError(err)
	}

	if contextURI != "" {
		return r.writePlain("▶ Playing %s\n", contextURI)
	}
	return r.writePlain("▶ Resumed playback\n")
}

// PlayerPause pauses playback on the active device.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	if err := r.spotify.Pause(ctx); err != nil {
		return r.describePlayerError(err)
	}
	return r.writePlain("⏸ Paused\n")
}

// PlayerNext skips to the next track.
func (r *Runner) PlayerNext(ctx context.Context, cmd *cli.Command) error {
	if err := r.spotify.Next(ctx); err != nil {
		return r.describePlayerError(err)
	}
	return r.writePlain("⏭ Skipped to next track\n")
}

// PlayerPrevious skips to the previous track.
func (r *Runner) PlayerPrevious(ctx context.Context, cmd *cli.Command) error {
	if err := r.spotify.Previous(ctx); err != nil {
		return r.describePlayerError(err)
	}
	return r.writePlain("⏮ Skipped to previous track\n")
}

// PlayerDevices lists available playback devices.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	devices, err := r.spotify.Devices(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, cmd.Bool("pretty"))
	}

	if len(devices) == 0 {
		r.writePlain("No devices found. Open Spotify on a device first.\n")
		return nil
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, device := range devices {
		marker := " "
		if device.IsActive {
			marker = "●"
		}
		r.writePlain("%s %d. %s (%s)\n", marker, i+1, device.Name, device.Type)
		r.writePlain("     ID: %s\n", device.ID)
	}

	return nil
}

// PlayerStatus prints the current playback state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	state, err := r.spotify.PlaybackState(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if state == nil {
		r.writePlain("Nothing playing\n")
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(state, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", formatState(state))
	return nil
}

// PlayerWatch streams playback engine events until interrupted.
func (r *Runner) PlayerWatch(ctx context.Context, cmd *cli.Command) error {
	interval := cmd.Duration("interval")

	engine := player.NewRemote(r.spotify, interval, r.logger)
	if err := engine.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	events := engine.Events()
	r.writePlain("Watching playback (ctrl-c to stop)...\n\n")

	for {
		select {
		case <-ctx.Done():
			return engine.Disconnect()
		case event, ok := <-events:
			if !ok {
				return nil
			}

			switch event.Type {
			case player.EventReady:
				r.writePlain("● Connected\n")
			case player.EventNotReady:
				r.writePlain("○ Disconnected\n")
			case player.EventStateChanged:
				r.writePlain("%s\n", formatState(event.State))
			}
		}
	}
}

// describePlayerError maps common transport failures to actionable messages.
func (r *Runner) describePlayerError(err error) error {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return fmt.Errorf("%w: open Spotify on a device and try again", shared.ErrNoActiveDevice)
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}

func formatState(state *services.SpotifyPlaybackState) string {
	if state == nil {
		return "Nothing playing"
	}

	symbol := "⏸"
	if state.IsPlaying {
		symbol = "▶"
	}

	track := "(nothing)"
	if state.Item != nil {
		artist := ""
		if len(state.Item.Artists) > 0 {
			artist = state.Item.Artists[0].Name + " — "
		}
		track = artist + state.Item.Name
	}

	return fmt.Sprintf("%s %s [%s]", symbol, track, state.Device.Name)
}
