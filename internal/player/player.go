// Package player models the playback engine as a capability interface:
// connect, disconnect, and a small set of named events delivered over a
// channel. The credential core only supplies it a token source; the
// engine owns no credentials and no rendering.
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
)

// EventType names the engine events.
type EventType string

const (
	// EventReady is emitted once the engine has an established connection.
	EventReady EventType = "ready"
	// EventNotReady is emitted when the connection is lost or closed.
	EventNotReady EventType = "not_ready"
	// EventStateChanged is emitted whenever the observed playback state
	// differs from the previous observation.
	EventStateChanged EventType = "player_state_changed"
)

// Event is a single engine notification. State is set for
// [EventStateChanged] and may be nil when playback stopped entirely.
type Event struct {
	Type  EventType
	State *services.SpotifyPlaybackState
}

// Engine is the playback engine capability consumed by the CLI.
type Engine interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Events() <-chan Event
}

// StateClient is the slice of the Spotify client the engine needs.
type StateClient interface {
	PlaybackState(ctx context.Context) (*services.SpotifyPlaybackState, error)
}

// Remote is an [Engine] that observes playback through the Web API,
// polling the player state on an interval and diffing observations.
type Remote struct {
	client   StateClient
	interval time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRemote creates a polling engine. Interval defaults to five seconds;
// the logger may be nil.
func NewRemote(client StateClient, interval time.Duration, logger *log.Logger) *Remote {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Remote{
		client:   client,
		interval: interval,
		logger:   logger,
	}
}

// Connect verifies the API is reachable with the supplied credentials and
// starts the polling loop. The loop runs until [Remote.Disconnect].
func (r *Remote) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.events != nil {
		return fmt.Errorf("already connected")
	}

	state, err := r.client.PlaybackState(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach player: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	r.events = make(chan Event, 8)
	r.cancel = cancel
	r.done = make(chan struct{})

	r.events <- Event{Type: EventReady}
	if state != nil {
		r.events <- Event{Type: EventStateChanged, State: state}
	}

	go r.poll(loopCtx, state)

	return nil
}

// Disconnect stops the polling loop and closes the event channel after an
// [EventNotReady] is delivered.
func (r *Remote) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.events == nil {
		return nil
	}

	r.cancel()
	<-r.done

	r.events = nil
	r.cancel = nil
	r.done = nil

	return nil
}

// Events returns the engine's event channel. Nil before Connect.
func (r *Remote) Events() <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events
}

func (r *Remote) poll(ctx context.Context, last *services.SpotifyPlaybackState) {
	events := r.events
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			select {
			case events <- Event{Type: EventNotReady}:
			default:
			}
			close(events)
			return
		case <-ticker.C:
		}

		state, err := r.client.PlaybackState(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			r.logger.Warn("playback state poll failed", "error", err)
			continue
		}

		if stateChanged(last, state) {
			select {
			case events <- Event{Type: EventStateChanged, State: state}:
			default:
				// Slow consumer; drop the observation rather than stall the loop.
			}
		}

		last = state
	}
}

// stateChanged reports whether two observations differ in what they play,
// where, or whether they play at all. Progress alone is not a change.
func stateChanged(prev, next *services.SpotifyPlaybackState) bool {
	if (prev == nil) != (next == nil) {
		return true
	}
	if prev == nil {
		return false
	}

	if prev.IsPlaying != next.IsPlaying || prev.Device.ID != next.Device.ID {
		return true
	}

	prevTrack, nextTrack := "", ""
	if prev.Item != nil {
		prevTrack = prev.Item.ID
	}
	if next.Item != nil {
		nextTrack = next.Item.ID
	}

	return prevTrack != nextTrack
}
