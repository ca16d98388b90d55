// Package player plays episode queues through an external video player.
package player

import "context"

// EventType identifies a playback event.
type EventType string

const (
	// EventPosition reports the current playback position.
	EventPosition EventType = "position"
	// EventEnded reports that the loaded file played to its end.
	EventEnded EventType = "ended"
	// EventError reports a playback failure.
	EventError EventType = "error"
)

// Event is emitted by a Player.
type Event struct {
	Type       EventType
	PositionMs int64
	Err        error
}

// Player is a video player able to load one file at a time. Events are
// delivered on a single channel for the player's whole lifetime; the
// channel is closed once the player is stopped or exits.
type Player interface {
	// Load replaces the current file with url and seeks to startMs.
	Load(ctx context.Context, url string, startMs int64) error
	Play() error
	Pause() error
	Stop() error
	Events() <-chan Event
}
