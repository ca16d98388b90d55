package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/series"
)

var (
	// ErrUnknownEpisode is returned when the start episode is not queued.
	ErrUnknownEpisode = errors.New("player: episode not in queue")
	// ErrPlayerClosed is returned when the player exits on its own.
	ErrPlayerClosed = errors.New("player: closed")
)

// Hooks are optional session callbacks. They run on the session goroutine.
type Hooks struct {
	// OnEpisode is called each time an episode is loaded.
	OnEpisode func(m media.Movie)
	// OnPosition receives every position tick of the current episode.
	OnPosition func(m media.Movie, positionMs int64)
}

// Session plays a queue of episodes on one player, advancing to the next
// episode whenever the current one ends.
type Session struct {
	ID     string
	player Player
	queue  *series.Queue
	hooks  Hooks
}

// NewSession returns a session playing queue on p.
func NewSession(p Player, queue *series.Queue, hooks Hooks) *Session {
	return &Session{
		ID:     uuid.NewString(),
		player: p,
		queue:  queue,
		hooks:  hooks,
	}
}

// Run plays from the episode startID at startMs until the queue is
// exhausted, the player fails or ctx is cancelled. The player is stopped
// before Run returns. Reaching the end of the queue returns nil.
func (s *Session) Run(ctx context.Context, startID string, startMs int64) error {
	current, ok := s.queue.At(s.queue.Index(startID))
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEpisode, startID)
	}
	defer s.stop()

	logger := log.DefaultLogger()
	if logger != nil {
		logger = logger.With("session", s.ID)
		logger.Info("Playback session started", "episode", current.ID, "queued", s.queue.Len())
	}

	events := s.player.Events()
	for {
		if err := s.load(ctx, current, startMs); err != nil {
			return err
		}

		next, err := s.watch(ctx, events, current)
		if err != nil {
			return err
		}

		if current, ok = s.queue.Next(next.ID); !ok {
			if logger != nil {
				logger.Info("Playback session finished", "last", next.ID)
			}
			return nil
		}
		startMs = 0
	}
}

func (s *Session) load(ctx context.Context, m media.Movie, startMs int64) error {
	if err := s.player.Load(ctx, m.VideoURL, startMs); err != nil {
		return fmt.Errorf("load %s: %w", m.ID, err)
	}
	if err := s.player.Play(); err != nil {
		return fmt.Errorf("play %s: %w", m.ID, err)
	}
	if s.hooks.OnEpisode != nil {
		s.hooks.OnEpisode(m)
	}
	return nil
}

// watch consumes events for m until it ends and returns m.
func (s *Session) watch(ctx context.Context, events <-chan Event, m media.Movie) (media.Movie, error) {
	for {
		select {
		case <-ctx.Done():
			return m, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return m, ErrPlayerClosed
			}
			switch ev.Type {
			case EventPosition:
				if s.hooks.OnPosition != nil {
					s.hooks.OnPosition(m, ev.PositionMs)
				}
			case EventEnded:
				log.Debug("Episode ended", "session", s.ID, "episode", m.ID)
				return m, nil
			case EventError:
				return m, fmt.Errorf("playing %s: %w", m.ID, ev.Err)
			}
		}
	}
}

func (s *Session) stop() {
	if err := s.player.Stop(); err != nil {
		log.Warn("Failed to stop player", "session", s.ID, "error", err)
	}
}
