package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nomadcxx/nasflix/internal/history"
	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/player"
	"github.com/Nomadcxx/nasflix/internal/series"
)

// ScreenTypeSeries marks watch entries opened from a series detail view.
const ScreenTypeSeries = "series"

// positionSaveInterval throttles position writes during playback.
const positionSaveInterval = 5 * time.Second

type playbackDoneMsg struct {
	err error
}

// playRequest is everything needed to start a playback session.
type playRequest struct {
	queue    *series.Queue
	startID  string
	startMs  int64
	section  string
	fullPath string
}

// watchRecorder writes watch history from session hooks. Position writes
// are throttled; an episode that plays to its end is saved at position 0
// so it starts over next time.
type watchRecorder struct {
	store    *history.Store
	ctx      context.Context
	section  string
	fullPath string
	now      func() time.Time
	interval time.Duration

	current   string
	lastPos   int64
	lastSaved time.Time
}

func newWatchRecorder(ctx context.Context, store *history.Store, section, fullPath string) *watchRecorder {
	return &watchRecorder{
		store:    store,
		ctx:      context.WithoutCancel(ctx),
		section:  section,
		fullPath: fullPath,
		now:      time.Now,
		interval: positionSaveInterval,
	}
}

func (r *watchRecorder) hooks() player.Hooks {
	return player.Hooks{OnEpisode: r.episode, OnPosition: r.position}
}

func (r *watchRecorder) episode(m media.Movie) {
	if r.store == nil {
		return
	}
	// The session only advances once the previous episode ended.
	if r.current != "" && r.current != m.ID {
		r.save(r.current, 0)
	}
	r.current = m.ID
	r.lastPos = 0
	r.lastSaved = r.now()

	err := r.store.RecordWatch(r.ctx, history.WatchEntry{
		ID:           m.ID,
		Title:        m.Title,
		VideoURL:     m.VideoURL,
		ThumbnailURL: m.ThumbnailURL,
		ScreenType:   ScreenTypeSeries,
		PathStack:    []string{r.section, r.fullPath},
	})
	if err != nil {
		log.Warn("Failed to record watch", "id", m.ID, "error", err)
	}
}

func (r *watchRecorder) position(m media.Movie, positionMs int64) {
	if r.store == nil {
		return
	}
	r.lastPos = positionMs
	if r.now().Sub(r.lastSaved) < r.interval {
		return
	}
	r.lastSaved = r.now()
	r.save(m.ID, positionMs)
}

// finish saves the final position. A session that ran to the end of its
// queue leaves the last episode at position 0.
func (r *watchRecorder) finish(runErr error) {
	if r.store == nil || r.current == "" {
		return
	}
	if runErr == nil {
		r.save(r.current, 0)
		return
	}
	r.save(r.current, r.lastPos)
}

func (r *watchRecorder) save(id string, positionMs int64) {
	err := r.store.UpdatePosition(r.ctx, id, positionMs)
	if err != nil && !errors.Is(err, history.ErrNotFound) {
		log.Warn("Failed to save position", "id", id, "error", err)
	}
}

// playCmd runs a playback session to completion on a fresh player.
func playCmd(ctx context.Context, newPlayer func() player.Player, store *history.Store, req playRequest) tea.Cmd {
	return func() tea.Msg {
		rec := newWatchRecorder(ctx, store, req.section, req.fullPath)
		session := player.NewSession(newPlayer(), req.queue, rec.hooks())
		err := session.Run(ctx, req.startID, req.startMs)
		rec.finish(err)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return playbackDoneMsg{err: err}
	}
}

// resumePosition returns the saved position of id, or 0.
func resumePosition(ctx context.Context, store *history.Store, id string) int64 {
	if store == nil {
		return 0
	}
	e, err := store.Watch(ctx, id)
	if err != nil {
		if !errors.Is(err, history.ErrNotFound) {
			log.Warn("Failed to read watch history", "id", id, "error", err)
		}
		return 0
	}
	return e.PositionMs
}
