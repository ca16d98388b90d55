package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no watch entry has the requested ID.
var ErrNotFound = errors.New("history: not found")

// WatchEntry is one watched video and where the user left it. ScreenType
// and PathStack record the browsing context it was opened from so the UI
// can return there.
type WatchEntry struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	VideoURL     string    `json:"videoUrl" yaml:"video_url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" yaml:"thumbnail_url,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	ScreenType   string    `json:"screenType" yaml:"screen_type"`
	PathStack    []string  `json:"pathStack" yaml:"path_stack"`
	PositionMs   int64     `json:"positionMs" yaml:"position_ms"`
}

// RecordWatch inserts or replaces e, stamped with the current time. A
// replaced entry keeps its saved position when e.PositionMs is zero.
func (s *Store) RecordWatch(ctx context.Context, e WatchEntry) error {
	if e.ID == "" {
		return fmt.Errorf("history: watch entry without id")
	}
	stack := e.PathStack
	if stack == nil {
		stack = []string{}
	}
	pathJSON, err := json.Marshal(stack)
	if err != nil {
		return fmt.Errorf("history: encode path stack: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO watch_history (id, title, video_url, thumbnail_url, timestamp, screen_type, path_stack_json, position_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			video_url = excluded.video_url,
			thumbnail_url = excluded.thumbnail_url,
			timestamp = excluded.timestamp,
			screen_type = excluded.screen_type,
			path_stack_json = excluded.path_stack_json,
			position_ms = CASE WHEN excluded.position_ms > 0 THEN excluded.position_ms ELSE watch_history.position_ms END
	`, e.ID, e.Title, e.VideoURL, nullString(e.ThumbnailURL), s.now().UnixMilli(), e.ScreenType, string(pathJSON), e.PositionMs)
	if err != nil {
		return fmt.Errorf("history: record watch: %w", err)
	}
	return nil
}

// UpdatePosition stores the playback position of a watched video.
func (s *Store) UpdatePosition(ctx context.Context, id string, positionMs int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE watch_history SET position_ms = ?, timestamp = ? WHERE id = ?
	`, positionMs, s.now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("history: update position: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Watch returns one entry by ID.
func (s *Store) Watch(ctx context.Context, id string) (*WatchEntry, error) {
	row := s.db.QueryRowContext(ctx, watchSelect+` WHERE id = ?`, id)
	e, err := scanWatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// WatchHistory returns up to limit entries, most recent first. A limit of
// 0 or less returns all of them.
func (s *Store) WatchHistory(ctx context.Context, limit int) ([]WatchEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, watchSelect+` ORDER BY timestamp DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list watches: %w", err)
	}
	defer rows.Close()

	var entries []WatchEntry
	for rows.Next() {
		e, err := scanWatch(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteWatch forgets one entry.
func (s *Store) DeleteWatch(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watch_history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("history: delete watch: %w", err)
	}
	return nil
}

// ClearWatches forgets every watch entry.
func (s *Store) ClearWatches(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watch_history`); err != nil {
		return fmt.Errorf("history: clear watches: %w", err)
	}
	return nil
}

const watchSelect = `
	SELECT id, title, video_url, thumbnail_url, timestamp, screen_type, path_stack_json, position_ms
	FROM watch_history`

type scanner interface {
	Scan(dest ...any) error
}

func scanWatch(row scanner) (*WatchEntry, error) {
	var (
		e         WatchEntry
		thumbnail sql.NullString
		ts        int64
		pathJSON  string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.VideoURL, &thumbnail, &ts, &e.ScreenType, &pathJSON, &e.PositionMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("history: scan watch: %w", err)
	}
	e.ThumbnailURL = thumbnail.String
	e.Timestamp = time.UnixMilli(ts)
	if err := json.Unmarshal([]byte(pathJSON), &e.PathStack); err != nil {
		return nil, fmt.Errorf("history: decode path stack: %w", err)
	}
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
