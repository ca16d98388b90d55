package history

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SearchEntry is one remembered search query.
type SearchEntry struct {
	Query     string    `json:"query" yaml:"query"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// AddSearch records query, moving it to the top if it was searched before.
// Blank queries are ignored.
func (s *Store) AddSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (query, timestamp) VALUES (?, ?)
		ON CONFLICT(query) DO UPDATE SET timestamp = excluded.timestamp
	`, query, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("history: add search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit queries, newest first. A limit of 0
// or less returns all of them.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, timestamp FROM search_history
		ORDER BY timestamp DESC, query
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list searches: %w", err)
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		var (
			query string
			ts    int64
		)
		if err := rows.Scan(&query, &ts); err != nil {
			return nil, fmt.Errorf("history: scan search: %w", err)
		}
		entries = append(entries, SearchEntry{Query: query, Timestamp: time.UnixMilli(ts)})
	}
	return entries, rows.Err()
}

// DeleteSearch forgets one query.
func (s *Store) DeleteSearch(ctx context.Context, query string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE query = ?`, query); err != nil {
		return fmt.Errorf("history: delete search: %w", err)
	}
	return nil
}

// ClearSearches forgets every query.
func (s *Store) ClearSearches(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("history: clear searches: %w", err)
	}
	return nil
}
