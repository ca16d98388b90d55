package series

import "github.com/Nomadcxx/nasflix/internal/media"

// Queue is a fixed playback order over a series' episodes.
type Queue struct {
	items []media.Movie
}

// NewQueue returns a queue over a copy of episodes.
func NewQueue(episodes []media.Movie) *Queue {
	return &Queue{items: append([]media.Movie(nil), episodes...)}
}

// Len returns the number of queued episodes.
func (q *Queue) Len() int {
	return len(q.items)
}

// At returns the episode at position i.
func (q *Queue) At(i int) (media.Movie, bool) {
	if i < 0 || i >= len(q.items) {
		return media.Movie{}, false
	}
	return q.items[i], true
}

// Index returns the position of the episode with the given ID, or -1.
func (q *Queue) Index(id string) int {
	for i, m := range q.items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the episode after the one with the given ID. It reports
// false at the end of the queue or when id is not queued.
func (q *Queue) Next(id string) (media.Movie, bool) {
	i := q.Index(id)
	if i < 0 {
		return media.Movie{}, false
	}
	return q.At(i + 1)
}

// Items returns a copy of the queued episodes.
func (q *Queue) Items() []media.Movie {
	return append([]media.Movie(nil), q.items...)
}
