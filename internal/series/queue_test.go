package series

import (
	"testing"

	"github.com/Nomadcxx/nasflix/internal/media"
)

func TestQueueNext(t *testing.T) {
	q := NewQueue([]media.Movie{movie("a", "A"), movie("b", "B"), movie("c", "C")})

	tests := []struct {
		id       string
		wantID   string
		wantNext bool
	}{
		{"a", "b", true},
		{"b", "c", true},
		{"c", "", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		next, ok := q.Next(tt.id)
		if ok != tt.wantNext || next.ID != tt.wantID {
			t.Errorf("Next(%q) = (%q, %v), want (%q, %v)", tt.id, next.ID, ok, tt.wantID, tt.wantNext)
		}
	}
}

func TestQueueIndex(t *testing.T) {
	q := NewQueue([]media.Movie{movie("a", "A"), movie("b", "B")})

	if got := q.Index("b"); got != 1 {
		t.Errorf("Index(%q) = %d, want 1", "b", got)
	}
	if got := q.Index("z"); got != -1 {
		t.Errorf("Index(%q) = %d, want -1", "z", got)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestQueueCopiesInput(t *testing.T) {
	episodes := []media.Movie{movie("a", "A")}
	q := NewQueue(episodes)
	episodes[0].ID = "changed"

	if m, _ := q.At(0); m.ID != "a" {
		t.Errorf("queue shares caller's slice: At(0).ID = %q", m.ID)
	}
	if _, ok := q.At(5); ok {
		t.Errorf("At(5) reported ok on a 1-item queue")
	}
}
