package reporter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/series"
)

func TestStreamingReporterTotals(t *testing.T) {
	var buf bytes.Buffer
	sr := NewStreamingReporter(&buf, "", time.Time{})

	ctx := context.Background()
	groups := series.GroupBySeries([]media.Movie{
		{ID: "1", Title: "A 1화.mp4", VideoURL: "/1"},
		{ID: "2", Title: "A 2화.mp4", VideoURL: "/2"},
		{ID: "3", Title: "B.mkv", VideoURL: "/3"},
	})
	for _, s := range groups {
		if err := sr.WriteSeries(ctx, s); err != nil {
			t.Fatalf("WriteSeries() error = %v", err)
		}
	}

	if n, eps := sr.Totals(); n != 2 || eps != 3 {
		t.Errorf("Totals() = %d, %d, want 2, 3", n, eps)
	}
	if buf.Len() > 0 && strings.Contains(buf.String(), "SUMMARY") {
		t.Errorf("summary written before Finalize")
	}
	if err := sr.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Generated:") || strings.Contains(out, "Source:") {
		t.Errorf("empty header fields should be omitted\n%s", out)
	}
	if !strings.Contains(out, "Episodes: 3") {
		t.Errorf("summary missing\n%s", out)
	}
}

func TestStreamingReporterCancelled(t *testing.T) {
	sr := NewStreamingReporter(&bytes.Buffer{}, "", time.Time{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sr.WriteSeries(ctx, series.Series{Title: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WriteSeries() error = %v, want context.Canceled", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamingReporterWriteError(t *testing.T) {
	sr := NewStreamingReporter(failingWriter{}, "src", time.Time{})
	if err := sr.Finalize(); err == nil {
		t.Error("Finalize() on a failing writer returned nil")
	}
}

func TestFormatEpisodeAlignsWideTitles(t *testing.T) {
	wide := FormatEpisode(media.Movie{Title: "짱구는 못말려 12화.mp4"})
	narrow := FormatEpisode(media.Movie{Title: "Friends.S01E12.mkv"})

	// The raw title column starts at the same display width in both rows.
	wideCol := runewidth.StringWidth(wide[:strings.Index(wide, "짱구는 못말려 12화.mp4")])
	narrowCol := runewidth.StringWidth(narrow[:strings.LastIndex(narrow, "Friends.S01E12.mkv")])
	if wideCol != narrowCol {
		t.Errorf("raw title column = %d and %d, want equal\n%s\n%s", wideCol, narrowCol, wide, narrow)
	}
	if !strings.HasPrefix(wide, "S01E12  ") {
		t.Errorf("FormatEpisode() = %q, want S01E12 prefix", wide)
	}

	long := FormatEpisode(media.Movie{Title: strings.Repeat("가", 60) + " 1화.mp4"})
	if !strings.Contains(long, "…") {
		t.Errorf("long title not truncated: %q", long)
	}
}
