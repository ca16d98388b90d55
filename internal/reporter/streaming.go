package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/series"
	"github.com/Nomadcxx/nasflix/internal/titles"
)

const (
	ruleWidth  = 80
	titleWidth = 40
)

// StreamingReporter writes series blocks as they are produced and a
// summary once finalized.
type StreamingReporter struct {
	w             *bufio.Writer
	timestamp     time.Time
	source        string
	totalSeries   int
	totalEpisodes int
	err           error
}

// NewStreamingReporter writes the report header to w.
func NewStreamingReporter(w io.Writer, source string, timestamp time.Time) *StreamingReporter {
	sr := &StreamingReporter{
		w:         bufio.NewWriter(w),
		timestamp: timestamp,
		source:    source,
	}
	sr.writeHeader()
	return sr
}

func (sr *StreamingReporter) writeHeader() {
	sr.printf("NASFLIX SERIES REPORT\n")
	sr.printf("%s\n", strings.Repeat("=", ruleWidth))
	if !sr.timestamp.IsZero() {
		sr.printf("Generated: %s\n", sr.timestamp.Format("2006-01-02 15:04:05"))
	}
	if sr.source != "" {
		sr.printf("Source: %s\n", sr.source)
	}
	sr.printf("\n")
}

// WriteSeries writes one series block.
func (sr *StreamingReporter) WriteSeries(ctx context.Context, s series.Series) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sr.totalSeries++
	sr.totalEpisodes += len(s.Episodes)

	title := s.Title
	if s.Year != "" {
		title += " (" + s.Year + ")"
	}
	sr.printf("%s [%d episodes]\n", title, len(s.Episodes))
	if s.FullPath != "" {
		sr.printf("  Path: %s\n", s.FullPath)
	}
	if len(s.GenreNames) > 0 {
		sr.printf("  Genres: %s\n", strings.Join(s.GenreNames, ", "))
	}

	for _, season := range series.SplitSeasons(s.Episodes) {
		for _, ep := range season.Episodes {
			sr.printf("  %s\n", FormatEpisode(ep))
		}
	}
	sr.printf("\n")

	if sr.err != nil {
		return fmt.Errorf("failed to write series: %w", sr.err)
	}
	return nil
}

// Finalize writes the summary and flushes the output.
func (sr *StreamingReporter) Finalize() error {
	sr.printf("SUMMARY\n")
	sr.printf("%s\n", strings.Repeat("=", ruleWidth))
	sr.printf("Series: %d\n", sr.totalSeries)
	sr.printf("Episodes: %d\n", sr.totalEpisodes)

	if sr.err != nil {
		return fmt.Errorf("failed to write summary: %w", sr.err)
	}
	if err := sr.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// Totals returns the series and episode counts written so far.
func (sr *StreamingReporter) Totals() (seriesCount, episodes int) {
	return sr.totalSeries, sr.totalEpisodes
}

func (sr *StreamingReporter) printf(format string, args ...any) {
	if sr.err != nil {
		return
	}
	_, sr.err = fmt.Fprintf(sr.w, format, args...)
}

// FormatEpisode renders one episode row: its SxxEyy code, the display
// title padded to a fixed terminal width, then the raw title.
func FormatEpisode(ep media.Movie) string {
	season, episode := series.EffectiveNumbers(ep)
	display := runewidth.Truncate(titles.PrettyTitle(ep.Title), titleWidth, "…")
	display = runewidth.FillRight(display, titleWidth)
	return fmt.Sprintf("S%02dE%02d  %s  %s", season, episode, display, ep.Title)
}
