package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/reporter"
	"github.com/Nomadcxx/nasflix/internal/series"
	"github.com/Nomadcxx/nasflix/internal/titles"
)

func emit(ctx context.Context, report reporter.Report, format reporter.Format) error {
	if saveReport {
		path, err := reporter.Generate(report, format)
		if err != nil {
			return err
		}
		fmt.Printf("Report saved to:\n  %s\n", path)
		return nil
	}
	return writeReport(ctx, os.Stdout, report, format)
}

// writeReport streams text reports series by series so a long listing can
// be interrupted; other formats are encoded whole.
func writeReport(ctx context.Context, w io.Writer, report reporter.Report, format reporter.Format) error {
	if format != reporter.FormatText {
		return reporter.Write(w, report, format)
	}

	sr := reporter.NewStreamingReporter(w, report.Source, report.Timestamp)
	for _, s := range report.Series {
		if err := sr.WriteSeries(ctx, s); err != nil {
			return err
		}
	}
	return sr.Finalize()
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// groupInput groups a JSON array of categories, as the catalog's list
// endpoint returns them, or a flat JSON array of movies.
func groupInput(g *series.Grouper, data []byte) ([]series.Series, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("input must be a JSON array of categories or movies: %w", err)
	}

	if isCategoryList(raw) {
		var cats []media.Category
		if err := json.Unmarshal(data, &cats); err != nil {
			return nil, fmt.Errorf("failed to parse categories: %w", err)
		}
		var out []series.Series
		for _, cat := range cats {
			out = append(out, g.GroupCategory(cat, cat.Path)...)
		}
		return out, nil
	}

	var movies []media.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("failed to parse movies: %w", err)
	}
	return g.GroupBySeries(movies), nil
}

// isCategoryList reports whether the objects look like categories: they
// carry a name or a movies list and no video URL.
func isCategoryList(objs []map[string]json.RawMessage) bool {
	for _, obj := range objs {
		if _, ok := obj["videoUrl"]; ok {
			return false
		}
		_, hasName := obj["name"]
		_, hasMovies := obj["movies"]
		if hasName || hasMovies {
			return true
		}
	}
	return false
}

// writeCleanTable prints one row per raw title.
func writeCleanTable(out io.Writer, c *titles.Cleaner, raws []string, keepSubtitle, includeYear bool) error {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLEAN TITLE\tSEASON\tEPISODE\tPRETTY TITLE\tRAW")
	for _, raw := range raws {
		episode := "-"
		if n, ok := titles.ExtractEpisode(raw); ok {
			episode = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			c.CleanTitle(raw, keepSubtitle, includeYear),
			titles.ExtractSeason(raw),
			episode,
			titles.PrettyTitle(raw),
			raw)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func formatPosition(ms int64) string {
	d := (time.Duration(ms) * time.Millisecond).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
