package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Nomadcxx/nasflix/internal/series"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Report is a grouping result ready to print or save.
type Report struct {
	Timestamp time.Time       `json:"generated" yaml:"generated"`
	Source    string          `json:"source" yaml:"source"`
	Series    []series.Series `json:"series" yaml:"series"`
}

// TotalEpisodes counts the episodes of every series.
func (r Report) TotalEpisodes() int {
	total := 0
	for _, s := range r.Series {
		total += len(s.Episodes)
	}
	return total
}

// Write renders report to w in the given format.
func Write(w io.Writer, report Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, buildReportContent(report))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Generate writes report to a timestamped file in the report directory
// and returns its path.
func Generate(report Report, format Format) (string, error) {
	reportDir := getReportDir()
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	ext := string(format)
	if format == FormatText || format == "" {
		ext = "txt"
	}
	filename := filepath.Join(reportDir, report.Timestamp.Format("20060102_150405")+"."+ext)

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := Write(f, report, format); err != nil {
		return "", err
	}
	return filename, nil
}

// getReportDir returns the report directory path
func getReportDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "nasflix", "reports")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nasflix", "reports")
	}
	return filepath.Join(home, ".local/share/nasflix/reports")
}

// buildReportContent generates the report text
func buildReportContent(report Report) string {
	var sb strings.Builder
	sr := NewStreamingReporter(&sb, report.Source, report.Timestamp)
	for _, s := range report.Series {
		// A strings.Builder never fails and the context is never cancelled.
		_ = sr.WriteSeries(context.Background(), s)
	}
	_ = sr.Finalize()
	return sb.String()
}
