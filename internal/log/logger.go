package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Levels accepted in config, lowest first. "trace" is debug plus the
// package's Trace calls.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// Logger writes JSON lines for nasflix.
type Logger struct {
	logger       *slog.Logger
	closer       io.Closer
	traceEnabled bool
}

// Config selects the level and destination file.
type Config struct {
	// One of Levels; empty means info
	Level string
	// File to append to; created with its directory when missing
	FilePath string
}

// New opens config.FilePath and returns a logger writing to it.
func New(config Config) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := NewWriter(file, config.Level)
	logger.closer = file
	return logger, nil
}

// NewWriter returns a logger writing to w. The caller owns w.
func NewWriter(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	return &Logger{
		logger:       slog.New(handler),
		traceEnabled: strings.EqualFold(level, "trace"),
	}
}

// Close closes the log file, if the logger owns one.
func (l *Logger) Close() {
	if l.closer == nil {
		return
	}
	if err := l.closer.Close(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
	}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger:       l.logger.With(args...),
		traceEnabled: l.traceEnabled,
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// ValidLevel reports whether lvl is one of Levels (case-insensitive).
// The empty string is valid and means info.
func ValidLevel(lvl string) bool {
	if lvl == "" {
		return true
	}
	for _, l := range Levels {
		if strings.EqualFold(lvl, l) {
			return true
		}
	}
	return false
}

// parseLogLevel maps a config level to slog, defaulting to info.
func parseLogLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
