package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures the process logger.
type Params struct {
	Level     string
	Format    string // "text" (default) or "json"
	File      string // rotated log file; empty logs only to Stdout
	Stdout    io.Writer
	MaxSizeMB int
}

// New builds the process logger. When File is set, records are written to a
// size-rotated file as well as Stdout. The returned closer releases the file.
func New(p Params) (*slog.Logger, io.Closer) {
	out := p.Stdout
	if out == nil {
		out = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	if p.File != "" {
		maxSize := p.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		rotated := &lumberjack.Logger{
			Filename:  p.File,
			MaxSize:   maxSize, // megabytes
			LocalTime: false,
			Compress:  true,
		}
		out = io.MultiWriter(out, rotated)
		closer = rotated
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(p.Level)}
	var h slog.Handler
	if strings.EqualFold(p.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer
}

// ParseLevel maps a level name to slog.Level. Unknown names yield Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
