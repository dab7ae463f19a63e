// Package logging sets up the reader's structured logger. The terminal is
// taken over while reading, so records go to a file and warnings are kept
// for the status line.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLevel converts a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

// New opens (appending) the log file at path and returns a logger that
// fans out to it and to the returned Notices. Close the returned closer on exit.
func New(path, levelName string) (*slog.Logger, *Notices, io.Closer, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger, notices := NewWithWriter(f, level)
	return logger, notices, f, nil
}

// NewWithWriter builds the logger over an arbitrary writer.
func NewWithWriter(w io.Writer, level slog.Leveler) (*slog.Logger, *Notices) {
	notices := &Notices{}
	handler := slogmulti.Fanout(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
		notices,
	)
	return slog.New(handler), notices
}

// Discard returns a logger that drops everything, for tests and print mode.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Notices is a slog handler that remembers the most recent warning or
// error so it can be shown to the reader.
type Notices struct {
	mu   sync.Mutex
	last string
}

func (n *Notices) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (n *Notices) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error" {
			msg += ": " + a.Value.String()
			return false
		}
		return true
	})

	n.mu.Lock()
	n.last = msg
	n.mu.Unlock()
	return nil
}

func (n *Notices) WithAttrs([]slog.Attr) slog.Handler { return n }
func (n *Notices) WithGroup(string) slog.Handler { return n }

// Last returns the latest notice, or "".
func (n *Notices) Last() string {
	if n == nil {
		return ""
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// Clear forgets the latest notice.
func (n *Notices) Clear() {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.last = ""
	n.mu.Unlock()
}
