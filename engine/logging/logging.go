// Package logging wires log/slog for the engine. Console output goes to
// stderr (text or JSON); an optional rotated JSON file is written through
// lumberjack.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger setup. FromEnv reads them from FITVIEW_LOG_*.
type Options struct {
	Level     string // debug|info|warn|error
	Format    string // console|json
	AddSource bool
	File      string // rotated JSON log, disabled when empty

	// Output replaces stderr for the console handler
	Output io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	file    *lj.Logger
)

// L returns the engine logger, initializing it from the environment on first use
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the engine logger and slog.Default
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(out, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(out, hopts))
	}

	var w *lj.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		w = &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
	}

	h := handlers[0]
	if len(handlers) > 1 {
		h = &fanout{hs: handlers}
	}
	logger := slog.New(h).With(slog.String("app", "fitview"))

	mu.Lock()
	prev := file
	current, file = logger, w
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Env var names read by FromEnv
const (
	EnvLevel  = "FITVIEW_LOG_LEVEL"
	EnvFormat = "FITVIEW_LOG_FORMAT"
	EnvFile   = "FITVIEW_LOG_FILE"
	EnvSource = "FITVIEW_LOG_SOURCE"
)

// FromEnv builds Options from environment variables
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: strings.EqualFold(os.Getenv(EnvSource), "true"),
		File:      os.Getenv(EnvFile),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns the engine logger tagged with a component name
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation tags l with an operation name
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// fanout sends each record to every handler
type fanout struct{ hs []slog.Handler }

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		hs[i] = h.WithAttrs(attrs)
	}
	return &fanout{hs: hs}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		hs[i] = h.WithGroup(name)
	}
	return &fanout{hs: hs}
}
