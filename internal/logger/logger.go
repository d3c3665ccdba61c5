// Package logger configures the process-wide structured logger and the
// context plumbing that carries request metadata between layers.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Config selects level, format and sinks for the global logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is "json" or "kv"; empty selects by Profile.
	Format string
	// Dir and File, when both set, add a file sink next to stdout.
	Dir  string
	File string
	// Profile is "debug"/"dev" or "prod"; dev profiles prefer kv output.
	Profile string
}

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logClosers []io.Closer
	levelVar   slog.LevelVar

	// L is the base logger for call sites that do not carry a context.
	L *slog.Logger
)

// Init configures the global structured logger. It may be called only
// once; later calls are no-ops.
func Init(cfg Config) error {
	var initErr error
	initOnce.Do(func() {
		levelVar.Set(parseLevel(cfg.Level))

		out, closers := buildOutputs(cfg)
		logClosers = closers

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		if selectFormat(cfg) == "kv" {
			handler = slog.NewTextHandler(out, opts)
		} else {
			handler = slog.NewJSONHandler(out, opts)
		}

		L = slog.New(handler)
		slog.SetDefault(L)
	})
	return initErr
}

// Shutdown closes any opened log sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var result *multierror.Error
	for _, c := range logClosers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Component constructs a logger scoped to the provided component name.
func Component(name string) *slog.Logger {
	base := L
	if base == nil {
		base = slog.Default()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return base
	}
	return base.With("component", name)
}

// Event logs a component-scoped event, enriching it with any request
// metadata stored in ctx (rid, update, user, chat).
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := FromContext(ctx)
	if logg == nil {
		logg = Component(component)
	} else if strings.TrimSpace(component) != "" {
		logg = logg.With("component", component)
	}

	all := make([]slog.Attr, 0, len(attrs)+5)
	if event != "" {
		all = append(all, slog.String("event", event))
	}
	all = append(all, contextAttrs(ctx)...)
	all = append(all, attrs...)
	logg.LogAttrs(ctx, level, "", all...)
}

// Debug logs a debug-level event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs an info-level event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs a warn-level event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs an error-level event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

func selectFormat(cfg Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "kv", "text", "pretty":
		return "kv"
	case "json":
		return "json"
	}
	if strings.EqualFold(cfg.Profile, "debug") || strings.EqualFold(cfg.Profile, "dev") {
		return "kv"
	}
	return "json"
}

func buildOutputs(cfg Config) (io.Writer, []io.Closer) {
	writers := []io.Writer{os.Stdout}
	var closers []io.Closer

	dir := strings.TrimSpace(cfg.Dir)
	file := strings.TrimSpace(cfg.File)
	if dir != "" && file != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("logger: failed to create log dir %s: %v", dir, err)
		} else {
			path := filepath.Join(dir, file)
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.Printf("logger: failed to open log file %s: %v", path, err)
			} else {
				writers = append(writers, f)
				closers = append(closers, f)
			}
		}
	}
	if len(writers) == 1 {
		return writers[0], closers
	}
	return io.MultiWriter(writers...), closers
}
