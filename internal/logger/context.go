package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
)

type contextKey string

const (
	ctxRID      contextKey = "rid"
	ctxUpdateID contextKey = "update_id"
	ctxUserID   contextKey = "user_id"
	ctxChatID   contextKey = "chat_id"
	ctxLogger   contextKey = "logger"
)

// WithLogger stores the provided slog.Logger in ctx for propagation
// across layers.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxLogger, log)
}

// FromContext extracts the slog.Logger from ctx, if any.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if l, ok := ctx.Value(ctxLogger).(*slog.Logger); ok {
		return l
	}
	return L
}

// WithRID attaches a request correlation id to ctx.
func WithRID(ctx context.Context, rid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRID, rid)
}

// RIDFrom extracts the rid from ctx if present.
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(ctxRID).(string); ok {
		return s
	}
	return ""
}

// WithUpdateMeta attaches common update identifiers to ctx.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUpdateID, updateID)
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxChatID, chatID)
	return ctx
}

// UserIDFrom extracts the Telegram user ID from ctx.
func UserIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(ctxUserID).(int64); ok {
		return id
	}
	return 0
}

// ChatIDFrom extracts the chat id from ctx.
func ChatIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(ctxChatID).(int64); ok {
		return id
	}
	return 0
}

// UpdateIDFrom extracts the update identifier from ctx.
func UpdateIDFrom(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(ctxUpdateID).(int); ok {
		return id
	}
	return 0
}

// BuildRID returns a correlation identifier in updateID:chatID:userID
// format.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if rid := RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		attrs = append(attrs, slog.Int("update_id", id))
	}
	if id := UserIDFrom(ctx); id != 0 {
		attrs = append(attrs, slog.Int64("user_id", id))
	}
	if id := ChatIDFrom(ctx); id != 0 {
		attrs = append(attrs, slog.Int64("chat_id", id))
	}
	return attrs
}

// RoundMS rounds a duration to whole milliseconds for log output.
func RoundMS(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}

// Sanitize trims non-printable runes from s to keep logs clean. Tab
// and newline survive; other control characters are dropped.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeLimit applies Sanitize and limits the output length in runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	cleaned := Sanitize(s)
	r := []rune(cleaned)
	if len(r) <= max {
		return cleaned
	}
	return string(r[:max])
}
