package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctx = WithRID(ctx, "1:2:3")
	if got := RIDFrom(ctx); got != "1:2:3" {
		t.Errorf("rid = %q", got)
	}

	ctx = WithUpdateMeta(ctx, 10, 20, 30)
	if got := UpdateIDFrom(ctx); got != 10 {
		t.Errorf("update_id = %d", got)
	}
	if got := UserIDFrom(ctx); got != 20 {
		t.Errorf("user_id = %d", got)
	}
	if got := ChatIDFrom(ctx); got != 30 {
		t.Errorf("chat_id = %d", got)
	}
}

func TestContextDefaults(t *testing.T) {
	if RIDFrom(context.Background()) != "" {
		t.Error("rid must default to empty")
	}
	if UserIDFrom(nil) != 0 || ChatIDFrom(nil) != 0 || UpdateIDFrom(nil) != 0 {
		t.Error("nil context must yield zero identifiers")
	}
}

func TestWithLogger(t *testing.T) {
	log := slog.Default().With("component", "test")
	ctx := WithLogger(context.Background(), log)
	if FromContext(ctx) != log {
		t.Error("logger not propagated through context")
	}
}

func TestBuildRID(t *testing.T) {
	if got := BuildRID(1, 2, 3); got != "1:2:3" {
		t.Errorf("BuildRID = %q", got)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"plain":           "plain",
		"tab\tand\nline":  "tab\tand\nline",
		"bell\x07strip":   "bellstrip",
		"del\x7fgone":     "delgone",
		"русский текст ✅": "русский текст ✅",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("абвгд", 3); got != "абв" {
		t.Errorf("limit = %q", got)
	}
	if got := SanitizeLimit("short", 10); got != "short" {
		t.Errorf("under limit = %q", got)
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Errorf("zero limit = %q", got)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1234567 * time.Nanosecond); got != time.Millisecond {
		t.Errorf("RoundMS = %v", got)
	}
}
