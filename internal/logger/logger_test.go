package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New(&config.Config{LogLevel: "info"})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}
}

func TestNewHonoursDebugLevel(t *testing.T) {
	l := New(&config.Config{LogLevel: "DEBUG"})
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("expected debug level to be enabled")
	}
}

func TestNewWithNilConfig(t *testing.T) {
	if l := New(nil); !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("expected info level for nil config")
	}
}

func TestLoggerWritesServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, slog.LevelInfo)
	l.Info("order placed", slog.Int64("token_no", 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "foodcourt" {
		t.Fatalf("unexpected service attribute: %v", entry["service"])
	}
	if entry["msg"] != "order placed" {
		t.Fatalf("unexpected message: %v", entry["msg"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestModuleHonoursConfiguredLevel(t *testing.T) {
	var resolved *slog.Logger
	app := fx.New(
		fx.NopLogger,
		fx.Supply(&config.Config{LogLevel: "warn"}),
		Module,
		fx.Populate(&resolved),
	)
	if err := app.Err(); err != nil {
		t.Fatalf("fx app failed: %v", err)
	}
	if resolved.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be disabled at warn level")
	}
	if !resolved.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("expected warn to be enabled")
	}
}
