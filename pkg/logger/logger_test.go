package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer

	jsonLogger := slog.New(NewHandler(&buf, slog.LevelInfo, "json"))
	jsonLogger.Info("hello", "k", "v")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("json format did not produce JSON output: %q", buf.String())
	}

	buf.Reset()
	textLogger := slog.New(NewHandler(&buf, slog.LevelInfo, "text"))
	textLogger.Info("hello", "k", "v")
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("text format produced JSON output: %q", buf.String())
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn, "text"))

	log.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info record emitted below warn level: %q", buf.String())
	}

	log.Warn("emitted")
	if buf.Len() == 0 {
		t.Error("warn record was suppressed")
	}
}
