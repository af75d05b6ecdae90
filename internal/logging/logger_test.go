package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", &buf)

	logger.Log(t.Context(), LevelTrace, "too quiet")
	logger.Debug("audible")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Errorf("trace message logged at debug level: %q", out)
	}
	if !strings.Contains(out, "audible") {
		t.Errorf("debug message missing from output: %q", out)
	}
}

func TestNewLogger_TraceLevelLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(t.Context(), LevelTrace, "per-day detail")

	out := buf.String()
	if !strings.Contains(out, "TRACE") {
		t.Errorf("trace record not labeled TRACE: %q", out)
	}
	if !strings.Contains(out, "per-day detail") {
		t.Errorf("trace message missing from output: %q", out)
	}
}
