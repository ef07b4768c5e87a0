package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("company_id", "co-1").Msg("hello")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above debug level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q", lines[0])
	}
	if entry["message"] != "hello" || entry["company_id"] != "co-1" || entry["service"] != "ledger" {
		t.Fatalf("unexpected fields: %v", entry)
	}
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "debug", Format: "console"}, &buf)

	log.Debug().Msg("hello")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, "hello") {
		t.Fatalf("expected console output, got %q", out)
	}
}
