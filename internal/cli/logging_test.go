package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jameslewellyn/recipe-scan-tool/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	log.Info().Msg("dropped")
	log.Warn().Str("item", "card.png").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1:\n%s", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" || entry["message"] != "kept" || entry["item"] != "card.png" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestNewLogger_Console(t *testing.T) {
	for _, format := range []string{"console", ""} {
		var buf bytes.Buffer
		log, err := NewLogger(config.LoggingConfig{Level: "debug", Format: format}, &buf)
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", format, err)
		}
		log.Debug().Msg("hello")
		out := buf.String()
		if !strings.Contains(out, "hello") || strings.HasPrefix(out, "{") {
			t.Errorf("format %q: unexpected output %q", format, out)
		}
	}
}

func TestNewLogger_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"bad level", config.LoggingConfig{Level: "loud", Format: "json"}},
		{"bad format", config.LoggingConfig{Level: "info", Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLogger(tt.cfg, &bytes.Buffer{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
