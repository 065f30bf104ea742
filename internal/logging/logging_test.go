package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")

	log.Debug().Str("guest", "Jane Doe").Msg("order received")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "order received" {
		t.Errorf("message: got %v", entry["message"])
	}
	if entry["guest"] != "Jane Doe" {
		t.Errorf("guest: got %v", entry["guest"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestNewLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "shouting", "json")

	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level: got %v, want info", log.GetLevel())
	}
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info, got %q", buf.String())
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "console")

	log.Info().Msg("server started")

	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console format should not be JSON: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "server started") {
		t.Errorf("missing message: %q", buf.String())
	}
}
