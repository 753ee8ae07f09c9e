package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/textkit/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTextConsole(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	defer closer.Close()

	log.Info("hidden")
	log.Warn("shown", "font", "Go")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "font=Go") {
		t.Errorf("output = %q", out)
	}
}

func TestJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	defer closer.Close()

	log.Debug("layout", "lines", 3)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if rec["msg"] != "layout" || rec["lines"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textkit.log")
	var buf bytes.Buffer
	log, closer := New(config.LoggingConfig{Level: "info", File: path}, &buf)

	log.With("component", "async").Info("started", "workers", 2)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("file record not JSON: %q", data)
	}
	if rec["msg"] != "started" || rec["component"] != "async" {
		t.Errorf("file record = %v", rec)
	}
	if !strings.Contains(buf.String(), "msg=started") {
		t.Errorf("console missed the record: %q", buf.String())
	}
}
