package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/sinais/internal/config"
)

func TestNewJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("gesture accepted", "component", "driver", "label", "bom", "step", 1)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "gesture accepted" || entry["level"] != "info" || entry["label"] != "bom" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts key")
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false, false))

	logger.With("component", "driver").WithGroup("hold").Info("observed",
		"label", "dia", "count", 3, "elapsed", 1500*time.Millisecond)
	logger.Warn("plugin failed", "error", errors.New("exit status 1"))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if !strings.Contains(lines[0], "INFO driver: observed") {
		t.Errorf("line 0 = %q", lines[0])
	}
	for _, want := range []string{"hold.label=dia", "hold.count=3", "hold.elapsed=1.5s"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line 0 = %q, missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], `WARN plugin failed error="exit status 1"`) {
		t.Errorf("line 1 = %q", lines[1])
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("unexpected color codes")
	}
}

func TestConsoleHandlerColorAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl, false, true))

	logger.Info("skipped")
	logger.Error("boom")

	out := buf.String()
	if strings.Contains(out, "skipped") {
		t.Errorf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, ansiRed+"ERROR"+ansiReset) {
		t.Errorf("expected colored level, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	logger.Info("started")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"started"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger should drop errors")
	}
}
