package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/sinais/internal/config"
	"github.com/ayusman/sinais/internal/gesture"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Fatal("expected no config file")
	}
	if want := filepath.Join(home, ".config", "sinais", "config.toml"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	if cfg.Paths.DataDir != filepath.Join(home, ".sinais") {
		t.Errorf("DataDir = %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.PluginDir != filepath.Join(home, ".sinais", "plugins") {
		t.Errorf("PluginDir = %q", cfg.Paths.PluginDir)
	}
	if cfg.Paths.LogDir != filepath.Join(home, ".sinais", "logs") {
		t.Errorf("LogDir = %q", cfg.Paths.LogDir)
	}
	if cfg.SampleInterval() != 100*time.Millisecond {
		t.Errorf("SampleInterval() = %v", cfg.SampleInterval())
	}
	if cfg.PluginTimeout() != 5*time.Second {
		t.Errorf("PluginTimeout() = %v", cfg.PluginTimeout())
	}
	if cfg.DatabasePath() != filepath.Join(home, ".sinais", "sinais.db") {
		t.Errorf("DatabasePath() = %q", cfg.DatabasePath())
	}

	gc, err := cfg.GestureConfig()
	if err != nil {
		t.Fatalf("GestureConfig() error = %v", err)
	}
	want := gesture.DefaultConfig()
	if gesture.JoinLabels(gc.Phrase) != gesture.JoinLabels(want.Phrase) {
		t.Errorf("phrase = %v, want %v", gc.Phrase, want.Phrase)
	}
	if gc.Window != want.Window || gc.HoldFrames != want.HoldFrames {
		t.Errorf("window/hold = %d/%d", gc.Window, gc.HoldFrames)
	}
	if gc.Cooldown != want.Cooldown || gc.ResetDelay != want.ResetDelay {
		t.Errorf("cooldown/reset = %v/%v", gc.Cooldown, gc.ResetDelay)
	}
	if gc.Thresholds != want.Thresholds {
		t.Errorf("thresholds = %+v", gc.Thresholds)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"
api_bind = "0.0.0.0:9000"

[pipeline]
sample_interval_ms = 50

[gesture]
phrase = ["Emergência", " bom "]
hold_frames = 3
cooldown_ms = 200
swap_dia_emergencia = true

[gesture.thresholds]
bom_max = 0.4

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.PluginDir != filepath.Join(dir, "data", "plugins") {
		t.Errorf("PluginDir = %q", cfg.Paths.PluginDir)
	}
	if cfg.Paths.APIBind != "0.0.0.0:9000" {
		t.Errorf("APIBind = %q", cfg.Paths.APIBind)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}

	gc, err := cfg.GestureConfig()
	if err != nil {
		t.Fatalf("GestureConfig() error = %v", err)
	}
	if got := gesture.JoinLabels(gc.Phrase); got != "emergencia bom" {
		t.Errorf("phrase = %q", got)
	}
	if gc.HoldFrames != 3 || gc.Cooldown != 200*time.Millisecond || !gc.SwapDiaEmergencia {
		t.Errorf("gesture config = %+v", gc)
	}
	if gc.Thresholds.BomMax != 0.4 {
		t.Errorf("BomMax = %v", gc.Thresholds.BomMax)
	}
	if gc.Thresholds.DiaIndexMiddleMax != gesture.DefaultThresholds().DiaIndexMiddleMax {
		t.Error("unset thresholds should keep their defaults")
	}
	if gc.Window != gesture.DefaultWindow {
		t.Errorf("Window = %d", gc.Window)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown label", "[gesture]\nphrase = [\"tchau\"]\n", "unknown gesture label"},
		{"empty phrase", "[gesture]\nphrase = []\n", "at least one gesture"},
		{"zero window", "[gesture]\nwindow = 0\n", "gesture.window"},
		{"inverted dia band", "[gesture.thresholds]\ndia_index_middle_min = 0.9\ndia_index_middle_max = 0.5\n", "dia_index_middle_min"},
		{"bad interval", "[pipeline]\nsample_interval_ms = 0\n", "sample_interval_ms"},
		{"bad confidence", "[detector]\nmin_tracking_confidence = 1.5\n", "min_tracking_confidence"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown key", "[gesture]\nspeed = 3\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDirectoryPath(t *testing.T) {
	if _, _, _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample() error = %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(sample) error = %v", err)
	}
	if !exists {
		t.Fatal("sample file not found")
	}
	def := config.Default()
	if strings.Join(cfg.Gesture.Phrase, ",") != strings.Join(def.Gesture.Phrase, ",") {
		t.Errorf("sample phrase = %v", cfg.Gesture.Phrase)
	}
	if cfg.Gesture.Thresholds != def.Gesture.Thresholds {
		t.Errorf("sample thresholds = %+v", cfg.Gesture.Thresholds)
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.PluginDir = filepath.Join(root, "data", "plugins")
	cfg.Paths.LogDir = filepath.Join(root, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.PluginDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %q not created", dir)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/sinais/db")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != filepath.Join(home, "sinais", "db") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Gesture.HoldFrames = 9

	data, err := config.Encode(&cfg)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Gesture.HoldFrames != 9 {
		t.Errorf("HoldFrames = %d, want 9", loaded.Gesture.HoldFrames)
	}
}
