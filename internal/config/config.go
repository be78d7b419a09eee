// Package config loads sinais configuration from TOML and converts it into
// the settings each subsystem consumes.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ayusman/sinais/internal/detector"
	"github.com/ayusman/sinais/internal/gesture"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	PluginDir string `toml:"plugin_dir"`
	LogDir    string `toml:"log_dir"`
	StaticDir string `toml:"static_dir"`
	APIBind   string `toml:"api_bind"`
}

// Camera selects and sizes the capture device.
type Camera struct {
	DeviceID int `toml:"device_id"`
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	FPS      int `toml:"fps"`
}

// Detector configures the MediaPipe landmark service.
type Detector struct {
	Script                 string  `toml:"script"`
	MaxHands               int     `toml:"max_hands"`
	MinDetectionConfidence float64 `toml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `toml:"min_tracking_confidence"`
}

// Pipeline contains the periodic driver settings.
type Pipeline struct {
	SampleIntervalMs int  `toml:"sample_interval_ms"`
	PluginTimeoutMs  int  `toml:"plugin_timeout_ms"`
	RecordRuns       bool `toml:"record_runs"`
	StartEnabled     bool `toml:"start_enabled"`
}

// Gesture holds the recognition tuning and the target phrase.
type Gesture struct {
	Phrase            []string           `toml:"phrase"`
	Window            int                `toml:"window"`
	HoldFrames        int                `toml:"hold_frames"`
	CooldownMs        int                `toml:"cooldown_ms"`
	ResetDelayMs      int                `toml:"reset_delay_ms"`
	SwapDiaEmergencia bool               `toml:"swap_dia_emergencia"`
	Thresholds        gesture.Thresholds `toml:"thresholds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Tray toggles the system tray menu.
type Tray struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for sinais.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Camera   Camera   `toml:"camera"`
	Detector Detector `toml:"detector"`
	Pipeline Pipeline `toml:"pipeline"`
	Gesture  Gesture  `toml:"gesture"`
	Logging  Logging  `toml:"logging"`
	Tray     Tray     `toml:"tray"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses and validates a configuration file. A missing file is
// not an error: defaults are used and the second result names where the file
// would live. The third result reports whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return expanded, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the data, plugin and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.PluginDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "sinais.db")
}

// LockPath returns the single-instance lock file inside the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "sinais.lock")
}

// SampleInterval returns the driver tick period.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Pipeline.SampleIntervalMs) * time.Millisecond
}

// PluginTimeout returns the per-run plugin timeout.
func (c *Config) PluginTimeout() time.Duration {
	return time.Duration(c.Pipeline.PluginTimeoutMs) * time.Millisecond
}

// GestureConfig converts the [gesture] section into a session configuration.
func (c *Config) GestureConfig() (gesture.Config, error) {
	phrase, err := gesture.ParsePhrase(c.Gesture.Phrase)
	if err != nil {
		return gesture.Config{}, fmt.Errorf("gesture.phrase: %w", err)
	}
	return gesture.Config{
		Phrase:            phrase,
		Thresholds:        c.Gesture.Thresholds,
		Window:            c.Gesture.Window,
		HoldFrames:        c.Gesture.HoldFrames,
		Cooldown:          time.Duration(c.Gesture.CooldownMs) * time.Millisecond,
		ResetDelay:        time.Duration(c.Gesture.ResetDelayMs) * time.Millisecond,
		SwapDiaEmergencia: c.Gesture.SwapDiaEmergencia,
	}, nil
}

// DetectorConfig converts the [detector] section.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
		Script:          c.Detector.Script,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
