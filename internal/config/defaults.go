package config

import "github.com/ayusman/sinais/internal/gesture"

const (
	defaultConfigPath       = "~/.config/sinais/config.toml"
	defaultDataDir          = "~/.sinais"
	defaultPluginDirName    = "plugins"
	defaultLogDirName       = "logs"
	defaultAPIBind          = "127.0.0.1:8080"
	defaultSampleIntervalMs = 100
	defaultPluginTimeoutMs  = 5000
	defaultCameraWidth      = 640
	defaultCameraHeight     = 480
	defaultCameraFPS        = 10
	defaultMaxHands         = 1
	defaultConfidence       = 0.5
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns the built-in configuration.
func Default() Config {
	phrase := make([]string, len(gesture.DefaultPhrase))
	for i, l := range gesture.DefaultPhrase {
		phrase[i] = string(l)
	}

	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		Camera: Camera{
			Width:  defaultCameraWidth,
			Height: defaultCameraHeight,
			FPS:    defaultCameraFPS,
		},
		Detector: Detector{
			MaxHands:               defaultMaxHands,
			MinDetectionConfidence: defaultConfidence,
			MinTrackingConfidence:  defaultConfidence,
		},
		Pipeline: Pipeline{
			SampleIntervalMs: defaultSampleIntervalMs,
			PluginTimeoutMs:  defaultPluginTimeoutMs,
			RecordRuns:       true,
			StartEnabled:     true,
		},
		Gesture: Gesture{
			Phrase:       phrase,
			Window:       gesture.DefaultWindow,
			HoldFrames:   gesture.DefaultHoldFrames,
			CooldownMs:   int(gesture.DefaultCooldown.Milliseconds()),
			ResetDelayMs: int(gesture.DefaultResetDelay.Milliseconds()),
			Thresholds:   gesture.DefaultThresholds(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Tray: Tray{Enabled: true},
	}
}
