package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateDetector(); err != nil {
		return err
	}
	if err := c.validateGesture(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.SampleIntervalMs <= 0 {
		return errors.New("pipeline.sample_interval_ms must be positive")
	}
	if c.Pipeline.PluginTimeoutMs < 0 {
		return errors.New("pipeline.plugin_timeout_ms must not be negative")
	}
	return nil
}

func (c *Config) validateDetector() error {
	if c.Detector.MaxHands < 1 {
		return errors.New("detector.max_hands must be at least 1")
	}
	for name, v := range map[string]float64{
		"detector.min_detection_confidence": c.Detector.MinDetectionConfidence,
		"detector.min_tracking_confidence":  c.Detector.MinTrackingConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	return nil
}

func (c *Config) validateGesture() error {
	if c.Gesture.Window < 1 {
		return errors.New("gesture.window must be at least 1")
	}
	if c.Gesture.HoldFrames < 1 {
		return errors.New("gesture.hold_frames must be at least 1")
	}
	if c.Gesture.CooldownMs < 0 || c.Gesture.ResetDelayMs < 0 {
		return errors.New("gesture.cooldown_ms and gesture.reset_delay_ms must not be negative")
	}
	gc, err := c.GestureConfig()
	if err != nil {
		return err
	}
	if err := gc.Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
