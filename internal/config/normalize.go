package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGesture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.PluginDir) == "" {
		c.Paths.PluginDir = filepath.Join(c.Paths.DataDir, defaultPluginDirName)
	}
	if c.Paths.PluginDir, err = expandPath(c.Paths.PluginDir); err != nil {
		return fmt.Errorf("paths.plugin_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, defaultLogDirName)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	if c.Paths.StaticDir, err = expandPath(strings.TrimSpace(c.Paths.StaticDir)); err != nil {
		return fmt.Errorf("paths.static_dir: %w", err)
	}
	if c.Detector.Script, err = expandPath(strings.TrimSpace(c.Detector.Script)); err != nil {
		return fmt.Errorf("detector.script: %w", err)
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeGesture() {
	phrase := c.Gesture.Phrase[:0]
	for _, name := range c.Gesture.Phrase {
		if name = strings.TrimSpace(name); name != "" {
			phrase = append(phrase, name)
		}
	}
	c.Gesture.Phrase = phrase
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
