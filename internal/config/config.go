// SPDX-License-Identifier: MIT

// Package config loads daemon configuration with precedence ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration.
type Config struct {
	Listen        string        `yaml:"listen"`
	DataDir       string        `yaml:"data_dir"`
	RecordingsDir string        `yaml:"recordings_dir"`
	ChannelsFile  string        `yaml:"channels_file"`

	GuideURL     string        `yaml:"guide_url"`
	GuideTimeout time.Duration `yaml:"guide_timeout"`

	Timezone     string        `yaml:"timezone"`
	TickInterval time.Duration `yaml:"tick_interval"`
	StopGrace    time.Duration `yaml:"stop_grace"`
	FFmpegBin    string        `yaml:"ffmpeg_bin"`
	WatchLineup  bool          `yaml:"watch_lineup"`

	LogLevel     string `yaml:"log_level"`
	RateLimitRPS int    `yaml:"rate_limit_rps"`

	location *time.Location
}

// Defaults returns the built-in configuration defaults.
// The reference timezone defaults to Europe/London, matching the
// channel lineup this daemon is typically pointed at.
func Defaults() Config {
	return Config{
		Listen:       ":8080",
		DataDir:      "data",
		GuideTimeout: 5 * time.Second,
		Timezone:     "Europe/London",
		TickInterval: 30 * time.Second,
		StopGrace:    10 * time.Second,
		FFmpegBin:    "ffmpeg",
		WatchLineup:  true,
		LogLevel:     "info",
		RateLimitRPS: 20,
	}
}

// Load builds the effective configuration: defaults, then the optional
// YAML file at path, then environment overrides, then validation.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Listen = ParseString("PVRD_LISTEN", c.Listen)
	c.DataDir = ParseString("PVRD_DATA", c.DataDir)
	c.RecordingsDir = ParseString("PVRD_RECORDINGS", c.RecordingsDir)
	c.ChannelsFile = ParseString("PVRD_CHANNELS", c.ChannelsFile)
	c.GuideURL = ParseString("PVRD_GUIDE_URL", c.GuideURL)
	c.GuideTimeout = ParseDuration("PVRD_GUIDE_TIMEOUT", c.GuideTimeout)
	c.Timezone = ParseString("PVRD_TIMEZONE", c.Timezone)
	c.TickInterval = ParseDuration("PVRD_TICK_INTERVAL", c.TickInterval)
	c.StopGrace = ParseDuration("PVRD_STOP_GRACE", c.StopGrace)
	c.FFmpegBin = ParseString("PVRD_FFMPEG", c.FFmpegBin)
	c.WatchLineup = ParseBool("PVRD_WATCH_LINEUP", c.WatchLineup)
	c.LogLevel = ParseString("PVRD_LOG_LEVEL", c.LogLevel)
	c.RateLimitRPS = ParseInt("PVRD_RATE_LIMIT_RPS", c.RateLimitRPS)
}

func (c *Config) finalize() error {
	if c.RecordingsDir == "" {
		c.RecordingsDir = filepath.Join(c.DataDir, "recordings")
	}
	if c.ChannelsFile == "" {
		c.ChannelsFile = filepath.Join(c.DataDir, "channels.json")
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be > 0, got %v", c.TickInterval)
	}
	if c.StopGrace <= 0 {
		return fmt.Errorf("stop_grace must be > 0, got %v", c.StopGrace)
	}
	if c.GuideTimeout <= 0 {
		return fmt.Errorf("guide_timeout must be > 0, got %v", c.GuideTimeout)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location returns the resolved reference timezone.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
