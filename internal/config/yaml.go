// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it looks for "player.yaml" in the working directory. If no file
// is found, built-in defaults are used. Environment variable overrides are
// applied after the file, and the final configuration is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	searched := path
	if searched == "" {
		searched = "player.yaml"
	}

	data, err := os.ReadFile(searched)
	switch {
	case err == nil:
		var f fileConfig
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", searched, err)
		}
		if err := f.apply(cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", searched, err)
		}
	case os.IsNotExist(err) && path == "":
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", searched, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileConfig mirrors the YAML document. Durations are carried as strings
// ("10ms") and parsed here; absent fields leave the defaults alone.
type fileConfig struct {
	LogLevel        string `yaml:"log_level"`
	Accelerator     string `yaml:"accelerator"`
	PollInterval    string `yaml:"poll_interval"`
	FramesPerBuffer *int   `yaml:"frames_per_buffer"`
	NoAudio         *bool  `yaml:"no_audio"`
	StatusAddr      string `yaml:"status_addr"`
}

func (f *fileConfig) apply(cfg *Config) error {
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.Accelerator != "" {
		cfg.Accelerator = f.Accelerator
	}
	if f.PollInterval != "" {
		d, err := time.ParseDuration(f.PollInterval)
		if err != nil {
			return fmt.Errorf("poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if f.FramesPerBuffer != nil {
		cfg.FramesPerBuffer = *f.FramesPerBuffer
	}
	if f.NoAudio != nil {
		cfg.NoAudio = *f.NoAudio
	}
	if f.StatusAddr != "" {
		cfg.StatusAddr = f.StatusAddr
	}
	return nil
}

// applyEnvOverrides lets the environment win over the config file for the
// settings that matter when the binary is wrapped in scripts.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLAYER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLAYER_ACCELERATOR"); v != "" {
		cfg.Accelerator = v
	}
	if v := os.Getenv("PLAYER_STATUS_ADDR"); v != "" {
		cfg.StatusAddr = v
	}
	if v := os.Getenv("PLAYER_NO_AUDIO"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoAudio = b
		}
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Accelerator {
	case "software", "none":
	default:
		return fmt.Errorf("invalid accelerator %q (want software or none)", c.Accelerator)
	}
	if c.PollInterval <= 0 || c.PollInterval > MaxPollInterval {
		return fmt.Errorf("poll interval %v out of range (0, %v]", c.PollInterval, time.Duration(MaxPollInterval))
	}
	if c.FramesPerBuffer <= 0 || c.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("frames per buffer %d out of range (0, %d]", c.FramesPerBuffer, MaxBufferFrames)
	}
	return nil
}
