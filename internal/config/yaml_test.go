// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with no file: %v", err)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("poll interval = %v, want %v", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.Accelerator != DefaultAccelerator {
		t.Errorf("accelerator = %q, want %q", cfg.Accelerator, DefaultAccelerator)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")
	body := "log_level: debug\naccelerator: none\npoll_interval: 10ms\nframes_per_buffer: 512\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Accelerator != "none" {
		t.Errorf("accelerator = %q, want none", cfg.Accelerator)
	}
	if cfg.PollInterval != 10*time.Millisecond {
		t.Errorf("poll interval = %v, want 10ms", cfg.PollInterval)
	}
	if cfg.FramesPerBuffer != 512 {
		t.Errorf("frames per buffer = %d, want 512", cfg.FramesPerBuffer)
	}
}

func TestLoadConfigExplicitPathMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLAYER_ACCELERATOR", "none")
	t.Setenv("PLAYER_NO_AUDIO", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Accelerator != "none" {
		t.Errorf("accelerator = %q, want none", cfg.Accelerator)
	}
	if !cfg.NoAudio {
		t.Error("NoAudio should be overridden to true")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown accelerator", func(c *Config) { c.Accelerator = "quantum" }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"poll interval above ceiling", func(c *Config) { c.PollInterval = 200 * time.Millisecond }},
		{"oversized buffer", func(c *Config) { c.FramesPerBuffer = MaxBufferFrames + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
