// SPDX-License-Identifier: MIT
package config

import "time"

// Core configuration constants that define the boundaries and defaults
// for the playback engine.
const (
	// Default values for the engine configuration
	DefaultLogLevel        = "info"
	DefaultAccelerator     = "software" // CPU fallback processor
	DefaultPollInterval    = 50 * time.Millisecond
	DefaultFramesPerBuffer = 1024 // PortAudio output buffer size in frames
	DefaultNoAudio         = false
	DefaultStatusAddr      = "" // Status broadcasting disabled by default
	DefaultCommand         = ""

	// Playback limits
	MaxPollInterval = 50 * time.Millisecond // Upper bound on pause/stop latency
	MaxSeekSeconds  = 86400.0               // Reject seeks past 24h outright
	MaxBufferFrames = 8192                  // Maximum sink buffer size in frames

	// EQ parameter bounds (inclusive)
	MinEQFrequencyHz = 20.0
	MaxEQFrequencyHz = 20000.0
	MinEQGainDB      = -20.0
	MaxEQGainDB      = 20.0
	MinEQQ           = 0.1
	MaxEQQ           = 10.0

	// Transform limits
	MinTargetBitrateKbps = 8
	MaxTargetBitrateKbps = 10000
	MinSampleRate        = 8000
	MaxSampleRate        = 192000
)

// Config holds all runtime configuration options for the playback engine.
// It is constructed via command line flags and/or a YAML configuration file
// (see fileConfig in yaml.go for the document layout).
type Config struct {
	// Logging
	LogLevel string

	// Processing bridge selection: "software" or "none".
	Accelerator string

	// Playback settings
	PollInterval    time.Duration // Pause/stop poll bound
	FramesPerBuffer int           // Sink buffer size
	NoAudio         bool          // Discard output instead of opening a device

	// Status event broadcasting ("" disables the websocket server).
	StatusAddr string

	// One-off command to execute instead of the REPL.
	Command string

	// File to load before entering the REPL.
	InitialFile string
}

// NewConfig creates a new Config instance with default values. This is the
// base configuration before applying a config file or command line flags.
func NewConfig() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		Accelerator:     DefaultAccelerator,
		PollInterval:    DefaultPollInterval,
		FramesPerBuffer: DefaultFramesPerBuffer,
		NoAudio:         DefaultNoAudio,
		StatusAddr:      DefaultStatusAddr,
		Command:         DefaultCommand,
	}
}
