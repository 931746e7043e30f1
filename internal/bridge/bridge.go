// SPDX-License-Identifier: MIT
/*
Package bridge defines the capability seam between the engine and any
accelerated signal-processing backend. Backends report availability once at
bind time; every other call follows a fail-closed contract, returning ok=false
instead of corrupting data when an operation is not implemented.
*/
package bridge

import "errors"

var ErrUnavailable = errors.New("processing backend unavailable")

// Params carries one processing request. It is built per call and never
// persisted by a backend.
type Params struct {
	// Two-band parametric EQ.
	LowFreq    float64
	LowGainDB  float64
	LowQ       float64
	HighFreq   float64
	HighGainDB float64
	HighQ      float64

	// Source layout, needed to interpret the interleaved float buffers.
	SampleRate int
	Channels   int

	// Optional transform targets.
	TargetSampleRate int
	TargetBitrate    int

	Quality       int // 0-10
	EnableFilters bool
}

// Processor is the contract every accelerator backend implements.
//
// The engine queries IsAvailable exactly once when the backend is bound and
// never calls any other method on an unavailable backend. All buffers are
// interleaved float32 in [-1, 1].
type Processor interface {
	// ProcessAudio applies the EQ/filter chain described by params to in,
	// writing the result to out (same length). With filters disabled the
	// output must be a bit-exact copy of the input.
	ProcessAudio(in, out []float32, params Params) bool

	// ConvertSampleRate resamples in from inRate to outRate, preserving the
	// channel count in params. Returns ok=false if the backend does not
	// implement resampling; callers keep the original buffer in that case.
	ConvertSampleRate(in []float32, inRate, outRate int, params Params) ([]float32, bool)

	// ConvertBitrate converts in (at inBitrateKbps) toward targetBitrateKbps,
	// writing into out (same length). Fail-closed like ConvertSampleRate.
	ConvertBitrate(in []float32, inBitrateKbps int, out []float32, targetBitrateKbps int) bool

	// Info returns a human-readable backend description for stats output.
	Info() string

	// IsAvailable reports whether the backend can accept work.
	IsAvailable() bool
}
