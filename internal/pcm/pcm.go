// SPDX-License-Identifier: MIT
// Package pcm defines the value types shared by every stage of the engine:
// the immutable format descriptor and the owned buffer of interleaved
// samples it describes.
package pcm

import (
	"errors"
	"fmt"
)

var ErrInvalidFormat = errors.New("invalid PCM format")

// Format describes the layout of interleaved PCM data. The derived
// quantities (BlockAlign, AvgBytesPerSec) are always recomputed from the
// base fields and are never stored independently.
type Format struct {
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
}

// BlockAlign returns the byte size of one frame (all channels of one sample).
func (f Format) BlockAlign() int {
	return int(f.Channels) * int(f.BitsPerSample) / 8
}

// AvgBytesPerSec returns the byte rate of a stream in this format.
func (f Format) AvgBytesPerSec() int {
	return int(f.SampleRate) * f.BlockAlign()
}

// Validate rejects descriptors no PCM stream can legally carry.
func (f Format) Validate() error {
	if f.Channels == 0 {
		return fmt.Errorf("%w: zero channels", ErrInvalidFormat)
	}
	if f.SampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrInvalidFormat)
	}
	switch f.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrInvalidFormat, f.BitsPerSample)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit", f.SampleRate, f.Channels, f.BitsPerSample)
}

// Clip is an owned, contiguous buffer of interleaved PCM plus the format
// describing it. A Clip is replaced wholesale on reload or after a
// processing transform; it is never mutated in place while a playback
// thread is reading it.
type Clip struct {
	Format Format
	Data   []byte
}

// Frames returns the number of whole frames in the clip.
func (c *Clip) Frames() int {
	ba := c.Format.BlockAlign()
	if ba == 0 {
		return 0
	}
	return len(c.Data) / ba
}

// Duration returns the playing time of the clip in seconds.
func (c *Clip) Duration() float64 {
	bps := c.Format.AvgBytesPerSec()
	if bps == 0 {
		return 0
	}
	return float64(len(c.Data)) / float64(bps)
}

// Empty reports whether the clip holds no audio.
func (c *Clip) Empty() bool {
	return c == nil || len(c.Data) == 0
}
