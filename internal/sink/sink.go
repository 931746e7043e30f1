// SPDX-License-Identifier: MIT
/*
Package sink defines the narrow device-output contract the playback thread
drives: open with a format, write a buffer and block until the device has
consumed it, close. The engine never assumes a specific OS audio API.
*/
package sink

import (
	"errors"

	"player/internal/pcm"
)

var (
	ErrDeviceOpen  = errors.New("could not open audio output device")
	ErrDeviceWrite = errors.New("could not write to audio output device")
	ErrNotOpen     = errors.New("audio sink not open")
)

// Sink is the three-call device lifecycle. The playback thread owns the
// sink for its lifetime; no other thread writes to it concurrently.
type Sink interface {
	// Open prepares the device for the given PCM layout.
	Open(format pcm.Format) error

	// Write queues interleaved PCM and blocks until the device has
	// consumed it. Returns the number of bytes written.
	Write(p []byte) (int, error)

	// Close releases the device. Safe to call on a sink that never opened.
	Close() error
}

// Factory produces a fresh sink per playback attempt, so a failed or
// stopped device never leaks state into the next run.
type Factory func() Sink
