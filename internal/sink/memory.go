// SPDX-License-Identifier: MIT
package sink

import (
	"sync"
	"time"

	"player/internal/pcm"
)

// MemorySink consumes PCM into memory instead of a device. It backs the
// --no-audio mode and the engine tests. WriteDelay optionally paces each
// write like a real device draining its buffer.
type MemorySink struct {
	// WriteDelay simulates device drain time per Write call.
	WriteDelay time.Duration

	// FailOpen / FailWrite force the corresponding failure for tests.
	FailOpen  bool
	FailWrite bool

	mu     sync.Mutex
	open   bool
	format pcm.Format
	data   []byte
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Open(format pcm.Format) error {
	if s.FailOpen {
		return ErrDeviceOpen
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.format = format
	return nil
}

func (s *MemorySink) Write(p []byte) (int, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return 0, ErrNotOpen
	}
	if s.FailWrite {
		s.mu.Unlock()
		return 0, ErrDeviceWrite
	}
	s.data = append(s.data, p...)
	s.mu.Unlock()

	if s.WriteDelay > 0 {
		time.Sleep(s.WriteDelay)
	}
	return len(p), nil
}

func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

// Bytes returns a copy of everything written so far.
func (s *MemorySink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// Format returns the format the sink was last opened with.
func (s *MemorySink) Format() pcm.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// IsOpen reports whether the sink is currently open.
func (s *MemorySink) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

var _ Sink = (*MemorySink)(nil)
