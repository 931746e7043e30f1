// SPDX-License-Identifier: MIT
/*
Package engine implements the playback engine facade: loading audio files
into a PCM session, driving playback through an audio sink on a background
goroutine, and routing processing work through the bound accelerator bridge.

Thread Safety:
- Session identity (clip, path) is guarded by a mutex
- Control flags and the playback position are atomics polled by the
  playback goroutine at a bounded interval
- The loaded clip is read-only during playback and replaced wholesale by
  transforms, which stop playback first
*/
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"player/internal/bridge"
	"player/internal/codec"
	"player/internal/config"
	"player/internal/log"
	"player/internal/pcm"
	"player/internal/sink"
	"player/internal/transport"
)

// State is the playback state machine position.
type State int32

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Event is one status update sent to the optional transport.
type Event struct {
	State           string  `json:"state"`
	File            string  `json:"file,omitempty"`
	PositionSeconds float64 `json:"position_seconds"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// Engine composes the container registry, the processing bridge, the audio
// sink and the playback session. One engine owns at most one session and at
// most one live playback goroutine.
type Engine struct {
	cfg      *config.Config
	registry *codec.Registry
	newSink  sink.Factory
	status   transport.Transport // nil disables status events

	proc bridge.Processor // bound by Initialize; nil means not initialized

	// mu guards session identity and playback goroutine handoff.
	mu           sync.Mutex
	clip         *pcm.Clip
	path         string
	eq           bridge.Params // last accepted EQ request
	playbackDone chan struct{} // non-nil while a playback goroutine may be live

	// Shared between the caller thread and the playback goroutine.
	state         atomic.Int32
	paused        atomic.Bool
	shouldStop    atomic.Bool
	positionBytes atomic.Int64
	wake          chan struct{} // nudges the goroutine out of its paused wait

	// Playback counters for stats.
	chunksWritten  atomic.Int64
	deviceFailures atomic.Int64
}

// NewEngine wires an engine from its collaborators. The processing bridge
// is bound separately via Initialize; every public operation fails with
// ErrNotInitialized until then.
func NewEngine(cfg *config.Config, registry *codec.Registry, factory sink.Factory, status transport.Transport) *Engine {
	return &Engine{
		cfg:      cfg,
		registry: registry,
		newSink:  factory,
		status:   status,
		wake:     make(chan struct{}, 1),
	}
}

// Initialize binds the processing bridge. A backend that reports itself
// unavailable is still a valid binding; the engine simply never routes
// processing work through it.
func (e *Engine) Initialize(proc bridge.Processor) error {
	if proc == nil {
		return fmt.Errorf("%w: nil processor", ErrInvalidParameter)
	}
	e.mu.Lock()
	e.proc = proc
	e.mu.Unlock()

	if proc.IsAvailable() {
		log.Infof("engine: processing backend bound:\n%s", proc.Info())
	} else {
		log.Infof("engine: no processing backend available, playback only")
	}
	return nil
}

func (e *Engine) checkInit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proc == nil {
		return ErrNotInitialized
	}
	return nil
}

// LoadFile decodes the file and installs it as the current session. On any
// decode failure the existing session is left untouched; a partially
// decoded buffer never becomes visible.
func (e *Engine) LoadFile(path string) error {
	if err := e.checkInit(); err != nil {
		return err
	}

	clip, err := e.registry.Decode(path)
	if err != nil {
		return err
	}

	if err := e.Stop(); err != nil {
		return err
	}

	e.mu.Lock()
	e.clip = clip
	e.path = path
	e.mu.Unlock()
	e.positionBytes.Store(0)

	log.Infof("engine: loaded %s (%s, %.2fs)", path, clip.Format, clip.Duration())
	e.emit()
	return nil
}

// State returns the current playback state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

// IsPlaying reports whether audio is actively being rendered.
func (e *Engine) IsPlaying() bool { return e.State() == StatePlaying }

// IsPaused reports whether playback is suspended mid-buffer.
func (e *Engine) IsPaused() bool { return e.State() == StatePaused }

// IsFileLoaded reports whether a session holds decoded audio.
func (e *Engine) IsFileLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.clip.Empty()
}

// CurrentFile returns the path of the loaded file, if any.
func (e *Engine) CurrentFile() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// Position returns the playback position in seconds, derived from the
// byte cursor.
func (e *Engine) Position() float64 {
	e.mu.Lock()
	clip := e.clip
	e.mu.Unlock()
	if clip.Empty() {
		return 0
	}
	return float64(e.positionBytes.Load()) / float64(clip.Format.AvgBytesPerSec())
}

// PositionBytes returns the raw byte cursor, always a multiple of the
// clip's block alignment.
func (e *Engine) PositionBytes() int64 {
	return e.positionBytes.Load()
}

// Clip returns the currently loaded clip. Callers must treat it as
// read-only.
func (e *Engine) Clip() *pcm.Clip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clip
}

// Close stops playback and releases the status transport. The engine never
// returns while its playback goroutine is still running.
func (e *Engine) Close() error {
	e.mu.Lock()
	initialized := e.proc != nil
	e.mu.Unlock()

	if initialized {
		if err := e.Stop(); err != nil {
			return err
		}
	}
	if e.status != nil {
		return e.status.Close()
	}
	return nil
}

// emit sends a status event if a transport is attached. Never called with
// e.mu held.
func (e *Engine) emit() {
	if e.status == nil {
		return
	}
	e.mu.Lock()
	file := e.path
	var duration float64
	if !e.clip.Empty() {
		duration = e.clip.Duration()
	}
	e.mu.Unlock()

	_ = e.status.Send(Event{
		State:           e.State().String(),
		File:            file,
		PositionSeconds: e.Position(),
		DurationSeconds: duration,
	})
}
