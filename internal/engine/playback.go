// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"math"
	"time"

	"player/internal/config"
	"player/internal/log"
	"player/internal/pcm"
)

// Play starts streaming the loaded clip from the current position. If a
// playback goroutine is already live it is shut down and joined first, so
// at most one goroutine ever owns the sink.
func (e *Engine) Play() error {
	if err := e.checkInit(); err != nil {
		return err
	}

	e.mu.Lock()
	clip := e.clip
	if clip.Empty() {
		e.mu.Unlock()
		return ErrNoFileLoaded
	}

	if done := e.playbackDone; done != nil {
		// Full shutdown sequence before starting fresh. A goroutine that
		// already finished naturally rewound the cursor itself; a Seek
		// issued since then must survive this reap.
		alreadyStopped := e.State() == StateStopped
		e.shouldStop.Store(true)
		e.nudge()
		e.mu.Unlock()
		<-done
		e.mu.Lock()
		e.playbackDone = nil
		if !alreadyStopped {
			e.positionBytes.Store(0)
		}
	}

	e.shouldStop.Store(false)
	e.paused.Store(false)
	done := make(chan struct{})
	e.playbackDone = done
	e.setState(StatePlaying)
	go e.playbackLoop(clip, done)
	e.mu.Unlock()

	log.Infof("engine: playback started: %s", e.CurrentFile())
	e.emit()
	return nil
}

// Pause toggles between Playing and Paused. While Stopped it is a no-op.
// The returned state is the state after the call. A device write already
// in flight completes first, so the cursor can still advance by one chunk
// after Pause returns.
func (e *Engine) Pause() (State, error) {
	if err := e.checkInit(); err != nil {
		return StateStopped, err
	}

	e.mu.Lock()
	switch e.State() {
	case StatePlaying:
		e.paused.Store(true)
		e.setState(StatePaused)
		log.Infof("engine: playback paused")
	case StatePaused:
		e.paused.Store(false)
		e.setState(StatePlaying)
		e.nudge()
		log.Infof("engine: playback resumed")
	default:
		log.Warnf("engine: nothing to pause")
	}
	st := e.State()
	e.mu.Unlock()

	e.emit()
	return st, nil
}

// Stop signals the playback goroutine and joins it before returning, then
// rewinds the position. Stopping an already stopped engine is a no-op that
// leaves the position untouched.
func (e *Engine) Stop() error {
	if err := e.checkInit(); err != nil {
		return err
	}

	e.mu.Lock()
	done := e.playbackDone
	if done == nil {
		e.mu.Unlock()
		log.Debugf("engine: stop requested but nothing to stop")
		return nil
	}
	// If the goroutine already finished naturally it has rewound the
	// cursor itself; a later Seek must survive this reap.
	alreadyStopped := e.State() == StateStopped
	e.shouldStop.Store(true)
	e.nudge()
	e.mu.Unlock()

	<-done

	e.mu.Lock()
	e.playbackDone = nil
	e.shouldStop.Store(false)
	e.paused.Store(false)
	e.setState(StateStopped)
	if !alreadyStopped {
		e.positionBytes.Store(0)
	}
	e.mu.Unlock()

	log.Infof("engine: playback stopped")
	e.emit()
	return nil
}

// Seek moves the playback cursor. Valid in every state; a live playback
// goroutine picks the new position up at its next chunk. Positions past
// the end of the buffer rewind to zero and are flagged via the returned
// bool so callers can detect the truncation.
func (e *Engine) Seek(seconds float64) (rewound bool, err error) {
	if err := e.checkInit(); err != nil {
		return false, err
	}

	e.mu.Lock()
	clip := e.clip
	e.mu.Unlock()
	if clip.Empty() {
		return false, ErrNoFileLoaded
	}

	if math.IsNaN(seconds) || seconds < 0 || seconds > config.MaxSeekSeconds {
		return false, fmt.Errorf("%w: seek position %.2fs outside [0, %.0f]",
			ErrInvalidParameter, seconds, float64(config.MaxSeekSeconds))
	}

	ba := int64(clip.Format.BlockAlign())
	pos := int64(seconds * float64(clip.Format.AvgBytesPerSec()))
	if pos > int64(len(clip.Data)) {
		pos = 0
		rewound = true
	}
	pos -= pos % ba
	e.positionBytes.Store(pos)
	e.nudge()

	if rewound {
		log.Warnf("engine: seek to %.2fs is past the end, rewound to start", seconds)
	} else {
		log.Debugf("engine: seek to %.2fs (byte %d)", seconds, pos)
	}
	e.emit()
	return rewound, nil
}

// playbackLoop is the body of the playback goroutine. It owns the sink for
// its lifetime, writes one chunk per iteration (one poll interval of
// audio), and polls the shared control flags between writes.
func (e *Engine) playbackLoop(clip *pcm.Clip, done chan struct{}) {
	defer close(done)

	s := e.newSink()
	if err := s.Open(clip.Format); err != nil {
		log.Errorf("engine: %v", err)
		e.deviceFailures.Add(1)
		e.setState(StateStopped)
		return
	}
	defer s.Close()

	chunk := chunkBytes(clip.Format, e.cfg.PollInterval)
	data := clip.Data

	for {
		if e.shouldStop.Load() {
			// Exit without marking completion; Stop finalizes the state.
			return
		}
		if e.paused.Load() {
			// Wait for a control-state change, with the poll interval as a
			// bounded fallback so a lost nudge can never wedge the loop.
			select {
			case <-e.wake:
			case <-time.After(e.cfg.PollInterval):
			}
			continue
		}

		pos := e.positionBytes.Load()
		if pos >= int64(len(data)) {
			e.mu.Lock()
			if !e.shouldStop.Load() {
				e.setState(StateStopped)
				e.paused.Store(false)
				e.positionBytes.Store(0)
			}
			e.mu.Unlock()
			log.Infof("engine: playback finished")
			e.emit()
			return
		}

		end := pos + chunk
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		n, err := s.Write(data[pos:end])
		if err != nil {
			log.Errorf("engine: %v", err)
			e.deviceFailures.Add(1)
			e.setState(StateStopped)
			return
		}
		e.chunksWritten.Add(1)

		// Advance only if no Seek moved the cursor during the write.
		e.positionBytes.CompareAndSwap(pos, pos+int64(n))
		e.emit()
	}
}

// nudge wakes the playback goroutine out of its paused wait so control
// changes take effect immediately instead of at the next poll tick.
func (e *Engine) nudge() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// chunkBytes sizes one device write to one poll interval of audio, aligned
// down to whole frames. This bounds both stop latency and pause latency to
// roughly one interval.
func chunkBytes(f pcm.Format, poll time.Duration) int64 {
	ba := int64(f.BlockAlign())
	b := int64(float64(f.AvgBytesPerSec()) * poll.Seconds())
	b -= b % ba
	if b < ba {
		b = ba
	}
	return b
}
