// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"

	"player/internal/bridge"
	"player/internal/codec"
	"player/internal/config"
	"player/internal/log"
	"player/internal/pcm"
)

// SetEQ validates and applies a two-band peaking EQ to the loaded buffer.
// Parameters are checked before anything is touched, so an out-of-range
// value never leaves a half-applied request behind. Playback is stopped
// before the buffer is rewritten.
func (e *Engine) SetEQ(lowFreq, lowGainDB, lowQ, highFreq, highGainDB, highQ float64) error {
	if err := e.checkInit(); err != nil {
		return err
	}

	checks := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"low frequency", lowFreq, config.MinEQFrequencyHz, config.MaxEQFrequencyHz},
		{"low gain", lowGainDB, config.MinEQGainDB, config.MaxEQGainDB},
		{"low Q", lowQ, config.MinEQQ, config.MaxEQQ},
		{"high frequency", highFreq, config.MinEQFrequencyHz, config.MaxEQFrequencyHz},
		{"high gain", highGainDB, config.MinEQGainDB, config.MaxEQGainDB},
		{"high Q", highQ, config.MinEQQ, config.MaxEQQ},
	}
	for _, c := range checks {
		if c.v < c.min || c.v > c.max {
			return fmt.Errorf("%w: %s %.2f outside [%g, %g]",
				ErrInvalidParameter, c.name, c.v, c.min, c.max)
		}
	}

	e.mu.Lock()
	proc := e.proc
	clip := e.clip
	e.mu.Unlock()

	if !proc.IsAvailable() {
		return ErrProcessingUnavailable
	}

	params := bridge.Params{
		LowFreq:       lowFreq,
		LowGainDB:     lowGainDB,
		LowQ:          lowQ,
		HighFreq:      highFreq,
		HighGainDB:    highGainDB,
		HighQ:         highQ,
		EnableFilters: true,
	}

	e.mu.Lock()
	e.eq = params
	e.mu.Unlock()

	if clip.Empty() {
		log.Infof("engine: EQ stored, will apply on next processing pass")
		return nil
	}

	if err := e.Stop(); err != nil {
		return err
	}

	params.SampleRate = int(clip.Format.SampleRate)
	params.Channels = int(clip.Format.Channels)

	in, err := bridge.ClipToFloat(clip)
	if err != nil {
		return err
	}
	out := make([]float32, len(in))
	if !proc.ProcessAudio(in, out, params) {
		return ErrProcessingUnavailable
	}
	data, err := bridge.FloatToBytes(out, clip.Format.BitsPerSample)
	if err != nil {
		return err
	}

	e.replaceClip(&pcm.Clip{Format: clip.Format, Data: data})
	log.Infof("engine: EQ applied (low %.0fHz %+.1fdB, high %.0fHz %+.1fdB)",
		lowFreq, lowGainDB, highFreq, highGainDB)
	return nil
}

// SetTargetBitrate reduces the effective bitrate of the loaded buffer. A
// target at or above the source bitrate is a clean pass-through. When the
// backend rejects the request the buffer is left byte-for-byte unchanged.
func (e *Engine) SetTargetBitrate(kbps int) error {
	if err := e.checkInit(); err != nil {
		return err
	}
	if kbps < config.MinTargetBitrateKbps || kbps > config.MaxTargetBitrateKbps {
		return fmt.Errorf("%w: target bitrate %d outside [%d, %d]",
			ErrInvalidParameter, kbps,
			config.MinTargetBitrateKbps, config.MaxTargetBitrateKbps)
	}

	e.mu.Lock()
	proc := e.proc
	clip := e.clip
	e.mu.Unlock()

	if clip.Empty() {
		return ErrNoFileLoaded
	}
	if !proc.IsAvailable() {
		return ErrProcessingUnavailable
	}

	inKbps := clip.Format.AvgBytesPerSec() * 8 / 1000
	if kbps >= inKbps {
		// Raising the bitrate of PCM adds no information. Leave the
		// buffer byte-for-byte untouched instead of round-tripping it
		// through the float path, which quantizes.
		log.Infof("engine: target %d kbps at or above source %d kbps, buffer unchanged", kbps, inKbps)
		return nil
	}

	if err := e.Stop(); err != nil {
		return err
	}

	in, err := bridge.ClipToFloat(clip)
	if err != nil {
		return err
	}
	out := make([]float32, len(in))
	if !proc.ConvertBitrate(in, inKbps, out, kbps) {
		return ErrProcessingUnavailable
	}
	data, err := bridge.FloatToBytes(out, clip.Format.BitsPerSample)
	if err != nil {
		return err
	}

	e.replaceClip(&pcm.Clip{Format: clip.Format, Data: data})
	log.Infof("engine: bitrate conversion %d -> %d kbps", inKbps, kbps)
	return nil
}

// ResampleTo converts the loaded buffer to a new sample rate. The clip's
// format is updated to the new rate and the cursor rewinds, since the old
// byte position no longer maps to the same point in time.
func (e *Engine) ResampleTo(rate int) error {
	if err := e.checkInit(); err != nil {
		return err
	}
	if rate < config.MinSampleRate || rate > config.MaxSampleRate {
		return fmt.Errorf("%w: sample rate %d outside [%d, %d]",
			ErrInvalidParameter, rate, config.MinSampleRate, config.MaxSampleRate)
	}

	e.mu.Lock()
	proc := e.proc
	clip := e.clip
	eq := e.eq
	e.mu.Unlock()

	if clip.Empty() {
		return ErrNoFileLoaded
	}
	if !proc.IsAvailable() {
		return ErrProcessingUnavailable
	}
	if int(clip.Format.SampleRate) == rate {
		log.Debugf("engine: already at %d Hz", rate)
		return nil
	}

	if err := e.Stop(); err != nil {
		return err
	}

	in, err := bridge.ClipToFloat(clip)
	if err != nil {
		return err
	}
	params := eq
	params.Channels = int(clip.Format.Channels)
	out, ok := proc.ConvertSampleRate(in, int(clip.Format.SampleRate), rate, params)
	if !ok {
		return ErrProcessingUnavailable
	}
	data, err := bridge.FloatToBytes(out, clip.Format.BitsPerSample)
	if err != nil {
		return err
	}

	format := clip.Format
	format.SampleRate = uint32(rate)
	e.replaceClip(&pcm.Clip{Format: format, Data: data})
	log.Infof("engine: resampled %d -> %d Hz", clip.Format.SampleRate, rate)
	return nil
}

// SaveFile writes the current buffer, with every applied transform, to a
// WAV file at path.
func (e *Engine) SaveFile(path string) error {
	if err := e.checkInit(); err != nil {
		return err
	}

	e.mu.Lock()
	clip := e.clip
	e.mu.Unlock()
	if clip.Empty() {
		return ErrNoFileLoaded
	}

	if err := codec.WriteWAV(path, clip); err != nil {
		return err
	}
	log.Infof("engine: saved %s (%d bytes)", path, len(clip.Data))
	return nil
}

// replaceClip installs a transformed buffer and rewinds the cursor. Callers
// must have stopped playback first.
func (e *Engine) replaceClip(clip *pcm.Clip) {
	e.mu.Lock()
	e.clip = clip
	e.mu.Unlock()
	e.positionBytes.Store(0)
	e.emit()
}
