// SPDX-License-Identifier: MIT
package bridge

import (
	"math"

	"player/internal/log"
)

// SoftwareProcessor is the CPU reference backend: two peaking EQ bands,
// cubic-interpolation resampling, and quantization-based bitrate reduction.
// It is always available and serves as the fallback when no accelerator
// hardware is bound.
type SoftwareProcessor struct{}

func NewSoftwareProcessor() *SoftwareProcessor {
	return &SoftwareProcessor{}
}

func (p *SoftwareProcessor) IsAvailable() bool { return true }

func (p *SoftwareProcessor) Info() string {
	return "software fallback (CPU)\n- EQ: two-band parametric biquad\n- Resampling: cubic interpolation\n- Bitrate: quantization"
}

// ProcessAudio runs the two EQ bands over the buffer per channel. With
// filters disabled the input is copied through untouched.
func (p *SoftwareProcessor) ProcessAudio(in, out []float32, params Params) bool {
	if len(out) < len(in) || params.Channels <= 0 || params.SampleRate <= 0 {
		return false
	}
	if !params.EnableFilters {
		copy(out, in)
		return true
	}

	low := newPeakingBiquad(params.SampleRate, params.LowFreq, params.LowGainDB, params.LowQ)
	high := newPeakingBiquad(params.SampleRate, params.HighFreq, params.HighGainDB, params.HighQ)

	ch := params.Channels
	states := make([]biquadState, 2*ch) // one state per band per channel
	for i, s := range in {
		c := i % ch
		y := low.apply(&states[c], float64(s))
		y = high.apply(&states[ch+c], y)
		out[i] = float32(y)
	}
	log.Debugf("bridge: software EQ applied (%d samples, %d ch)", len(in), ch)
	return true
}

// ConvertSampleRate resamples interleaved frames with cubic interpolation
// over a four-frame window.
func (p *SoftwareProcessor) ConvertSampleRate(in []float32, inRate, outRate int, params Params) ([]float32, bool) {
	ch := params.Channels
	if ch <= 0 || inRate <= 0 || outRate <= 0 || len(in)%ch != 0 {
		return nil, false
	}
	if inRate == outRate {
		out := make([]float32, len(in))
		copy(out, in)
		return out, true
	}

	inFrames := len(in) / ch
	if inFrames < 2 {
		return nil, false
	}
	outFrames := int(float64(inFrames) * float64(outRate) / float64(inRate))
	out := make([]float32, outFrames*ch)
	step := float64(inRate) / float64(outRate)

	frame := func(idx, c int) float64 {
		if idx < 0 {
			idx = 0
		}
		if idx >= inFrames {
			idx = inFrames - 1
		}
		return float64(in[idx*ch+c])
	}

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		i1 := int(pos)
		t := pos - float64(i1)
		for c := 0; c < ch; c++ {
			y := cubic(frame(i1-1, c), frame(i1, c), frame(i1+1, c), frame(i1+2, c), t)
			out[i*ch+c] = float32(clamp64(y))
		}
	}
	log.Debugf("bridge: resampled %d -> %d Hz (%d -> %d frames)", inRate, outRate, inFrames, outFrames)
	return out, true
}

// ConvertBitrate reduces the effective resolution of the samples to
// approximate the byte budget of the target bitrate. Raising the bitrate of
// raw PCM cannot add information, so targets at or above the input pass the
// data through unchanged.
func (p *SoftwareProcessor) ConvertBitrate(in []float32, inBitrateKbps int, out []float32, targetBitrateKbps int) bool {
	if len(out) < len(in) || inBitrateKbps <= 0 || targetBitrateKbps <= 0 {
		return false
	}
	if targetBitrateKbps >= inBitrateKbps {
		copy(out, in)
		return true
	}

	// Effective bits scale with the bitrate ratio; floor of 4 bits keeps
	// the output recognizable rather than pure noise.
	ratio := float64(targetBitrateKbps) / float64(inBitrateKbps)
	bits := math.Max(4, math.Round(16*ratio))
	levels := math.Exp2(bits - 1)

	for i, s := range in {
		out[i] = float32(math.Round(float64(clamp(s))*levels) / levels)
	}
	log.Debugf("bridge: quantized %dkbps -> %dkbps (%.0f effective bits)", inBitrateKbps, targetBitrateKbps, bits)
	return true
}

// biquad holds normalized RBJ peaking-EQ coefficients.
type biquad struct {
	b0, b1, b2, a1, a2 float64
}

type biquadState struct {
	x1, x2, y1, y2 float64
}

func newPeakingBiquad(sampleRate int, freq, gainDB, q float64) biquad {
	if q <= 0 {
		q = 0.1
	}
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freq / float64(sampleRate)
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	a0 := 1 + alpha/a
	return biquad{
		b0: (1 + alpha*a) / a0,
		b1: (-2 * cosW0) / a0,
		b2: (1 - alpha*a) / a0,
		a1: (-2 * cosW0) / a0,
		a2: (1 - alpha/a) / a0,
	}
}

func (f biquad) apply(s *biquadState, x float64) float64 {
	y := f.b0*x + f.b1*s.x1 + f.b2*s.x2 - f.a1*s.y1 - f.a2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y
	return y
}

// cubic interpolates between p1 and p2 with neighbors p0/p3, t in [0, 1).
func cubic(p0, p1, p2, p3, t float64) float64 {
	a := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	b := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := -0.5*p0 + 0.5*p2
	return ((a*t+b)*t+c)*t + p1
}

func clamp64(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

var _ Processor = (*SoftwareProcessor)(nil)
