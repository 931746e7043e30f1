// SPDX-License-Identifier: MIT
// Package spectrum provides offline frequency analysis of a loaded clip,
// summarizing energy across named bands for the engine's stats report.
package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"player/internal/bridge"
	"player/internal/pcm"
)

var ErrTooShort = errors.New("clip too short for analysis")

// Band is the energy measured over one frequency range.
type Band struct {
	Name   string
	LowHz  float64
	HighHz float64
	Energy float64
}

const analysisWindow = 4096 // frames per FFT window

// BandEnergies runs a Hann-windowed FFT over the start of the clip (mono
// mix of channel 0) and averages bin magnitudes into the standard bands.
func BandEnergies(clip *pcm.Clip) ([]Band, error) {
	if clip.Empty() {
		return nil, ErrTooShort
	}
	samples, err := bridge.ClipToFloat(clip)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	ch := int(clip.Format.Channels)
	frames := len(samples) / ch
	if frames < analysisWindow {
		return nil, fmt.Errorf("%w: %d frames", ErrTooShort, frames)
	}

	// Window channel 0 only; stats do not need a full mixdown.
	input := make([]float64, analysisWindow)
	for i := range input {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(analysisWindow-1)))
		input[i] = float64(samples[i*ch]) * w
	}

	fft := fourier.NewFFT(analysisWindow)
	coeffs := fft.Coefficients(nil, input)

	nyquist := float64(clip.Format.SampleRate) / 2
	bands := []Band{
		{Name: "sub", LowHz: 20, HighHz: 60},
		{Name: "bass", LowHz: 60, HighHz: 250},
		{Name: "lowMid", LowHz: 250, HighHz: 500},
		{Name: "mid", LowHz: 500, HighHz: 2000},
		{Name: "highMid", LowHz: 2000, HighHz: 4000},
		{Name: "treble", LowHz: 4000, HighHz: nyquist},
	}

	counts := make([]int, len(bands))
	for i, c := range coeffs {
		freq := fft.Freq(i) * float64(clip.Format.SampleRate)
		mag := cmplx.Abs(c)
		for b := range bands {
			if freq >= bands[b].LowHz && freq < bands[b].HighHz {
				bands[b].Energy += mag * mag
				counts[b]++
				break
			}
		}
	}
	for b := range bands {
		if counts[b] > 0 {
			bands[b].Energy /= float64(counts[b])
		}
	}
	return bands, nil
}

// Dominant returns the band holding the most energy.
func Dominant(bands []Band) Band {
	best := Band{}
	for _, b := range bands {
		if b.Energy > best.Energy {
			best = b
		}
	}
	return best
}
