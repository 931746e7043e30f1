// SPDX-License-Identifier: MIT
package bridge

import (
	"fmt"

	"player/internal/pcm"
)

// Sample scaling between byte-packed PCM and float32 working buffers.
//
// The scale is asymmetric on purpose: dividing by 32768 on the way in and
// multiplying by 32767 on the way out keeps +1.0 from overflowing int16.
const (
	scale16In  = 32768.0
	scale16Out = 32767.0
	scale24In  = 8388608.0
	scale24Out = 8388607.0
	scale8     = 128.0
)

// BytesToFloat unpacks little-endian interleaved PCM into float32 samples
// in [-1, 1]. 8-bit PCM is unsigned per WAV convention.
func BytesToFloat(data []byte, bits uint16) ([]float32, error) {
	switch bits {
	case 8:
		out := make([]float32, len(data))
		for i, b := range data {
			out[i] = (float32(b) - 128.0) / scale8
		}
		return out, nil
	case 16:
		out := make([]float32, len(data)/2)
		for i := range out {
			s := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
			out[i] = float32(s) / scale16In
		}
		return out, nil
	case 24:
		out := make([]float32, len(data)/3)
		for i := range out {
			v := int32(data[3*i]) | int32(data[3*i+1])<<8 | int32(data[3*i+2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			out[i] = float32(v) / scale24In
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert %d-bit PCM to float", bits)
	}
}

// FloatToBytes packs float32 samples back into little-endian PCM at the
// given depth, clamping to [-1, 1] first.
func FloatToBytes(samples []float32, bits uint16) ([]byte, error) {
	switch bits {
	case 8:
		out := make([]byte, len(samples))
		for i, s := range samples {
			v := int32(clamp(s) * scale8)
			if v > 127 {
				v = 127 // +1.0 must not wrap past the unsigned midpoint
			}
			out[i] = byte(v + 128)
		}
		return out, nil
	case 16:
		out := make([]byte, len(samples)*2)
		for i, s := range samples {
			v := int16(clamp(s) * scale16Out)
			out[2*i] = byte(v)
			out[2*i+1] = byte(v >> 8)
		}
		return out, nil
	case 24:
		out := make([]byte, len(samples)*3)
		for i, s := range samples {
			v := int32(clamp(s) * scale24Out)
			out[3*i] = byte(v)
			out[3*i+1] = byte(v >> 8)
			out[3*i+2] = byte(v >> 16)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot pack float samples to %d-bit PCM", bits)
	}
}

// ClipToFloat unpacks a whole clip into a float working buffer.
func ClipToFloat(clip *pcm.Clip) ([]float32, error) {
	return BytesToFloat(clip.Data, clip.Format.BitsPerSample)
}

func clamp(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
