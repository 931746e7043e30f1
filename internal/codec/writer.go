// SPDX-License-Identifier: MIT
package codec

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"player/internal/pcm"
)

// WriteWAV saves a clip as a canonical PCM WAV file: 44-byte header, one
// data chunk, no extension chunks. Header fields are recomputed from the
// clip's format; payload bytes are written verbatim.
func WriteWAV(path string, clip *pcm.Clip) error {
	if clip.Empty() {
		return fmt.Errorf("%w: nothing to write", ErrEmptyFile)
	}
	if err := clip.Format.Validate(); err != nil {
		return err
	}

	samples, err := unpackSamples(clip.Data, clip.Format.BitsPerSample)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	enc := wav.NewEncoder(f,
		int(clip.Format.SampleRate),
		int(clip.Format.BitsPerSample),
		int(clip.Format.Channels),
		wavFormatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(clip.Format.Channels),
			SampleRate:  int(clip.Format.SampleRate),
		},
		Data:           samples,
		SourceBitDepth: int(clip.Format.BitsPerSample),
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	return f.Close()
}

// unpackSamples converts little-endian interleaved PCM bytes into the int
// samples the WAV encoder consumes. 8-bit WAV is unsigned by convention;
// wider depths are signed.
func unpackSamples(data []byte, bits uint16) ([]int, error) {
	switch bits {
	case 8:
		out := make([]int, len(data))
		for i, b := range data {
			out[i] = int(b)
		}
		return out, nil
	case 16:
		out := make([]int, len(data)/2)
		for i := range out {
			out[i] = int(int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8))
		}
		return out, nil
	case 24:
		out := make([]int, len(data)/3)
		for i := range out {
			v := int32(data[3*i]) | int32(data[3*i+1])<<8 | int32(data[3*i+2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			out[i] = int(v)
		}
		return out, nil
	case 32:
		out := make([]int, len(data)/4)
		for i := range out {
			out[i] = int(int32(uint32(data[4*i]) | uint32(data[4*i+1])<<8 |
				uint32(data[4*i+2])<<16 | uint32(data[4*i+3])<<24))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bits)
	}
}
