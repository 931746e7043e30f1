// SPDX-License-Identifier: MIT
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"player/internal/pcm"
)

// FLACDecoder decodes FLAC streams frame by frame into interleaved PCM.
// Only 16-bit and 24-bit streams are accepted; other depths fail rather
// than silently truncating.
type FLACDecoder struct{}

func (d *FLACDecoder) CanHandle(path string) bool {
	return extension(path) == "flac"
}

func (d *FLACDecoder) Decode(path string) (*pcm.Clip, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	defer stream.Close()

	var format pcm.Format
	if info := stream.Info; info != nil {
		format = pcm.Format{
			SampleRate:    info.SampleRate,
			Channels:      uint16(info.NChannels),
			BitsPerSample: uint16(info.BitsPerSample),
		}
	}

	var data []byte
	if stream.Info != nil && format.BlockAlign() > 0 {
		data = make([]byte, 0, int(stream.Info.NSamples)*format.BlockAlign())
	}

	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Accumulated output is discarded; no partial clip escapes.
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		if len(f.Subframes) == 0 {
			continue
		}

		// Stream-info normally arrives first; if a frame gets here without
		// it, the first frame's header wins and later frames must agree.
		if format.SampleRate == 0 || format.Channels == 0 {
			format = pcm.Format{
				SampleRate:    f.SampleRate,
				Channels:      uint16(len(f.Subframes)),
				BitsPerSample: uint16(f.BitsPerSample),
			}
		}

		data, err = appendInterleaved(data, f.Subframes, format)
		if err != nil {
			return nil, err
		}
	}

	return &pcm.Clip{Format: format, Data: data}, nil
}

// appendInterleaved packs one decoded frame of per-channel sample arrays
// into little-endian interleaved bytes.
func appendInterleaved(dst []byte, subframes []*frame.Subframe, format pcm.Format) ([]byte, error) {
	blockSize := len(subframes[0].Samples)
	for _, sf := range subframes {
		if len(sf.Samples) < blockSize {
			blockSize = len(sf.Samples)
		}
	}

	switch format.BitsPerSample {
	case 16:
		for i := 0; i < blockSize; i++ {
			for ch := range subframes {
				s := subframes[ch].Samples[i]
				dst = append(dst, byte(s), byte(s>>8))
			}
		}
	case 24:
		for i := 0; i < blockSize; i++ {
			for ch := range subframes {
				s := subframes[ch].Samples[i]
				dst = append(dst, byte(s), byte(s>>8), byte(s>>16))
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d-bit FLAC", ErrUnsupportedBitDepth, format.BitsPerSample)
	}
	return dst, nil
}
