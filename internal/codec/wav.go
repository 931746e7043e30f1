// SPDX-License-Identifier: MIT
package codec

import (
	"encoding/binary"
	"fmt"
	"os"

	"player/internal/pcm"
)

const (
	riffHeaderSize = 12 // "RIFF" + u32 size + "WAVE"
	wavFormatPCM   = 1
)

// WAVDecoder parses RIFF/WAVE containers holding uncompressed PCM.
type WAVDecoder struct{}

func (d *WAVDecoder) CanHandle(path string) bool {
	return extension(path) == "wav"
}

// Decode walks the chunk list after the 12-byte RIFF/WAVE header. The
// "fmt " chunk must precede "data"; any other chunk is skipped by its
// declared size. Bytes past the data chunk are ignored.
func (d *WAVDecoder) Decode(path string) (*pcm.Clip, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(raw) < riffHeaderSize || string(raw[0:4]) != "RIFF" {
		return nil, fmt.Errorf("%w: missing RIFF magic", ErrCorruptHeader)
	}
	if string(raw[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing WAVE tag", ErrCorruptHeader)
	}

	var (
		format    pcm.Format
		sawFormat bool
		cursor    = riffHeaderSize
	)
	for cursor+8 <= len(raw) {
		id := string(raw[cursor : cursor+4])
		size := int(binary.LittleEndian.Uint32(raw[cursor+4 : cursor+8]))
		body := cursor + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(raw) {
				return nil, fmt.Errorf("%w: fmt chunk too small", ErrCorruptHeader)
			}
			audioFormat := binary.LittleEndian.Uint16(raw[body : body+2])
			if audioFormat != wavFormatPCM {
				return nil, fmt.Errorf("%w: WAV audio format %d (only PCM)", ErrUnsupportedFormat, audioFormat)
			}
			format = pcm.Format{
				Channels:      binary.LittleEndian.Uint16(raw[body+2 : body+4]),
				SampleRate:    binary.LittleEndian.Uint32(raw[body+4 : body+8]),
				BitsPerSample: binary.LittleEndian.Uint16(raw[body+14 : body+16]),
			}
			// byteRate and blockAlign at body+8..14 are derived fields;
			// they are recomputed from the base fields, never trusted.
			if format.Channels == 0 || format.SampleRate == 0 {
				return nil, fmt.Errorf("%w: zero channels or sample rate", ErrCorruptHeader)
			}
			sawFormat = true

		case "data":
			if !sawFormat {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrCorruptHeader)
			}
			if body+size > len(raw) {
				return nil, fmt.Errorf("%w: data chunk truncated", ErrCorruptHeader)
			}
			data := make([]byte, size)
			copy(data, raw[body:body+size])
			return &pcm.Clip{Format: format, Data: data}, nil
		}

		cursor = body + size
		if size%2 == 1 {
			cursor++ // RIFF chunks are padded to even offsets
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrDataChunkMissing, path)
}
