// SPDX-License-Identifier: MIT
/*
Package codec turns audio containers into PCM clips and back:
- WAV: direct RIFF chunk walk, read and write
- FLAC: streaming frame decode, read only

Decoders are selected through an explicit Registry value owned by the
caller; there is no process-wide registration.
*/
package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"player/internal/log"
	"player/internal/pcm"
)

// Decoder decodes one container format into a PCM clip.
type Decoder interface {
	// CanHandle reports whether this decoder recognizes the file extension.
	CanHandle(path string) bool

	// Decode parses the file into a clip. On error no partial clip is
	// returned; accumulated output is discarded.
	Decode(path string) (*pcm.Clip, error)
}

// Registry dispatches a file path to the decoder that handles its format.
type Registry struct {
	decoders []Decoder
}

// NewRegistry returns a registry over the two supported formats.
func NewRegistry() *Registry {
	return &Registry{decoders: []Decoder{&WAVDecoder{}, &FLACDecoder{}}}
}

// Decode validates that the file exists and is non-empty, then hands it to
// the matching decoder. Unknown extensions fail with ErrUnsupportedFormat;
// no substitute audio is ever synthesized.
func (r *Registry) Decode(path string) (*pcm.Clip, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	for _, d := range r.decoders {
		if !d.CanHandle(path) {
			continue
		}
		clip, err := d.Decode(path)
		if err != nil {
			return nil, err
		}
		if err := clip.Format.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
		}
		log.Debugf("codec: decoded %s (%s, %d bytes PCM)", path, clip.Format, len(clip.Data))
		return clip, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, extension(path))
}

func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
