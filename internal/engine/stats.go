// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"strings"

	"player/internal/spectrum"
)

// GetStats renders a human-readable report of the engine state, the loaded
// session, the processing backend and the playback counters.
func (e *Engine) GetStats() (string, error) {
	if err := e.checkInit(); err != nil {
		return "", err
	}

	e.mu.Lock()
	clip := e.clip
	path := e.path
	proc := e.proc
	e.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "state: %s\n", e.State())

	if clip.Empty() {
		b.WriteString("file: none loaded\n")
	} else {
		fmt.Fprintf(&b, "file: %s\n", path)
		fmt.Fprintf(&b, "format: %s\n", clip.Format)
		fmt.Fprintf(&b, "duration: %.2fs (%d frames, %d bytes)\n",
			clip.Duration(), clip.Frames(), len(clip.Data))
		fmt.Fprintf(&b, "position: %.2fs\n", e.Position())

		if bands, err := spectrum.BandEnergies(clip); err == nil {
			b.WriteString("spectrum:\n")
			for _, band := range bands {
				fmt.Fprintf(&b, "  %-8s %6.0f-%6.0f Hz  %.4f\n",
					band.Name, band.LowHz, band.HighHz, band.Energy)
			}
			dom := spectrum.Dominant(bands)
			fmt.Fprintf(&b, "  dominant: %s\n", dom.Name)
		}
	}

	if proc.IsAvailable() {
		fmt.Fprintf(&b, "backend: %s\n", proc.Info())
	} else {
		b.WriteString("backend: unavailable\n")
	}

	fmt.Fprintf(&b, "chunks written: %d\n", e.chunksWritten.Load())
	fmt.Fprintf(&b, "device failures: %d\n", e.deviceFailures.Load())
	return b.String(), nil
}
