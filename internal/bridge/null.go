// SPDX-License-Identifier: MIT
package bridge

// NullProcessor stands in when no accelerator is present. It reports itself
// unavailable; the engine binds it but never routes work through it, and
// every operation fails closed if called anyway.
type NullProcessor struct{}

func NewNullProcessor() *NullProcessor { return &NullProcessor{} }

func (NullProcessor) IsAvailable() bool { return false }

func (NullProcessor) Info() string { return "no processing backend" }

func (NullProcessor) ProcessAudio(in, out []float32, params Params) bool { return false }

func (NullProcessor) ConvertSampleRate(in []float32, inRate, outRate int, params Params) ([]float32, bool) {
	return nil, false
}

func (NullProcessor) ConvertBitrate(in []float32, inBitrateKbps int, out []float32, targetBitrateKbps int) bool {
	return false
}

var _ Processor = NullProcessor{}
