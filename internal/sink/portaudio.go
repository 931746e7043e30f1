// SPDX-License-Identifier: MIT
package sink

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"player/internal/log"
	"player/internal/pcm"
)

// Initialize sets up the PortAudio subsystem. Must be called before any
// device operation and paired with a Terminate call.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate cleanly shuts down the PortAudio subsystem.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// ListOutputDevices prints every device that can render audio, with its
// channel count, default sample rate and latency range.
func ListOutputDevices() error {
	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}

	fmt.Printf("\nAvailable Output Devices\n\n")
	for i, device := range devices {
		if device.MaxOutputChannels == 0 {
			continue
		}
		fmt.Printf("[%d] %s\n", i, device.Name)
		fmt.Printf("    Output channels: %d\n", device.MaxOutputChannels)
		fmt.Printf("    Default sample rate: %.0f Hz\n", device.DefaultSampleRate)
		fmt.Printf("    Latency: Low=%.2fms, High=%.2fms\n",
			device.DefaultLowOutputLatency.Seconds()*1000,
			device.DefaultHighOutputLatency.Seconds()*1000)
		fmt.Println()
	}
	return nil
}

// PortAudioSink renders PCM through the default output device using
// PortAudio's blocking write API.
type PortAudioSink struct {
	framesPerBuffer int
	format          pcm.Format
	stream          *portaudio.Stream
	buffer          []int32 // stream-bound buffer, samples scaled to int32 full range
}

// NewPortAudioSink returns a sink that writes framesPerBuffer frames per
// device call.
func NewPortAudioSink(framesPerBuffer int) *PortAudioSink {
	return &PortAudioSink{framesPerBuffer: framesPerBuffer}
}

func (s *PortAudioSink) Open(format pcm.Format) error {
	if err := format.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceOpen, err)
	}

	s.format = format
	s.buffer = make([]int32, s.framesPerBuffer*int(format.Channels))

	stream, err := portaudio.OpenDefaultStream(
		0, int(format.Channels),
		float64(format.SampleRate),
		s.framesPerBuffer,
		&s.buffer,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceOpen, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrDeviceOpen, err)
	}

	s.stream = stream
	log.Debugf("sink: opened default output device (%s)", format)
	return nil
}

// Write pushes p through the device in framesPerBuffer chunks, blocking on
// each device write until consumed. The final partial chunk is zero-padded.
func (s *PortAudioSink) Write(p []byte) (int, error) {
	if s.stream == nil {
		return 0, ErrNotOpen
	}

	blockAlign := s.format.BlockAlign()
	chunkBytes := len(s.buffer) / int(s.format.Channels) * blockAlign

	written := 0
	for written < len(p) {
		end := written + chunkBytes
		if end > len(p) {
			end = len(p)
		}
		n := s.fillBuffer(p[written:end])
		for i := n; i < len(s.buffer); i++ {
			s.buffer[i] = 0
		}
		if err := s.stream.Write(); err != nil {
			return written, fmt.Errorf("%w: %v", ErrDeviceWrite, err)
		}
		written = end
	}
	return written, nil
}

// fillBuffer unpacks little-endian PCM bytes into the int32 stream buffer,
// scaling every depth to full int32 range. Returns samples filled.
func (s *PortAudioSink) fillBuffer(p []byte) int {
	switch s.format.BitsPerSample {
	case 8:
		for i := 0; i < len(p); i++ {
			s.buffer[i] = (int32(p[i]) - 128) << 24
		}
		return len(p)
	case 16:
		n := len(p) / 2
		for i := 0; i < n; i++ {
			v := int16(uint16(p[2*i]) | uint16(p[2*i+1])<<8)
			s.buffer[i] = int32(v) << 16
		}
		return n
	case 24:
		n := len(p) / 3
		for i := 0; i < n; i++ {
			v := int32(p[3*i]) | int32(p[3*i+1])<<8 | int32(p[3*i+2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			s.buffer[i] = v << 8
		}
		return n
	default: // 32
		n := len(p) / 4
		for i := 0; i < n; i++ {
			s.buffer[i] = int32(uint32(p[4*i]) | uint32(p[4*i+1])<<8 |
				uint32(p[4*i+2])<<16 | uint32(p[4*i+3])<<24)
		}
		return n
	}
}

func (s *PortAudioSink) Close() error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		s.stream = nil
		return err
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}

var _ Sink = (*PortAudioSink)(nil)
