package cmd

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"player/internal/bridge"
	"player/internal/codec"
	"player/internal/config"
	"player/internal/engine"
	"player/internal/pcm"
	"player/internal/sink"
)

// writeTestWAV synthesizes a one-second stereo sine and saves it as a WAV
// file the REPL can load.
func writeTestWAV(t *testing.T) string {
	t.Helper()
	format := pcm.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}
	data := make([]byte, 44100*format.BlockAlign())
	for i := 0; i < 44100; i++ {
		s := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/44100))
		for c := 0; c < 2; c++ {
			off := i*format.BlockAlign() + c*2
			data[off] = byte(s)
			data[off+1] = byte(s >> 8)
		}
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := codec.WriteWAV(path, &pcm.Clip{Format: format, Data: data}); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func newTestREPL(t *testing.T, in string) (*REPL, *bytes.Buffer) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.PollInterval = 2 * time.Millisecond

	e := engine.NewEngine(cfg, codec.NewRegistry(),
		func() sink.Sink { return sink.NewMemorySink() }, nil)
	if err := e.Initialize(bridge.NewSoftwareProcessor()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { e.Close() })

	out := &bytes.Buffer{}
	return NewREPL(e, strings.NewReader(in), out), out
}

func TestREPLSession(t *testing.T) {
	path := writeTestWAV(t)
	out := filepath.Join(t.TempDir(), "out.wav")
	script := strings.Join([]string{
		"load " + path,
		"info",
		"seek 0.5",
		"eq 200 6 1 5000 -3 1",
		"resample 22050",
		"save " + out,
		"stats",
		"quit",
	}, "\n")

	r, buf := newTestREPL(t, script)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := buf.String()
	for _, want := range []string{
		"loaded " + path,
		"44100 Hz, 2 ch, 16-bit",
		"position 0.50s",
		"eq applied",
		"now 22050 Hz",
		"saved " + out,
		"state: stopped",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	// The saved file must itself be loadable.
	if _, err := codec.NewRegistry().Decode(out); err != nil {
		t.Errorf("saved file does not decode: %v", err)
	}
}

func TestREPLReportsCommandErrors(t *testing.T) {
	script := strings.Join([]string{
		"play",
		"seek abc",
		"bogus",
		"quit",
	}, "\n")
	r, buf := newTestREPL(t, script)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := buf.String()
	for _, want := range []string{
		"no audio file loaded",
		"not a number",
		"unknown command",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestREPLExecuteArity(t *testing.T) {
	r, _ := newTestREPL(t, "")
	for _, line := range []string{"load", "seek", "eq 100 0 1", "save", "convert one"} {
		if err := r.Execute(line); err == nil || !strings.Contains(err.Error(), "usage:") {
			t.Errorf("%q: got %v, want usage error", line, err)
		}
	}
	if err := r.Execute(""); err != nil {
		t.Errorf("blank line: %v", err)
	}
	if err := r.Execute("quit"); !errors.Is(err, ErrQuit) {
		t.Errorf("quit: got %v, want ErrQuit", err)
	}
}
