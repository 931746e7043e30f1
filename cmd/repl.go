package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"player/internal/codec"
	"player/internal/engine"
	"player/internal/sink"
)

// ErrQuit signals that the user asked the REPL to exit.
var ErrQuit = errors.New("quit")

const replHelp = `Commands:
  load <file>                      decode a WAV or FLAC file into the session
  play [file]                      start playback, optionally loading first
  pause | stop                     playback control
  seek <seconds>                   move the playback cursor
  eq <lf> <lg> <lq> <hf> <hg> <hq> apply a two-band EQ (freq Hz, gain dB, Q)
  resample <rate>                  convert the session to a new sample rate
  bitrate <kbps>                   reduce the effective bitrate
  save <file>                      write the session to a WAV file
  info [file]                      show format details
  convert <in> <out> [kbps]        decode a file and rewrite it as WAV
  stats                            engine and spectrum report
  devices                          list audio output devices
  help                             this text
  quit                             exit`

// REPL drives the engine from line-oriented commands. The same dispatcher
// backs both the interactive prompt and one-off commands from the CLI.
type REPL struct {
	engine   *engine.Engine
	registry *codec.Registry
	in       io.Reader
	out      io.Writer
}

func NewREPL(e *engine.Engine, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		engine:   e,
		registry: codec.NewRegistry(),
		in:       in,
		out:      out,
	}
}

// Run reads commands until EOF or quit. Command errors are reported and the
// loop continues; only input failure ends the session with an error.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, "player ready. Type 'help' for commands.")
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := r.Execute(scanner.Text()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

// Execute runs a single command line.
func (r *REPL) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: load <file>")
		}
		if err := r.engine.LoadFile(args[0]); err != nil {
			return err
		}
		clip := r.engine.Clip()
		fmt.Fprintf(r.out, "loaded %s: %s, %.2fs\n", args[0], clip.Format, clip.Duration())
		return nil

	case "play":
		if len(args) == 1 {
			if err := r.engine.LoadFile(args[0]); err != nil {
				return err
			}
		}
		return r.engine.Play()

	case "pause", "toggle":
		st, err := r.engine.Pause()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s\n", st)
		return nil

	case "stop":
		return r.engine.Stop()

	case "seek":
		if len(args) != 1 {
			return fmt.Errorf("usage: seek <seconds>")
		}
		s, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("seek: %q is not a number", args[0])
		}
		rewound, err := r.engine.Seek(s)
		if err != nil {
			return err
		}
		if rewound {
			fmt.Fprintln(r.out, "past the end, rewound to start")
		} else {
			fmt.Fprintf(r.out, "position %.2fs\n", r.engine.Position())
		}
		return nil

	case "eq":
		if len(args) != 6 {
			return fmt.Errorf("usage: eq <lowFreq> <lowGain> <lowQ> <highFreq> <highGain> <highQ>")
		}
		var v [6]float64
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return fmt.Errorf("eq: %q is not a number", a)
			}
			v[i] = f
		}
		if err := r.engine.SetEQ(v[0], v[1], v[2], v[3], v[4], v[5]); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "eq applied")
		return nil

	case "resample":
		if len(args) != 1 {
			return fmt.Errorf("usage: resample <rate>")
		}
		rate, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("resample: %q is not a number", args[0])
		}
		if err := r.engine.ResampleTo(rate); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "now %s\n", r.engine.Clip().Format)
		return nil

	case "bitrate":
		if len(args) != 1 {
			return fmt.Errorf("usage: bitrate <kbps>")
		}
		kbps, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bitrate: %q is not a number", args[0])
		}
		if err := r.engine.SetTargetBitrate(kbps); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "bitrate applied")
		return nil

	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save <file>")
		}
		if err := r.engine.SaveFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "saved %s\n", args[0])
		return nil

	case "info":
		if len(args) == 1 {
			clip, err := r.registry.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s: %s, %.2fs, %d frames\n",
				args[0], clip.Format, clip.Duration(), clip.Frames())
			return nil
		}
		if !r.engine.IsFileLoaded() {
			return engine.ErrNoFileLoaded
		}
		clip := r.engine.Clip()
		fmt.Fprintf(r.out, "%s: %s, %.2fs, %d frames\n",
			r.engine.CurrentFile(), clip.Format, clip.Duration(), clip.Frames())
		return nil

	case "convert":
		// Runs through the session, so it replaces whatever was loaded.
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: convert <in> <out> [kbps]")
		}
		if err := r.engine.LoadFile(args[0]); err != nil {
			return err
		}
		if len(args) == 3 {
			kbps, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("convert: %q is not a number", args[2])
			}
			if err := r.engine.SetTargetBitrate(kbps); err != nil {
				return err
			}
		}
		if err := r.engine.SaveFile(args[1]); err != nil {
			return err
		}
		clip := r.engine.Clip()
		fmt.Fprintf(r.out, "wrote %s (%s, %.2fs)\n", args[1], clip.Format, clip.Duration())
		return nil

	case "stats":
		report, err := r.engine.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprint(r.out, report)
		return nil

	case "devices":
		return sink.ListOutputDevices()

	case "help":
		fmt.Fprintln(r.out, replHelp)
		return nil

	case "quit", "exit":
		return ErrQuit

	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}
