package main

import (
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"player/cmd"
	"player/internal/bridge"
	"player/internal/codec"
	"player/internal/config"
	"player/internal/engine"
	"player/internal/log"
	"player/internal/sink"
	"player/internal/transport"
)

// main is the entry point for the playback engine. The program flow is
// divided into three phases:
//
// 1. Startup Phase:
//   - Parse command line arguments and the config file
//   - Configure logging
//   - Initialize PortAudio unless running with --no-audio
//   - Bind the processing backend and build the engine
//
// 2. Run Phase:
//   - Execute a one-off command if one was given, or
//   - Preload the requested file and enter the interactive REPL
//
// 3. Shutdown Phase:
//   - Handle termination signals
//   - Stop playback and release the device and status server
func main() {
	// ==================== STARTUP PHASE ====================

	cfg, err := cmd.ParseArgs()
	if err != nil {
		stdlog.Fatal(err)
	}
	if cfg == nil {
		// Help or completion output; nothing to run.
		return
	}

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	if !cfg.NoAudio {
		if err := sink.Initialize(); err != nil {
			stdlog.Fatal(err)
		}
		defer sink.Terminate()
	}

	var proc bridge.Processor
	switch cfg.Accelerator {
	case "software":
		proc = bridge.NewSoftwareProcessor()
	default:
		proc = bridge.NewNullProcessor()
	}

	factory := sinkFactory(cfg)

	var status transport.Transport
	if cfg.StatusAddr != "" {
		status = transport.NewWebSocketTransport(cfg.StatusAddr)
	} else if log.GetLevel() == log.LevelDebug {
		status = transport.NewLogTransport()
	}

	eng := engine.NewEngine(cfg, codec.NewRegistry(), factory, status)
	if err := eng.Initialize(proc); err != nil {
		stdlog.Fatal(err)
	}

	// ==================== RUN PHASE ====================

	repl := cmd.NewREPL(eng, os.Stdin, os.Stdout)

	// One-off commands run through the same dispatcher as the REPL.
	if cfg.Command != "" {
		err := repl.Execute(cfg.Command)
		if cerr := eng.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			stdlog.Fatal(err)
		}
		return
	}

	if cfg.InitialFile != "" {
		if err := eng.LoadFile(cfg.InitialFile); err != nil {
			stdlog.Fatal(err)
		}
	}

	// Shut down cleanly on Ctrl-C even mid-playback.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	replDone := make(chan error, 1)
	go func() { replDone <- repl.Run() }()

	select {
	case <-sigs:
		log.Infof("signal received, shutting down")
	case err := <-replDone:
		if err != nil {
			log.Errorf("repl: %v", err)
		}
	}

	// ==================== SHUTDOWN PHASE ====================

	if err := eng.Close(); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

// sinkFactory picks the output path: a real device, or a memory sink when
// audio output is disabled.
func sinkFactory(cfg *config.Config) sink.Factory {
	if cfg.NoAudio {
		return func() sink.Sink { return sink.NewMemorySink() }
	}
	return func() sink.Sink { return sink.NewPortAudioSink(cfg.FramesPerBuffer) }
}
