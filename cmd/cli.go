package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"player/internal/config"
)

// ParseArgs builds the runtime configuration from the config file, the
// environment and the command line, in that order of precedence (flags win).
func ParseArgs() (*config.Config, error) {
	flags := config.NewConfig()
	var cfgPath string
	var verbose bool
	var options *config.Config

	rootCmd := &cobra.Command{
		Use:           "player [file]",
		Short:         "Desktop audio playback engine with offline processing",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			options = loaded

			// Explicit flags beat both the file and the environment.
			pf := cmd.Root().PersistentFlags()
			if pf.Changed("log-level") {
				options.LogLevel = flags.LogLevel
			}
			if verbose {
				options.LogLevel = "debug"
			}
			if pf.Changed("accel") {
				options.Accelerator = flags.Accelerator
			}
			if pf.Changed("no-audio") {
				options.NoAudio = flags.NoAudio
			}
			if pf.Changed("status-addr") {
				options.StatusAddr = flags.StatusAddr
			}
			if pf.Changed("frames-per-buffer") {
				options.FramesPerBuffer = flags.FramesPerBuffer
			}
			return options.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				options.InitialFile = args[0]
			}
			return nil
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Devices command
	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio output devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "devices"
		},
	}
	rootCmd.AddCommand(devicesCmd)

	// Info command
	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the format and duration of an audio file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "info " + args[0]
		},
	}
	rootCmd.AddCommand(infoCmd)

	// Convert command
	convertCmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Decode an audio file and rewrite it as PCM WAV",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "convert " + args[0] + " " + args[1]
		},
	}
	rootCmd.AddCommand(convertCmd)

	// Configuration source
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "",
		"Path to a YAML configuration file. Default is player.yaml if present.")

	// Engine Configuration
	rootCmd.PersistentFlags().StringVarP(&flags.Accelerator, "accel", "a", config.DefaultAccelerator,
		"Processing backend: software or none")
	rootCmd.PersistentFlags().IntVarP(&flags.FramesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per device buffer (affects latency)")
	rootCmd.PersistentFlags().BoolVar(&flags.NoAudio, "no-audio", config.DefaultNoAudio,
		"Discard output instead of opening an audio device")

	// Status Configuration
	rootCmd.PersistentFlags().StringVar(&flags.StatusAddr, "status-addr", config.DefaultStatusAddr,
		"Address for the websocket status server, e.g. :8090. Empty disables it.")

	// Debug Configuration
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Shortcut for --log-level debug")

	// Execute the CLI
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}
