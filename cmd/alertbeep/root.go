// Package main provides the CLI entrypoint for alertbeep.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/alertbeep/internal/audio"
	"github.com/jmylchreest/alertbeep/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "alertbeep",
	Short: "Audible alert tone player",
	Long: `alertbeep synthesizes a short alert tone (two sine oscillators plus
band-passed noise) and plays it on the default audio output.

Only one alert plays at a time; requests made while an alert is sounding
are dropped. Running alertbeep without a subcommand launches the
interactive TUI.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/alertbeep/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newLocalManager builds a manager playing through the system speaker.
func newLocalManager() (*audio.Manager, *audio.SpeakerOutput) {
	out := audio.NewSpeakerOutput(cfg.Audio.SampleRate, cfg.Audio.Buffer.Duration(), cfg.VolumeFraction(), logger)
	return audio.NewManager(cfg, out.Provider(), out, logger), out
}

// checkDuration rejects a --duration flag longer than a single alert may last.
func checkDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid --duration %s: must not be negative", d)
	}
	if d > audio.MaxDuration {
		return fmt.Errorf("invalid --duration %s: maximum is %s", d, audio.MaxDuration)
	}
	return nil
}
