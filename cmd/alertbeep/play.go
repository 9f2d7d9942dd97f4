package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var playOpts struct {
	duration time.Duration
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the alert tone once on this machine",
	Long: `Prime the default audio output and play the alert tone once.

The command blocks until the tone has finished. If no audio output is
available the command exits with an error; the tone itself never fails
loudly.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVarP(&playOpts.duration, "duration", "d", 0,
		"Tone duration (default from config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := checkDuration(playOpts.duration); err != nil {
		return err
	}

	if !cfg.Audio.Enabled {
		logger.Info("audio disabled in config, nothing to play")
		return nil
	}

	m, out := newLocalManager()
	defer out.Close()

	m.Prime()
	if !m.Status().Primed {
		return errors.New("no audio output available")
	}

	m.Play(playOpts.duration)
	return nil
}
