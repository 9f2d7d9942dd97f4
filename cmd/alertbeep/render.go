package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

var renderOpts struct {
	output     string
	duration   time.Duration
	sampleRate int
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the alert tone to a WAV file",
	Long: `Render one alert tone offline and write it as a 16-bit stereo WAV file.

No audio device is needed. The noise component is random, so two renders
are never byte-identical.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOpts.output, "output", "o", "alert.wav",
		"Output WAV file")
	renderCmd.Flags().DurationVarP(&renderOpts.duration, "duration", "d", 0,
		"Tone duration (default from config)")
	renderCmd.Flags().IntVar(&renderOpts.sampleRate, "sample-rate", 0,
		"Sample rate in Hz (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := checkDuration(renderOpts.duration); err != nil {
		return err
	}

	d := renderOpts.duration
	if d <= 0 {
		d = cfg.Tone.Duration.Duration()
	}
	sampleRate := renderOpts.sampleRate
	if sampleRate <= 0 {
		sampleRate = cfg.Audio.SampleRate
	}

	f, err := os.Create(renderOpts.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := audio.RenderWAV(f, sampleRate, d, nil); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logger.Info("rendered alert", "path", renderOpts.output, "duration", d, "sample_rate", sampleRate)
	return nil
}
