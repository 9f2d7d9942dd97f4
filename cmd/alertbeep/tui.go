package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/alertbeep/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive alert console",
	Long: `Launch the interactive terminal interface.

Audio output is enabled by the first key press, then the alert can be
played on demand.

Key bindings:
  space/enter  Play the alert
  +/-          Adjust the duration
  ?            Show help
  q            Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	m, out := newLocalManager()
	defer out.Close()

	return tui.Run(tui.RunOptions{
		Player:   m,
		Duration: cfg.Tone.Duration.Duration(),
	})
}
