package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/alertbeep/internal/dbus"
)

var ringOpts struct {
	duration time.Duration
	prime    bool
}

var ringCmd = &cobra.Command{
	Use:   "ring",
	Short: "Ask the running alertbeepd to play the alert",
	Long: `Send a Play request to alertbeepd over the session bus.

The call returns immediately; the daemon drops the request if an alert
is already sounding.`,
	RunE: runRing,
}

func init() {
	rootCmd.AddCommand(ringCmd)

	ringCmd.Flags().DurationVarP(&ringOpts.duration, "duration", "d", 0,
		"Tone duration (default from the daemon config)")
	ringCmd.Flags().BoolVar(&ringOpts.prime, "prime", false,
		"Prime the daemon's audio output before playing")
}

func runRing(cmd *cobra.Command, args []string) error {
	if err := checkDuration(ringOpts.duration); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := dbus.NewClient(cfg.Service.BusName)
	if err != nil {
		return err
	}

	if ringOpts.prime {
		if err := client.Prime(ctx); err != nil {
			return err
		}
	}
	return client.Play(ctx, ringOpts.duration)
}
