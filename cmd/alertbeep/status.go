package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/alertbeep/internal/dbus"
)

var statusOpts struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the running alertbeepd",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := dbus.NewClient(cfg.Service.BusName)
	if err != nil {
		return err
	}

	st, err := client.Status(ctx)
	if err != nil {
		return err
	}

	if statusOpts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Print(formatStatus(st))
	return nil
}

// formatStatus renders a human-readable status block.
func formatStatus(st dbus.Status) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	onStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	flag := func(v bool) string {
		if v {
			return onStyle.Render("yes")
		}
		return offStyle.Render("no")
	}

	last := "never"
	if !st.LastPlayed.IsZero() {
		last = fmt.Sprintf("%s (%s)", humanize.Time(st.LastPlayed), st.LastID)
	}

	s := labelStyle.Render("primed:  ") + flag(st.Primed) + "\n"
	s += labelStyle.Render("playing: ") + flag(st.Playing) + "\n"
	s += labelStyle.Render("played:  ") + humanize.Comma(int64(st.Played)) + "\n"
	s += labelStyle.Render("dropped: ") + humanize.Comma(int64(st.Dropped)) + "\n"
	s += labelStyle.Render("last:    ") + last + "\n"
	return s
}
