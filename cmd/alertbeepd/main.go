// Package main is the entry point for the alertbeepd alert daemon.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/alertbeep/internal/audio"
	"github.com/jmylchreest/alertbeep/internal/config"
	"github.com/jmylchreest/alertbeep/internal/dbus"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/alertbeep/config.toml)")
	alertOnNotify := flag.Bool("alert-on-critical", false, "Play the alert for critical desktop notifications observed on the session bus")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("alertbeepd version", version)
		os.Exit(0)
	}

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *alertOnNotify); err != nil {
		logger.Error("alertbeepd failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string, alertOnNotify bool) error {
	logger.Info("starting alertbeepd", "version", version)

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := audio.NewSpeakerOutput(cfg.Audio.SampleRate, cfg.Audio.Buffer.Duration(), cfg.VolumeFraction(), logger)
	defer out.Close()

	var svc *dbus.ToneService
	manager := audio.NewManager(cfg, out.Provider(), out, logger,
		audio.WithFinishedHook(func(pb audio.Playback) {
			if err := svc.EmitPlaybackFinished(pb); err != nil {
				logger.Debug("failed to emit playback signal", "error", err)
			}
		}),
	)

	// A daemon has no user gesture to wait for; prime straight away.
	manager.Prime()
	if !manager.Status().Primed {
		logger.Warn("no audio output available, alerts will be silent until the next prime")
	}

	svc = dbus.NewToneService(manager, cfg.Service.BusName, logger)
	if err := svc.Start(); err != nil {
		return err
	}

	// Initialize config watcher for hot-reload
	watcher, err := config.NewWatcher(configPath, func(newConfig *config.Config) {
		logger.Info("config reloaded")
		manager.UpdateConfig(newConfig)
	}, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
	} else if err := watcher.Start(); err != nil {
		// Start releases the watcher on failure.
		logger.Warn("failed to start config watcher", "error", err)
		watcher = nil
	}

	var monitor *dbus.Monitor
	if alertOnNotify {
		monitor = dbus.NewMonitor(logger)
		monitor.SetNotifyHandler(dbus.AlertOnUrgency(svc, dbus.UrgencyCritical, logger))
		if err := monitor.Start(); err != nil {
			logger.Warn("failed to start notification monitor", "error", err)
			monitor = nil
		}
	}

	logger.Info("alertbeepd ready", "bus_name", cfg.Service.BusName)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	// Clean up
	if monitor != nil {
		if err := monitor.Stop(); err != nil {
			logger.Warn("error stopping monitor", "error", err)
		}
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Warn("error stopping config watcher", "error", err)
		}
	}
	// Waits for every alert, bus or monitor initiated, before the speaker closes.
	if err := svc.Stop(); err != nil {
		logger.Warn("error stopping service", "error", err)
	}

	logger.Info("alertbeepd stopped")
	return nil
}
