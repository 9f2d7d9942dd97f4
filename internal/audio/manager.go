package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/alertbeep/internal/config"
)

// VolumeControl adjusts the master output volume (0.0 to 1.0).
type VolumeControl interface {
	SetVolume(volume float64)
}

// Manager applies configuration to a TonePlayer: the enabled switch,
// default duration and master volume, including hot reloads.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *TonePlayer
	volume VolumeControl
	config *config.Config
}

// NewManager creates a manager around a new TonePlayer using provider.
// volume may be nil when the output has no master volume.
func NewManager(cfg *config.Config, provider Provider, volume VolumeControl, logger *slog.Logger, opts ...PlayerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts = append([]PlayerOption{WithDefaultDuration(cfg.Tone.Duration.Duration())}, opts...)

	m := &Manager{
		logger: logger,
		player: NewTonePlayer(provider, logger, opts...),
		volume: volume,
		config: cfg,
	}
	m.applyVolume(cfg)
	return m
}

// Player returns the underlying tone player.
func (m *Manager) Player() *TonePlayer {
	return m.player
}

// Prime primes the player unless audio is disabled.
func (m *Manager) Prime() {
	if !m.enabled() {
		return
	}
	m.player.Prime()
}

// Play plays the alert for d (configured default when d <= 0) unless audio is disabled.
func (m *Manager) Play(d time.Duration) {
	if !m.enabled() {
		m.logger.Debug("alert skipped, audio disabled")
		return
	}
	m.player.Play(d)
}

// Status returns the player status.
func (m *Manager) Status() Status {
	return m.player.Status()
}

// Enabled reports whether audio is enabled in the current configuration.
func (m *Manager) Enabled() bool {
	return m.enabled()
}

func (m *Manager) enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Audio.Enabled
}

// UpdateConfig applies a new configuration.
// This is called when the config file is hot-reloaded. Sample rate and
// buffer changes only take effect for a context primed afterwards.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.player.SetDefaultDuration(cfg.Tone.Duration.Duration())
	m.applyVolume(cfg)

	m.logger.Debug("audio manager config updated",
		"enabled", cfg.Audio.Enabled,
		"volume", cfg.Audio.Volume,
		"duration", cfg.Tone.Duration.Duration(),
	)
}

func (m *Manager) applyVolume(cfg *config.Config) {
	if m.volume != nil {
		m.volume.SetVolume(cfg.VolumeFraction())
	}
}
