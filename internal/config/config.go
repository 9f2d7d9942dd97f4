// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultVolume     = 80
	DefaultSampleRate = 44100
	DefaultBuffer     = 100 * time.Millisecond
	DefaultDuration   = time.Second
	DefaultBusName    = "io.github.jmylchreest.AlertBeep"

	// MaxDuration bounds a single alert; the player cannot be interrupted.
	MaxDuration = 30 * time.Second
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "500ms", "1s", "1.5s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer values are milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '500ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the alertbeep configuration.
type Config struct {
	Audio   AudioConfig   `toml:"audio" yaml:"audio"`
	Tone    ToneConfig    `toml:"tone" yaml:"tone"`
	Service ServiceConfig `toml:"service" yaml:"service"`
}

// AudioConfig contains output device settings.
type AudioConfig struct {
	Enabled    bool     `toml:"enabled" yaml:"enabled"`
	Volume     int      `toml:"volume" yaml:"volume"`           // 0-100
	SampleRate int      `toml:"sample_rate" yaml:"sample_rate"` // Hz
	Buffer     Duration `toml:"buffer" yaml:"buffer"`           // Speaker buffer length
}

// ToneConfig contains alert tone settings.
type ToneConfig struct {
	Duration Duration `toml:"duration" yaml:"duration"` // Default alert length
}

// ServiceConfig contains D-Bus service settings.
type ServiceConfig struct {
	BusName string `toml:"bus_name" yaml:"bus_name"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     DefaultVolume,
			SampleRate: DefaultSampleRate,
			Buffer:     Duration(DefaultBuffer),
		},
		Tone: ToneConfig{
			Duration: Duration(DefaultDuration),
		},
		Service: ServiceConfig{
			BusName: DefaultBusName,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "alertbeep", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and writes atomically via a temp file.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	// The tone reaches 2 kHz, so Nyquist needs at least 4 kHz; keep a margin.
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000, got %d", c.Audio.SampleRate)
	}

	if c.Audio.Buffer.Duration() <= 0 || c.Audio.Buffer.Duration() > time.Second {
		return fmt.Errorf("buffer must be between 1ms and 1s, got %s", c.Audio.Buffer.Duration())
	}

	if d := c.Tone.Duration.Duration(); d <= 0 || d > MaxDuration {
		return fmt.Errorf("tone duration must be between 1ms and %s, got %s", MaxDuration, d)
	}

	if c.Service.BusName == "" {
		return errors.New("service bus_name must not be empty")
	}

	return nil
}

// VolumeFraction returns the configured volume as 0.0-1.0.
func (c *Config) VolumeFraction() float64 {
	return float64(c.Audio.Volume) / 100.0
}
