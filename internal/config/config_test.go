package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 80, cfg.Audio.Volume)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 100*time.Millisecond, cfg.Audio.Buffer.Duration())
	assert.Equal(t, time.Second, cfg.Tone.Duration.Duration())
	assert.Equal(t, DefaultBusName, cfg.Service.BusName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[audio]
enabled = false
volume = 40
sample_rate = 48000
buffer = "50ms"

[tone]
duration = "750"

[service]
bus_name = "org.example.Beep"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 50*time.Millisecond, cfg.Audio.Buffer.Duration())
	assert.Equal(t, 750*time.Millisecond, cfg.Tone.Duration.Duration())
	assert.Equal(t, "org.example.Beep", cfg.Service.BusName)
	assert.InDelta(t, 0.4, cfg.VolumeFraction(), 1e-9)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[tone]
duration = "1.5s"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, 1500*time.Millisecond, cfg.Tone.Duration.Duration())

	// Unchanged fields should have defaults
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 80, cfg.Audio.Volume)
	assert.Equal(t, DefaultBusName, cfg.Service.BusName)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	err := os.WriteFile(path, []byte(`this is not valid toml [`), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	err := os.WriteFile(path, []byte("[tone]\nduration = \"soon\"\n"), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"volume too high", func(c *Config) { c.Audio.Volume = 101 }, "volume"},
		{"volume negative", func(c *Config) { c.Audio.Volume = -1 }, "volume"},
		{"sample rate too low", func(c *Config) { c.Audio.SampleRate = 4000 }, "sample_rate"},
		{"zero buffer", func(c *Config) { c.Audio.Buffer = 0 }, "buffer"},
		{"zero duration", func(c *Config) { c.Tone.Duration = 0 }, "tone duration"},
		{"long duration", func(c *Config) { c.Tone.Duration = Duration(time.Minute) }, "tone duration"},
		{"empty bus name", func(c *Config) { c.Service.BusName = "" }, "bus_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Audio.Volume = 25
	cfg.Tone.Duration = Duration(400 * time.Millisecond)

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Audio.Volume)
	assert.Equal(t, 400*time.Millisecond, loaded.Tone.Duration.Duration())
}

func TestConfig_Marshal(t *testing.T) {
	cfg := DefaultConfig()

	out, err := cfg.Marshal("toml")
	require.NoError(t, err)
	assert.Regexp(t, `duration = ['"]1s['"]`, string(out))

	out, err = cfg.Marshal("yaml")
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "1s", decoded["tone"]["duration"])
	assert.Equal(t, 80, decoded["audio"]["volume"])

	_, err = cfg.Marshal("xml")
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/alertbeep/config.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	path := ConfigPath()
	assert.Contains(t, path, "alertbeep/config.toml")
}
