package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

func TestCheckDuration(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		wantErr string
	}{
		{"unset uses default", 0, ""},
		{"typical", 750 * time.Millisecond, ""},
		{"at maximum", audio.MaxDuration, ""},
		{"over maximum", audio.MaxDuration + time.Millisecond, "maximum is"},
		{"days", 49 * 24 * time.Hour, "maximum is"},
		{"negative", -time.Second, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDuration(tt.d)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPlayCommand_RejectsExcessiveDuration(t *testing.T) {
	playOpts.duration = time.Hour
	t.Cleanup(func() { playOpts.duration = 0 })

	// Rejected before any config or audio device is touched.
	err := runPlay(playCmd, nil)
	assert.ErrorContains(t, err, "maximum is")
}
