package dbus

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

func TestDurationMillis(t *testing.T) {
	maxMs := uint32(audio.MaxDuration.Milliseconds())

	tests := []struct {
		name string
		d    time.Duration
		want uint32
	}{
		{"default", 0, 0},
		{"negative", -time.Second, 0},
		{"sub-millisecond", 300 * time.Microsecond, 1},
		{"typical", 750 * time.Millisecond, 750},
		{"maximum", audio.MaxDuration, maxMs},
		{"over maximum", time.Hour, maxMs},
		{"beyond uint32 range", time.Duration(math.MaxUint32+1) * time.Millisecond, maxMs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, durationMillis(tt.d))
		})
	}
}
