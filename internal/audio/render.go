package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// RenderWAV renders one alert of duration d offline and writes it as a
// 16-bit stereo WAV to w. d must not exceed MaxDuration.
func RenderWAV(w io.WriteSeeker, sampleRate int, d time.Duration, rng *rand.Rand) error {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if d <= 0 {
		d = DefaultDuration
	}
	if d > MaxDuration {
		return fmt.Errorf("duration %s exceeds maximum %s", d, MaxDuration)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger := slog.Default()
	g := NewGraph(sampleRate)
	tone, err := buildTone(g, d, rng)
	if err != nil {
		tone.teardown(logger)
		return fmt.Errorf("failed to build tone: %w", err)
	}
	defer tone.teardown(logger)

	for _, s := range tone.sources {
		if err := s.Start(); err != nil {
			return fmt.Errorf("failed to start source: %w", err)
		}
	}

	sr := beep.SampleRate(sampleRate)
	format := beep.Format{
		SampleRate:  sr,
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(w, beep.Take(sr.N(d), g.Output()), format); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return nil
}
