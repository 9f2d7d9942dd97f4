package audio

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jmylchreest/alertbeep/internal/config"
)

// Alert tone parameters.
const (
	DefaultDuration = time.Second

	// MaxDuration is the longest alert Play will synthesize. Longer
	// requests are clamped; the noise buffer grows with the duration.
	MaxDuration = config.MaxDuration

	primaryFreq   = 1000.0
	secondaryFreq = 2000.0

	noiseAmplitude = 0.4
	noiseFilterHz  = 1600.0
	noiseFilterQ   = 0.8

	mainFilterHz = 1300.0
	mainFilterQ  = 0.7

	mainGain      = 0.35
	secondaryGain = 0.15
)

// toneGraph holds the nodes of one alert so they can be torn down together.
type toneGraph struct {
	sources []Source
	nodes   []Node
	noise   []float64
}

// noiseSamples returns sampleRate*d frames of uniform noise in [-0.4, 0.4].
func noiseSamples(sampleRate int, d time.Duration, rng *rand.Rand) []float64 {
	n := int(float64(sampleRate) * d.Seconds())
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = (rng.Float64()*2 - 1) * noiseAmplitude
	}
	return samples
}

// buildTone creates and wires the alert graph:
//
//	osc1, osc2, noise -> noiseFilter -> mainFilter -> gain 0.35 -> destination
//	osc2 -> gain 0.15 -> destination
//
// On error the returned graph holds whatever was created so far.
func buildTone(ac Context, d time.Duration, rng *rand.Rand) (*toneGraph, error) {
	t := &toneGraph{}

	osc1, err := ac.NewOscillator(primaryFreq)
	if err != nil {
		return t, err
	}
	t.sources = append(t.sources, osc1)

	osc2, err := ac.NewOscillator(secondaryFreq)
	if err != nil {
		return t, err
	}
	t.sources = append(t.sources, osc2)

	t.noise = noiseSamples(ac.SampleRate(), d, rng)
	noise, err := ac.NewBufferSource(t.noise)
	if err != nil {
		return t, err
	}
	t.sources = append(t.sources, noise)

	noiseFilter, err := ac.NewBandpass(noiseFilterHz, noiseFilterQ)
	if err != nil {
		return t, err
	}
	t.nodes = append(t.nodes, noiseFilter)

	mainFilter, err := ac.NewBandpass(mainFilterHz, mainFilterQ)
	if err != nil {
		return t, err
	}
	t.nodes = append(t.nodes, mainFilter)

	gain1, err := ac.NewGain(mainGain)
	if err != nil {
		return t, err
	}
	t.nodes = append(t.nodes, gain1)

	gain2, err := ac.NewGain(secondaryGain)
	if err != nil {
		return t, err
	}
	t.nodes = append(t.nodes, gain2)

	edges := []struct {
		name     string
		src, dst Node
	}{
		{"osc1->main filter", osc1, mainFilter},
		{"osc2->main filter", osc2, mainFilter},
		{"noise->noise filter", noise, noiseFilter},
		{"noise filter->main filter", noiseFilter, mainFilter},
		{"main filter->gain", mainFilter, gain1},
		{"gain->destination", gain1, ac.Destination()},
		{"osc2->secondary gain", osc2, gain2},
		{"secondary gain->destination", gain2, ac.Destination()},
	}
	for _, e := range edges {
		if err := e.src.Connect(e.dst); err != nil {
			return t, fmt.Errorf("failed to connect %s: %w", e.name, err)
		}
	}

	return t, nil
}

// start starts every source. Each start is its own best-effort region.
func (t *toneGraph) start(logger *slog.Logger) {
	for _, s := range t.sources {
		bestEffort(logger, "start source", s.Start)
	}
}

// teardown stops and disconnects the sources, then disconnects the
// processing nodes. Failures are swallowed.
func (t *toneGraph) teardown(logger *slog.Logger) {
	for _, s := range t.sources {
		bestEffort(logger, "stop source", s.Stop)
		bestEffort(logger, "disconnect source", s.Disconnect)
	}
	for _, n := range t.nodes {
		bestEffort(logger, "disconnect node", n.Disconnect)
	}
}

// bestEffort runs fn and swallows its error or panic, logging at debug.
// It reports whether fn succeeded.
func bestEffort(logger *slog.Logger, op string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("audio operation panicked", "op", op, "panic", r)
			ok = false
		}
	}()

	if err := fn(); err != nil {
		logger.Debug("audio operation failed", "op", op, "error", err)
		return false
	}
	return true
}
