package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// Default speaker settings.
const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 100 * time.Millisecond
)

// SpeakerOutput routes a Graph to the system speaker with a master volume.
type SpeakerOutput struct {
	mu     sync.Mutex
	logger *slog.Logger

	sampleRate beep.SampleRate
	buffer     time.Duration
	volume     float64

	// Set once the speaker is initialized.
	ctrl *effects.Volume
}

// NewSpeakerOutput creates a speaker output. Nothing touches the audio
// device until its Provider is invoked.
func NewSpeakerOutput(sampleRate int, buffer time.Duration, volume float64, logger *slog.Logger) *SpeakerOutput {
	if logger == nil {
		logger = slog.Default()
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &SpeakerOutput{
		logger:     logger,
		sampleRate: beep.SampleRate(sampleRate),
		buffer:     buffer,
		volume:     clampVolume(volume),
	}
}

// Provider returns a Provider that initializes the speaker and plays a
// fresh Graph through it. The speaker starts suspended; Resume on the
// returned context resumes it.
func (o *SpeakerOutput) Provider() Provider {
	return func() (Context, error) {
		o.mu.Lock()
		defer o.mu.Unlock()

		bufferSize := o.sampleRate.N(o.buffer)
		if err := speaker.Init(o.sampleRate, bufferSize); err != nil {
			return nil, fmt.Errorf("%w: failed to initialize speaker: %v", ErrUnavailable, err)
		}

		g := NewGraph(int(o.sampleRate))
		if err := speaker.Suspend(); err != nil {
			o.logger.Debug("speaker suspend failed, starting running", "error", err)
		} else {
			g.setSuspended(speaker.Resume)
		}

		o.ctrl = &effects.Volume{
			Streamer: g.Output(),
			Base:     10,
		}
		applyVolume(o.ctrl, o.volume)
		speaker.Play(o.ctrl)

		o.logger.Debug("speaker initialized", "sample_rate", o.sampleRate, "buffer", o.buffer)
		return g, nil
	}
}

// SetVolume sets the master volume (0.0 to 1.0).
func (o *SpeakerOutput) SetVolume(volume float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.volume = clampVolume(volume)
	if o.ctrl != nil {
		speaker.Lock()
		applyVolume(o.ctrl, o.volume)
		speaker.Unlock()
	}
	o.logger.Debug("volume set", "volume", o.volume)
}

// Volume returns the master volume.
func (o *SpeakerOutput) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// Close releases the speaker.
func (o *SpeakerOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctrl != nil {
		speaker.Close()
		o.ctrl = nil
	}
}

func applyVolume(v *effects.Volume, volume float64) {
	v.Silent = volume <= 0
	if v.Silent {
		v.Volume = 0
		return
	}
	// Base 10 makes Volume the log of the linear gain.
	v.Volume = math.Log10(volume)
}

func clampVolume(volume float64) float64 {
	return min(max(volume, 0), 1)
}
