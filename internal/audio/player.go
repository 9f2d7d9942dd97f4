package audio

import (
	"crypto/rand"
	"log/slog"
	mrand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Playback describes one completed alert.
type Playback struct {
	ID         ulid.ULID
	Duration   time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
}

// Status is a snapshot of the player state.
type Status struct {
	Primed     bool
	Playing    bool
	SampleRate int
	Played     uint64
	Dropped    uint64
	LastID     string
	LastPlayed time.Time
}

// PlayerOption configures a TonePlayer.
type PlayerOption func(*TonePlayer)

// WithDefaultDuration sets the duration used when Play is given d <= 0.
func WithDefaultDuration(d time.Duration) PlayerOption {
	return func(p *TonePlayer) {
		if d > 0 {
			p.defaultDuration = min(d, MaxDuration)
		}
	}
}

// WithRand sets the noise generator.
func WithRand(rng *mrand.Rand) PlayerOption {
	return func(p *TonePlayer) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithWait replaces the function used to wait out the tone.
func WithWait(wait func(time.Duration)) PlayerOption {
	return func(p *TonePlayer) {
		if wait != nil {
			p.wait = wait
		}
	}
}

// WithFinishedHook registers a callback invoked after each completed alert.
func WithFinishedHook(fn func(Playback)) PlayerOption {
	return func(p *TonePlayer) {
		p.onFinished = fn
	}
}

// TonePlayer plays the alert tone on a primed audio context.
// At most one alert plays at a time; requests arriving while one is in
// flight are dropped. No method returns an error: every failure of the
// audio host degrades to silence.
type TonePlayer struct {
	logger   *slog.Logger
	provider Provider

	// mu guards the fields below it.
	mu              sync.Mutex
	ac              Context
	primed          bool
	defaultDuration time.Duration
	played          uint64
	dropped         uint64
	lastID          ulid.ULID
	lastPlayed      time.Time

	// lock is held for the duration of one playback.
	lock atomic.Bool

	// rng is only used while lock is held.
	rng        *mrand.Rand
	wait       func(time.Duration)
	onFinished func(Playback)
}

// NewTonePlayer creates a player that obtains its context from provider on Prime.
func NewTonePlayer(provider Provider, logger *slog.Logger, opts ...PlayerOption) *TonePlayer {
	if logger == nil {
		logger = slog.Default()
	}

	p := &TonePlayer{
		logger:          logger,
		provider:        provider,
		defaultDuration: DefaultDuration,
		rng:             mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64())),
		wait:            time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prime creates and activates the audio context. Call it from a user
// gesture on platforms that gate audio output. Once it succeeds, later
// calls do nothing; if no audio output exists it returns silently and
// the player stays inert.
func (p *TonePlayer) Prime() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.primed {
		return
	}
	if p.provider == nil {
		p.logger.Debug("no audio provider configured")
		return
	}

	var ac Context
	ok := bestEffort(p.logger, "create context", func() error {
		var err error
		ac, err = p.provider()
		return err
	})
	if !ok || ac == nil {
		return
	}

	if ac.State() == StateSuspended {
		bestEffort(p.logger, "resume context", ac.Resume)
	}

	p.ac = ac
	p.primed = true
	p.unlockOutput(ac)

	p.logger.Debug("audio context primed", "sample_rate", ac.SampleRate(), "state", ac.State())
}

// unlockOutput plays a single silent sample so gated outputs start.
func (p *TonePlayer) unlockOutput(ac Context) {
	var src Source
	ok := bestEffort(p.logger, "create silent source", func() error {
		var err error
		src, err = ac.NewBufferSource([]float64{0})
		return err
	})
	if !ok || src == nil {
		return
	}

	if !bestEffort(p.logger, "connect silent source", func() error {
		return src.Connect(ac.Destination())
	}) {
		return
	}
	bestEffort(p.logger, "start silent source", src.Start)
}

// Play synthesizes the alert tone for d (the default duration when d <= 0,
// at most MaxDuration) and blocks until it has been torn down. It returns
// immediately, doing nothing, when the player is not primed or another
// alert is playing.
func (p *TonePlayer) Play(d time.Duration) {
	p.mu.Lock()
	ac, primed := p.ac, p.primed
	if d <= 0 {
		d = p.defaultDuration
	}
	p.mu.Unlock()

	if d > MaxDuration {
		p.logger.Debug("alert duration clamped", "requested", d, "max", MaxDuration)
		d = MaxDuration
	}

	if !primed || ac == nil {
		p.logger.Debug("alert skipped, audio not primed")
		return
	}

	if !p.lock.CompareAndSwap(false, true) {
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
		p.logger.Debug("alert dropped, already playing")
		return
	}
	defer p.lock.Store(false)

	id := newPlaybackID()
	logger := p.logger.With("playback", id.String())

	var tone *toneGraph
	ok := bestEffort(logger, "build tone", func() error {
		var err error
		tone, err = buildTone(ac, d, p.rng)
		return err
	})
	if !ok {
		if tone != nil {
			tone.teardown(logger)
		}
		return
	}

	started := time.Now()
	tone.start(logger)
	logger.Debug("alert started", "duration", d)

	p.wait(d)

	tone.teardown(logger)

	pb := Playback{
		ID:         id,
		Duration:   d,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	p.mu.Lock()
	p.played++
	p.lastID = id
	p.lastPlayed = pb.FinishedAt
	hook := p.onFinished
	p.mu.Unlock()

	logger.Debug("alert finished")
	if hook != nil {
		bestEffort(logger, "finished hook", func() error {
			hook(pb)
			return nil
		})
	}
}

// Primed reports whether the audio context is active.
func (p *TonePlayer) Primed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.primed
}

// Playing reports whether an alert is in flight.
func (p *TonePlayer) Playing() bool {
	return p.lock.Load()
}

// SetDefaultDuration changes the duration used when Play is given d <= 0.
func (p *TonePlayer) SetDefaultDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.defaultDuration = min(d, MaxDuration)
}

// DefaultDuration returns the duration used when Play is given d <= 0.
func (p *TonePlayer) DefaultDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defaultDuration
}

// Status returns a snapshot of the player state.
func (p *TonePlayer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Status{
		Primed:     p.primed,
		Playing:    p.lock.Load(),
		Played:     p.played,
		Dropped:    p.dropped,
		LastPlayed: p.lastPlayed,
	}
	if p.ac != nil {
		s.SampleRate = p.ac.SampleRate()
	}
	if p.played > 0 {
		s.LastID = p.lastID.String()
	}
	return s
}

func newPlaybackID() ulid.ULID {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return ulid.ULID{}
	}
	return id
}
