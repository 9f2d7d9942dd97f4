package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep/v2"
)

// sourceProcessor is a processor with a start/stop lifecycle.
type sourceProcessor interface {
	processor
	start() error
	stop() error
	playing() bool
}

type sourceState int

const (
	sourceIdle sourceState = iota
	sourceRunning
	sourceStopped
)

type lifecycle struct {
	state sourceState
}

func (l *lifecycle) start() error {
	if l.state != sourceIdle {
		return ErrAlreadyStarted
	}
	l.state = sourceRunning
	return nil
}

func (l *lifecycle) stop() error {
	if l.state == sourceIdle {
		return ErrNotStarted
	}
	l.state = sourceStopped
	return nil
}

func (l *lifecycle) playing() bool {
	return l.state == sourceRunning
}

// oscillator pulls from a beep tone generator while running.
type oscillator struct {
	lifecycle
	tone beep.Streamer
	buf  [][2]float64
}

func (o *oscillator) process(_, out []float64) {
	if !o.playing() {
		return
	}
	if cap(o.buf) < len(out) {
		o.buf = make([][2]float64, len(out))
	}
	o.buf = o.buf[:len(out)]
	n, _ := o.tone.Stream(o.buf)
	for i := 0; i < n; i++ {
		out[i] = o.buf[i][0]
	}
}

// bufferSource plays its samples once, then outputs silence.
type bufferSource struct {
	lifecycle
	samples []float64
	pos     int
}

// playing is false once every sample has been rendered.
func (b *bufferSource) playing() bool {
	return b.lifecycle.playing() && b.pos < len(b.samples)
}

func (b *bufferSource) process(_, out []float64) {
	if !b.playing() {
		return
	}
	n := copy(out, b.samples[b.pos:])
	b.pos += n
}

// biquad is a direct form I second-order filter.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// newBandpass returns a constant 0 dB peak gain bandpass centred on freq.
// Coefficients follow the RBJ audio EQ cookbook.
func newBandpass(sampleRate, freq, q float64) (*biquad, error) {
	if freq <= 0 || freq >= sampleRate/2 {
		return nil, fmt.Errorf("bandpass frequency %.1f Hz out of range for sample rate %.0f Hz", freq, sampleRate)
	}
	if q <= 0 {
		return nil, fmt.Errorf("bandpass Q must be positive, got %g", q)
	}

	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	return &biquad{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * math.Cos(w0) / a0,
		a2: (1 - alpha) / a0,
	}, nil
}

func (f *biquad) process(in, out []float64) {
	for i, x := range in {
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		out[i] = y
	}
}

type gainStage float64

func (g gainStage) process(in, out []float64) {
	for i, x := range in {
		out[i] = x * float64(g)
	}
}

type passthrough struct{}

func (passthrough) process(in, out []float64) {
	copy(out, in)
}
