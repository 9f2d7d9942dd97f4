package audio

import "errors"

var (
	// ErrUnavailable is returned by a Provider when the platform has no audio output.
	ErrUnavailable = errors.New("audio output unavailable")

	// ErrAlreadyStarted is returned when a source is started twice.
	ErrAlreadyStarted = errors.New("source already started")

	// ErrNotStarted is returned when stopping a source that was never started.
	ErrNotStarted = errors.New("source not started")

	// ErrForeignNode is returned when connecting nodes owned by different contexts.
	ErrForeignNode = errors.New("node belongs to a different context")
)

// State is the running state of an audio context.
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Node is a processing stage in an audio graph.
type Node interface {
	// Connect routes this node's output into dst.
	Connect(dst Node) error
	// Disconnect removes every outgoing connection of this node.
	Disconnect() error
}

// Source is a node that produces sound once started.
type Source interface {
	Node
	Start() error
	Stop() error
}

// Context is the host audio capability the tone player drives.
type Context interface {
	SampleRate() int
	State() State
	Resume() error
	Destination() Node

	NewOscillator(freq float64) (Source, error)
	NewBufferSource(samples []float64) (Source, error)
	NewBandpass(freq, q float64) (Node, error)
	NewGain(gain float64) (Node, error)
}

// Provider constructs the audio context. It returns ErrUnavailable
// (possibly wrapped) when no audio output exists.
type Provider func() (Context, error)
