package audio

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
)

// Graph is an in-process implementation of Context.
// Nodes render mono blocks on demand; the destination mixes everything
// connected to it and is exposed as a stereo beep.Streamer by Output.
type Graph struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	state      State
	dest       *graphNode

	// block is incremented for every pull so fan-out nodes render once.
	block uint64

	// onResume is invoked by Resume when the graph is bound to a device.
	onResume func() error
}

// NewGraph creates a running graph at the given sample rate.
func NewGraph(sampleRate int) *Graph {
	g := &Graph{
		sampleRate: beep.SampleRate(sampleRate),
		state:      StateRunning,
	}
	g.dest = g.newNode(passthrough{})
	return g
}

// SampleRate returns the graph sample rate in Hz.
func (g *Graph) SampleRate() int {
	return int(g.sampleRate)
}

// State returns the current state.
func (g *Graph) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Resume moves a suspended graph to running.
func (g *Graph) Resume() error {
	g.mu.Lock()
	if g.state == StateClosed {
		g.mu.Unlock()
		return fmt.Errorf("cannot resume: context %s", StateClosed)
	}
	resume := g.onResume
	g.mu.Unlock()

	if resume != nil {
		if err := resume(); err != nil {
			return fmt.Errorf("failed to resume output: %w", err)
		}
	}

	g.mu.Lock()
	g.state = StateRunning
	g.mu.Unlock()
	return nil
}

// Close marks the graph closed. The output keeps streaming silence.
func (g *Graph) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateClosed
}

func (g *Graph) setSuspended(resume func() error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateSuspended
	g.onResume = resume
}

// Destination returns the final node of the graph.
func (g *Graph) Destination() Node {
	return g.dest
}

// NewOscillator creates a sine source at freq Hz.
func (g *Graph) NewOscillator(freq float64) (Source, error) {
	tone, err := generators.SineTone(g.sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("failed to create oscillator: %w", err)
	}
	return g.newSource(&oscillator{tone: tone}), nil
}

// NewBufferSource creates a source that plays samples once.
func (g *Graph) NewBufferSource(samples []float64) (Source, error) {
	return g.newSource(&bufferSource{samples: slices.Clone(samples)}), nil
}

// NewBandpass creates a biquad bandpass filter.
func (g *Graph) NewBandpass(freq, q float64) (Node, error) {
	f, err := newBandpass(float64(g.sampleRate), freq, q)
	if err != nil {
		return nil, err
	}
	return g.newNode(f), nil
}

// NewGain creates a node scaling its input by gain.
func (g *Graph) NewGain(gain float64) (Node, error) {
	return g.newNode(gainStage(gain)), nil
}

// Output returns the streamer that renders the destination.
// It never drains; wrap it with beep.Take for finite rendering.
func (g *Graph) Output() beep.Streamer {
	return &graphOutput{g: g}
}

func (g *Graph) newNode(p processor) *graphNode {
	return &graphNode{graph: g, proc: p}
}

func (g *Graph) newSource(p sourceProcessor) *sourceNode {
	return &sourceNode{graphNode: g.newNode(p), src: p}
}

// activeSources counts started, unstopped sources still reachable from the destination.
func (g *Graph) activeSources() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[*graphNode]bool)
	count := 0
	var walk func(n *graphNode)
	walk = func(n *graphNode) {
		if seen[n] {
			return
		}
		seen[n] = true
		if sp, ok := n.proc.(sourceProcessor); ok && sp.playing() {
			count++
		}
		for _, in := range n.inputs {
			walk(in)
		}
	}
	walk(g.dest)
	return count
}

// processor turns summed input into output for one block.
type processor interface {
	process(in, out []float64)
}

// member exposes the underlying node so Connect can accept any Node
// created by the same graph.
type member interface {
	node() *graphNode
}

type graphNode struct {
	graph   *Graph
	proc    processor
	inputs  []*graphNode
	outputs []*graphNode

	renderedBlock uint64
	out           []float64
	in            []float64
}

func (n *graphNode) node() *graphNode { return n }

// Connect routes this node into dst.
func (n *graphNode) Connect(dst Node) error {
	m, ok := dst.(member)
	if !ok || m.node().graph != n.graph {
		return ErrForeignNode
	}
	target := m.node()

	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()

	if slices.Contains(n.outputs, target) {
		return nil
	}
	n.outputs = append(n.outputs, target)
	target.inputs = append(target.inputs, n)
	return nil
}

// Disconnect removes every outgoing connection.
func (n *graphNode) Disconnect() error {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()

	for _, target := range n.outputs {
		target.inputs = slices.DeleteFunc(target.inputs, func(in *graphNode) bool {
			return in == n
		})
	}
	n.outputs = nil
	return nil
}

// render produces this node's output for the given block. Callers hold graph.mu.
func (n *graphNode) render(block uint64, size int) []float64 {
	if n.renderedBlock == block && len(n.out) == size {
		return n.out
	}
	n.out = resize(n.out, size)
	clear(n.out)
	// Mark before recursing so a cycle reads silence instead of looping.
	n.renderedBlock = block

	n.in = resize(n.in, size)
	clear(n.in)
	for _, src := range n.inputs {
		for i, v := range src.render(block, size) {
			n.in[i] += v
		}
	}

	n.proc.process(n.in, n.out)
	return n.out
}

type sourceNode struct {
	*graphNode
	src sourceProcessor
}

// Start begins playback of the source.
func (s *sourceNode) Start() error {
	s.graph.mu.Lock()
	defer s.graph.mu.Unlock()
	return s.src.start()
}

// Stop ends playback of the source.
func (s *sourceNode) Stop() error {
	s.graph.mu.Lock()
	defer s.graph.mu.Unlock()
	return s.src.stop()
}

type graphOutput struct {
	g *Graph
}

// Stream renders the destination into both channels.
func (o *graphOutput) Stream(samples [][2]float64) (int, bool) {
	o.g.mu.Lock()
	defer o.g.mu.Unlock()

	o.g.block++
	if o.g.state != StateRunning {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	mono := o.g.dest.render(o.g.block, len(samples))
	for i, v := range mono {
		samples[i] = [2]float64{v, v}
	}
	return len(samples), true
}

func (o *graphOutput) Err() error {
	return nil
}

func resize(buf []float64, size int) []float64 {
	if cap(buf) < size {
		return make([]float64, size)
	}
	return buf[:size]
}
