package audio

import (
	"errors"
	"sync"
)

// fakeContext records every node created through it.
type fakeContext struct {
	mu sync.Mutex

	sampleRate int
	state      State
	resumeErr  error
	resumed    int

	// failKind makes creation of the named node kind fail.
	failKind string

	// node behaviour applied to every node created
	startErr      error
	disconnectErr error
	panicOnStop   bool

	dest  *fakeNode
	nodes []*fakeNode
}

func newFakeContext(sampleRate int) *fakeContext {
	c := &fakeContext{sampleRate: sampleRate, state: StateRunning}
	c.dest = &fakeNode{ctx: c, kind: "destination"}
	return c
}

type fakeNode struct {
	ctx *fakeContext

	kind    string
	freq    float64
	q       float64
	gain    float64
	samples []float64

	connections  []Node
	started      bool
	stopped      bool
	disconnected bool
}

func (n *fakeNode) Connect(dst Node) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.connections = append(n.connections, dst)
	return nil
}

func (n *fakeNode) Disconnect() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.disconnected = true
	n.connections = nil
	return n.ctx.disconnectErr
}

func (n *fakeNode) Start() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if n.ctx.startErr != nil {
		return n.ctx.startErr
	}
	n.started = true
	return nil
}

func (n *fakeNode) Stop() error {
	n.ctx.mu.Lock()
	n.stopped = true
	panicking := n.ctx.panicOnStop
	n.ctx.mu.Unlock()
	if panicking {
		panic("stop exploded")
	}
	return nil
}

func (c *fakeContext) SampleRate() int { return c.sampleRate }

func (c *fakeContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumed++
	if c.resumeErr != nil {
		return c.resumeErr
	}
	c.state = StateRunning
	return nil
}

func (c *fakeContext) Destination() Node { return c.dest }

func (c *fakeContext) add(n *fakeNode) (*fakeNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failKind == n.kind {
		return nil, errors.New("cannot create " + n.kind)
	}
	n.ctx = c
	c.nodes = append(c.nodes, n)
	return n, nil
}

func (c *fakeContext) NewOscillator(freq float64) (Source, error) {
	n, err := c.add(&fakeNode{kind: "oscillator", freq: freq})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (c *fakeContext) NewBufferSource(samples []float64) (Source, error) {
	n, err := c.add(&fakeNode{kind: "buffer", samples: samples})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (c *fakeContext) NewBandpass(freq, q float64) (Node, error) {
	n, err := c.add(&fakeNode{kind: "bandpass", freq: freq, q: q})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (c *fakeContext) NewGain(gain float64) (Node, error) {
	n, err := c.add(&fakeNode{kind: "gain", gain: gain})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (c *fakeContext) nodeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// created returns the nodes created after the first skip nodes.
func (c *fakeContext) created(skip int) []*fakeNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeNode(nil), c.nodes[skip:]...)
}

// countingProvider returns c and counts invocations.
func countingProvider(c Context, calls *int) Provider {
	return func() (Context, error) {
		*calls++
		return c, nil
	}
}
