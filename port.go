package graph

import "pipelined.dev/graph/signal"

// Input is a connection endpoint receiving signal. It owns the buffer the
// connected outputs are mixed into. Connections are graph edges, not
// ownership: an input only references the outputs feeding it.
type Input struct {
	node          *Node
	index         int
	connectedFrom []*Output
	buffer        *signal.Buffer
}

func newInput(n *Node, index int) *Input {
	return &Input{
		node:   n,
		index:  index,
		buffer: signal.New(1, 0),
	}
}

// Node returns the owning node.
func (in *Input) Node() *Node {
	return in.node
}

// Buffer returns the input's mixed buffer for the current round.
func (in *Input) Buffer() *signal.Buffer {
	return in.buffer
}

// Connected reports whether any output feeds this input.
func (in *Input) Connected() bool {
	return len(in.connectedFrom) > 0
}

// Output is a connection endpoint producing signal. Besides its working
// buffer it carries a delay ring and a shift buffer, allocated lazily the
// first time the output turns out to be part of a feedback loop.
type Output struct {
	node             *Node
	index            int
	connectedTo      []*Input
	buffer           *signal.Buffer
	linkedInput      *Input
	numberOfChannels int

	suppliesFeedback bool
	feedback         *signal.Buffer
	shifted          *signal.Buffer
	timestamp        int64
}

func newOutput(n *Node, index int) *Output {
	return &Output{
		node:             n,
		index:            index,
		buffer:           signal.New(1, 0),
		numberOfChannels: 1,
		timestamp:        -1,
	}
}

// Node returns the owning node.
func (o *Output) Node() *Node {
	return o.node
}

// Buffer returns the output's working buffer.
func (o *Output) Buffer() *signal.Buffer {
	return o.buffer
}

// channels resolves the output channel count for this round: the linked
// input's current count when a link is set and fed, the declared count
// otherwise.
func (o *Output) channels() int {
	if o.linkedInput != nil && o.linkedInput.Connected() {
		return o.linkedInput.buffer.NumberOfChannels()
	}
	return o.numberOfChannels
}

// getBuffer hands the output's signal to a consumer. A pull that arrives
// while the owning node is mid-round can only come from a consumer the
// node itself depends on, so the output is part of a cycle. From then on
// every consumer reads through a delay ring sized to the maximum block
// size: each generated block is pushed in and an equally sized older
// block is shifted out, giving the whole cycle a causally consistent,
// one-block-delayed view instead of partially overwritten samples.
func (o *Output) getBuffer(length int) *signal.Buffer {
	if !o.suppliesFeedback {
		if o.node.generated == o.node.timestamp {
			return o.buffer
		}
		o.suppliesFeedback = true
		size := o.node.graph.maxBlockSize
		if length > size {
			size = length
		}
		o.feedback = signal.New(o.buffer.NumberOfChannels(), size)
		o.shifted = signal.New(o.buffer.NumberOfChannels(), 0)
		o.timestamp = o.node.timestamp
		o.shiftOut(length)
		return o.shifted
	}
	if o.timestamp != o.node.timestamp {
		// First pull of a new round: the block generated last round
		// enters the ring now.
		o.timestamp = o.node.timestamp
		if o.feedback.NumberOfChannels() != o.buffer.NumberOfChannels() {
			o.feedback.Resize(o.buffer.NumberOfChannels(), o.feedback.Length(), false, 0)
		}
		o.feedback.Push(o.buffer)
		o.shiftOut(length)
	}
	return o.shifted
}

func (o *Output) shiftOut(length int) {
	o.shifted.Resize(o.feedback.NumberOfChannels(), length, true, 0)
	o.feedback.Shift(o.shifted)
}
