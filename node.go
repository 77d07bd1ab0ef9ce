package graph

import "pipelined.dev/graph/signal"

// Generator is the node-specific signal transformation. It reads the
// summed input buffers and writes into the output buffers prepared for
// this processing round.
type Generator interface {
	Generate(inputBuffers, outputBuffers []*signal.Buffer)
}

// Ticker replaces the whole processing round of a node. Nodes that
// subdivide or intercept the pull, like the scheduler and the block size
// limiter, implement it; everything else uses the default round.
type Ticker interface {
	Tick(length int, timestamp int64)
}

// Patch resolves concrete ports for a connection edge. Both Node and
// Group satisfy it, so connecting to a group is an ordinary interface
// call rather than a runtime type check.
type Patch interface {
	SourcePort(output int) *Output
	DestinationPort(input int) *Input
}

// Node is a unit of processing. It owns its input and output ports and
// remembers the timestamp of the last round it ran at, which both breaks
// infinite recursion in cyclic graphs and guarantees at most one generate
// per distinct timestamp.
type Node struct {
	graph   *Graph
	gen     Generator
	ticker  Ticker
	inputs  []*Input
	outputs []*Output

	// timestamp is set when a round starts, generated when it completes.
	// An output pulled between the two knows its puller depends on a
	// downstream value, which is what detects a feedback loop.
	timestamp int64
	generated int64
}

// NewNode returns a node with the given port counts. gen may be nil, in
// which case the node only propagates silence flags input-to-output. If
// gen also implements Ticker it replaces the node's processing round.
func NewNode(g *Graph, gen Generator, numberOfInputs, numberOfOutputs int) *Node {
	n := &Node{
		graph:     g,
		gen:       gen,
		timestamp: -1,
		generated: -1,
	}
	for i := 0; i < numberOfInputs; i++ {
		n.inputs = append(n.inputs, newInput(n, i))
	}
	for i := 0; i < numberOfOutputs; i++ {
		n.outputs = append(n.outputs, newOutput(n, i))
	}
	n.ticker = n
	if t, ok := gen.(Ticker); ok {
		n.ticker = t
	}
	return n
}

// Graph returns the engine this node belongs to.
func (n *Node) Graph() *Graph {
	return n.graph
}

// SampleRate returns the device sample rate.
func (n *Node) SampleRate() int {
	return n.graph.device.SampleRate()
}

// NumberOfInputs returns the input port count.
func (n *Node) NumberOfInputs() int {
	return len(n.inputs)
}

// NumberOfOutputs returns the output port count.
func (n *Node) NumberOfOutputs() int {
	return len(n.outputs)
}

// SourcePort returns the output port used as the source of an edge.
func (n *Node) SourcePort(output int) *Output {
	return n.outputs[output]
}

// DestinationPort returns the input port used as the destination of an
// edge.
func (n *Node) DestinationPort(input int) *Input {
	return n.inputs[input]
}

// Connect adds an edge from this node's output to the target's input.
// Both sides of the edge are updated together.
func (n *Node) Connect(to Patch, output, input int) {
	connect(n.outputs[output], to.DestinationPort(input))
}

// Disconnect removes the edge from this node's output to the target's
// input, on both sides.
func (n *Node) Disconnect(to Patch, output, input int) {
	disconnect(n.outputs[output], to.DestinationPort(input))
}

// Remove tears down every inbound and outbound edge of the node.
func (n *Node) Remove() {
	for _, input := range n.inputs {
		for j := len(input.connectedFrom) - 1; j >= 0; j-- {
			disconnect(input.connectedFrom[j], input)
		}
	}
	for _, output := range n.outputs {
		for j := len(output.connectedTo) - 1; j >= 0; j-- {
			disconnect(output, output.connectedTo[j])
		}
	}
}

// LinkNumberOfOutputChannels makes an output's channel count follow one
// of the node's own inputs, recomputed each round from the live
// connection state.
func (n *Node) LinkNumberOfOutputChannels(output, input int) {
	n.outputs[output].linkedInput = n.inputs[input]
}

// SetNumberOfOutputChannels fixes an output's channel count.
func (n *Node) SetNumberOfOutputChannels(output, numberOfChannels int) {
	n.outputs[output].numberOfChannels = numberOfChannels
}

// Tick runs one processing round for the given timestamp: tick every
// upstream node, build the summed input buffers, size the output buffers
// and generate. A repeated timestamp is a no-op; this is what keeps a
// node from running twice in one round regardless of fan-out, and what
// terminates the recursion in cyclic graphs.
func (n *Node) Tick(length int, timestamp int64) {
	if timestamp == n.timestamp {
		return
	}
	n.timestamp = timestamp
	n.tickParents(length, timestamp)
	inputBuffers := n.createInputBuffers(length)
	outputBuffers := n.createOutputBuffers(length)
	n.generate(inputBuffers, outputBuffers)
	n.generated = timestamp
}

// tickParents runs the round on every node connected to the inputs.
// Iteration is backward: a parent may disconnect itself during its own
// round, and backward iteration keeps the remaining indices valid.
func (n *Node) tickParents(length int, timestamp int64) {
	for _, input := range n.inputs {
		for j := len(input.connectedFrom) - 1; j >= 0; j-- {
			if j >= len(input.connectedFrom) {
				continue
			}
			input.connectedFrom[j].node.ticker.Tick(length, timestamp)
		}
	}
}

// createInputBuffers builds one buffer per input by mixing every
// connected output. The non-empty connection with the most channels is
// copied in as the baseline, the rest are summed on top. An input with no
// non-empty connections gets a single-channel buffer flagged empty, so
// downstream nodes only ever pay for a flag check, never for reading
// silence.
func (n *Node) createInputBuffers(length int) []*signal.Buffer {
	inputBuffers := make([]*signal.Buffer, len(n.inputs))
	for i, input := range n.inputs {
		var largest *Output
		numberOfChannels := 0
		for _, output := range input.connectedFrom {
			if b := output.buffer; !b.Empty && b.NumberOfChannels() > numberOfChannels {
				numberOfChannels = b.NumberOfChannels()
				largest = output
			}
		}

		buffer := input.buffer
		if largest == nil {
			buffer.Resize(1, length, true, 0)
			buffer.Empty = true
			inputBuffers[i] = buffer
			continue
		}

		buffer.Resize(numberOfChannels, length, true, 0)
		buffer.Empty = false
		buffer.Set(largest.getBuffer(length))
		for _, output := range input.connectedFrom {
			if output == largest {
				continue
			}
			if b := output.getBuffer(length); !b.Empty {
				buffer.Add(b)
			}
		}
		inputBuffers[i] = buffer
	}
	return inputBuffers
}

// createOutputBuffers sizes each output's buffer for this round. The
// channel count is resolved per round, so linked outputs follow the live
// connection state.
func (n *Node) createOutputBuffers(length int) []*signal.Buffer {
	outputBuffers := make([]*signal.Buffer, len(n.outputs))
	for i, output := range n.outputs {
		output.buffer.Resize(output.channels(), length, true, 0)
		output.buffer.Empty = false
		outputBuffers[i] = output.buffer
	}
	return outputBuffers
}

// generate invokes the node transformation, or the default, which only
// propagates the silence flag input-to-output index-wise.
func (n *Node) generate(inputBuffers, outputBuffers []*signal.Buffer) {
	if n.gen != nil {
		n.gen.Generate(inputBuffers, outputBuffers)
		return
	}
	for i, output := range outputBuffers {
		if i < len(inputBuffers) {
			output.Empty = inputBuffers[i].Empty
		}
	}
}

// connect adds an edge, updating both ports. The connection lists must
// stay symmetric at all times.
func connect(out *Output, in *Input) {
	out.connectedTo = append(out.connectedTo, in)
	in.connectedFrom = append(in.connectedFrom, out)
}

// disconnect removes an edge, updating both ports.
func disconnect(out *Output, in *Input) {
	for i, c := range out.connectedTo {
		if c == in {
			out.connectedTo = append(out.connectedTo[:i], out.connectedTo[i+1:]...)
			break
		}
	}
	for i, c := range in.connectedFrom {
		if c == out {
			in.connectedFrom = append(in.connectedFrom[:i], in.connectedFrom[i+1:]...)
			break
		}
	}
}
