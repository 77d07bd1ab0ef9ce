package graph

import "pipelined.dev/graph/signal"

// PassThrough copies its inputs straight to its outputs index-wise. It is
// the building block of group boundaries.
type PassThrough struct {
	*Node
}

// NewPassThrough returns a pass-through node with the given port counts.
func NewPassThrough(g *Graph, numberOfInputs, numberOfOutputs int) *PassThrough {
	p := &PassThrough{}
	p.Node = NewNode(g, p, numberOfInputs, numberOfOutputs)
	return p
}

// Generate copies each input buffer to the matching output buffer,
// keeping silence as a flag rather than copied zeros.
func (p *PassThrough) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	for i, output := range outputBuffers {
		if i >= len(inputBuffers) {
			continue
		}
		input := inputBuffers[i]
		output.Empty = input.Empty
		if input.Empty {
			continue
		}
		output.Resize(input.NumberOfChannels(), input.Length(), true, 0)
		output.Set(input)
	}
}

// Group is a subgraph exposing the same connect contract as a node. Each
// group input and output is a pass-through node, so redirecting an edge
// into a group is ordinary port resolution.
type Group struct {
	graph   *Graph
	Inputs  []*PassThrough
	Outputs []*PassThrough
}

// NewGroup returns a group with the given boundary port counts.
func NewGroup(g *Graph, numberOfInputs, numberOfOutputs int) *Group {
	gr := &Group{graph: g}
	for i := 0; i < numberOfInputs; i++ {
		gr.Inputs = append(gr.Inputs, NewPassThrough(g, 1, 1))
	}
	for i := 0; i < numberOfOutputs; i++ {
		gr.Outputs = append(gr.Outputs, NewPassThrough(g, 1, 1))
	}
	return gr
}

// SourcePort resolves an outbound edge to the group's output boundary.
func (gr *Group) SourcePort(output int) *Output {
	return gr.Outputs[output].SourcePort(0)
}

// DestinationPort resolves an inbound edge to the group's input boundary.
func (gr *Group) DestinationPort(input int) *Input {
	return gr.Inputs[input].DestinationPort(0)
}

// Connect adds an edge from a group output to the target's input.
func (gr *Group) Connect(to Patch, output, input int) {
	gr.Outputs[output].Connect(to, 0, input)
}

// Disconnect removes an edge from a group output to the target's input.
func (gr *Group) Disconnect(to Patch, output, input int) {
	gr.Outputs[output].Disconnect(to, 0, input)
}

// Remove tears down every edge crossing the group boundary.
func (gr *Group) Remove() {
	for _, in := range gr.Inputs {
		in.Remove()
	}
	for _, out := range gr.Outputs {
		out.Remove()
	}
}
