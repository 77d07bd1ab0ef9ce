package graph

// Parameter is a per-node value that is either a fixed scalar or driven
// by a signal arriving on one of the node's inputs. Whether it is static
// or dynamic is re-evaluated from the live connection state on every
// read, never cached across rounds.
type Parameter struct {
	node  *Node
	input *Input
	value float64
}

// NewParameter binds a parameter to a node. inputIndex selects the input
// that can drive the parameter; pass a negative index for a plain scalar
// parameter.
func NewParameter(n *Node, inputIndex int, value float64) *Parameter {
	p := &Parameter{node: n, value: value}
	if inputIndex >= 0 {
		p.input = n.inputs[inputIndex]
	}
	return p
}

// SetValue sets the scalar value used while the parameter is static.
func (p *Parameter) SetValue(value float64) {
	p.value = value
}

// Value returns the scalar value.
func (p *Parameter) Value() float64 {
	return p.value
}

// Static reports whether the parameter currently reads as a scalar: no
// driving input, no connections, or a silent input buffer.
func (p *Parameter) Static() bool {
	return p.input == nil || len(p.input.connectedFrom) == 0 || p.input.buffer.Empty
}

// Dynamic reports whether the parameter is currently signal-driven.
func (p *Parameter) Dynamic() bool {
	return !p.Static()
}

// Samples returns the driving signal for the current round. Only valid
// while the parameter is dynamic.
func (p *Parameter) Samples() []float64 {
	return p.input.buffer.ChannelData(0)
}

// At reads the parameter for one frame of the current round: the driving
// sample when dynamic, the scalar otherwise.
func (p *Parameter) At(i int) float64 {
	if p.Static() {
		return p.value
	}
	if samples := p.Samples(); i < len(samples) {
		return samples[i]
	}
	return p.value
}
