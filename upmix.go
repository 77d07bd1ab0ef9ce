package graph

import "pipelined.dev/graph/signal"

// UpMixer raises a signal to the device channel count by repeating input
// channels cyclically. It sits between the limiter and the sink so the
// device always receives its expected channel layout.
type UpMixer struct {
	*Node
}

// NewUpMixer returns an up-mixer targeting the device channel count.
func NewUpMixer(g *Graph) *UpMixer {
	u := &UpMixer{}
	u.Node = NewNode(g, u, 1, 1)
	u.SetNumberOfOutputChannels(0, g.device.NumberOfChannels())
	return u
}

// Generate fills every output channel from input channel i modulo the
// input channel count.
func (u *UpMixer) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	input, output := inputBuffers[0], outputBuffers[0]
	if input.Empty {
		output.Empty = true
		return
	}
	output.Empty = false
	inputChannels := input.NumberOfChannels()
	for i := 0; i < output.NumberOfChannels(); i++ {
		copy(output.ChannelData(i), input.ChannelData(i%inputChannels))
	}
}
