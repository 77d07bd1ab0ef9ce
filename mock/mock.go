// Package mock provides a stub output device and test nodes used across
// the engine's tests.
package mock

import (
	"pipelined.dev/graph"
	"pipelined.dev/graph/signal"
)

const (
	defaultBufferSize  = 512
	defaultSampleRate  = 44100
	defaultNumChannels = 1
)

// Device is a stub output device. The zero value uses the defaults; the
// test advances the write time explicitly after each pull.
type Device struct {
	SR       int
	Channels int
	Block    int

	writeTime int64
}

// SampleRate returns the configured or default sample rate.
func (d *Device) SampleRate() int {
	if d.SR == 0 {
		return defaultSampleRate
	}
	return d.SR
}

// NumberOfChannels returns the configured or default channel count.
func (d *Device) NumberOfChannels() int {
	if d.Channels == 0 {
		return defaultNumChannels
	}
	return d.Channels
}

// BufferSize returns the configured or default block size.
func (d *Device) BufferSize() int {
	if d.Block == 0 {
		return defaultBufferSize
	}
	return d.Block
}

// WriteTime returns the absolute sample count written so far.
func (d *Device) WriteTime() int64 {
	return d.writeTime
}

// Advance moves the write time forward, as writing a block would.
func (d *Device) Advance(samples int) {
	d.writeTime += int64(samples)
}

// Pull pulls one block from the graph and advances the write time, the
// way a real device drives the engine.
func (d *Device) Pull(g *graph.Graph, length int) []float64 {
	out := g.Pull(length)
	d.Advance(length)
	return out
}

// Constant is a source node filling its output with a fixed value on
// every generate call.
type Constant struct {
	*graph.Node
	Value    float64
	Channels int
}

// NewConstant returns a constant source with the given channel count.
func NewConstant(g *graph.Graph, value float64, channels int) *Constant {
	c := &Constant{Value: value, Channels: channels}
	c.Node = graph.NewNode(g, c, 0, 1)
	c.SetNumberOfOutputChannels(0, channels)
	return c
}

// Generate fills the output with the constant value.
func (c *Constant) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	output := outputBuffers[0]
	output.Empty = false
	for i := 0; i < output.NumberOfChannels(); i++ {
		data := output.ChannelData(i)
		for j := range data {
			data[j] = c.Value
		}
	}
}

// Counter is a source node counting its generate calls. Each block is
// filled with the zero-based index of the call that produced it, so a
// consumer can tell which round a block came from.
type Counter struct {
	*graph.Node
	Generated int
}

// NewCounter returns a counting single-channel source.
func NewCounter(g *graph.Graph) *Counter {
	c := &Counter{}
	c.Node = graph.NewNode(g, c, 0, 1)
	return c
}

// Generate fills the output with the call index and counts the call.
func (c *Counter) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	output := outputBuffers[0]
	output.Empty = false
	data := output.ChannelData(0)
	for i := range data {
		data[i] = float64(c.Generated)
	}
	c.Generated++
}

// Recorder is a pass-through node capturing a copy of its input on every
// generate call. Silent rounds record nil.
type Recorder struct {
	*graph.Node
	Blocks [][]float64
}

// NewRecorder returns a recording pass-through.
func NewRecorder(g *graph.Graph) *Recorder {
	r := &Recorder{}
	r.Node = graph.NewNode(g, r, 1, 1)
	r.LinkNumberOfOutputChannels(0, 0)
	return r
}

// Generate records channel 0 of the input and passes the signal through.
func (r *Recorder) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	input, output := inputBuffers[0], outputBuffers[0]
	if input.Empty {
		output.Empty = true
		r.Blocks = append(r.Blocks, nil)
		return
	}
	output.Empty = false
	r.Blocks = append(r.Blocks, append([]float64(nil), input.ChannelData(0)...))
	for i := 0; i < output.NumberOfChannels(); i++ {
		copy(output.ChannelData(i), input.ChannelData(i))
	}
}
