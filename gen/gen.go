// Package gen provides signal-generating nodes: a table-lookup
// oscillator, a gain stage and a gated segment envelope.
package gen

import (
	"math"

	"pipelined.dev/graph"
	"pipelined.dev/graph/signal"
)

const tableSize = 8192

// Waveform tables shared by all oscillators.
var (
	Sine     = make([]float64, tableSize)
	Saw      = make([]float64, tableSize)
	Square   = make([]float64, tableSize)
	Triangle = make([]float64, tableSize)
)

func init() {
	for i := 0; i < tableSize; i++ {
		phase := float64(i) / tableSize
		Sine[i] = math.Sin(2 * math.Pi * phase)
		Saw[i] = 2*phase - 1
		if phase < 0.5 {
			Square[i] = 1
			Triangle[i] = 4*phase - 1
		} else {
			Square[i] = -1
			Triangle[i] = 3 - 4*phase
		}
	}
}

// Osc is a table-lookup oscillator. The waveform is an injected table,
// so every variant is the same node with a different table.
type Osc struct {
	*graph.Node
	// Frequency in Hz, static or driven by the node's input signal.
	Frequency *graph.Parameter

	table []float64
	phase float64
}

// NewOsc returns an oscillator reading the given table at the given
// frequency.
func NewOsc(g *graph.Graph, table []float64, frequency float64) *Osc {
	o := &Osc{table: table}
	o.Node = graph.NewNode(g, o, 1, 1)
	o.Frequency = graph.NewParameter(o.Node, 0, frequency)
	return o
}

// NewSine returns a sine oscillator.
func NewSine(g *graph.Graph, frequency float64) *Osc {
	return NewOsc(g, Sine, frequency)
}

// Generate advances the table phase per frame and writes one channel.
func (o *Osc) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	output := outputBuffers[0]
	output.Empty = false
	data := output.ChannelData(0)
	size := float64(len(o.table))
	sampleRate := float64(o.SampleRate())
	for i := range data {
		data[i] = o.table[int(o.phase)]
		o.phase += o.Frequency.At(i) * size / sampleRate
		for o.phase >= size {
			o.phase -= size
		}
		for o.phase < 0 {
			o.phase += size
		}
	}
}

// Gain multiplies its input by a gain parameter, static or driven by a
// second input signal such as an envelope.
type Gain struct {
	*graph.Node
	Gain *graph.Parameter
}

// NewGain returns a gain stage with the given initial value.
func NewGain(g *graph.Graph, gain float64) *Gain {
	n := &Gain{}
	n.Node = graph.NewNode(g, n, 2, 1)
	n.Gain = graph.NewParameter(n.Node, 1, gain)
	n.LinkNumberOfOutputChannels(0, 0)
	return n
}

// Generate scales every channel frame-wise by the gain parameter.
func (n *Gain) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	input, output := inputBuffers[0], outputBuffers[0]
	if input.Empty {
		output.Empty = true
		return
	}
	output.Empty = false
	for c := 0; c < output.NumberOfChannels(); c++ {
		in := input.ChannelData(c)
		out := output.ChannelData(c)
		for i := range out {
			out[i] = in[i] * n.Gain.At(i)
		}
	}
}

// Envelope is a gated piecewise-linear envelope. Levels has one more
// entry than Times; each segment interpolates between adjacent levels
// over its time in seconds. While the gate is high the envelope holds at
// the sustain stage; when the gate drops it continues through the
// remaining stages and finally calls OnComplete once.
type Envelope struct {
	*graph.Node
	// Gate triggers the envelope while above zero.
	Gate *graph.Parameter
	// OnComplete runs once when the final stage finishes.
	OnComplete func()

	levels  []float64
	times   []float64
	sustain int

	stage     int
	level     float64
	delta     float64
	remaining int
	gateOn    bool
}

// NewEnvelope returns an envelope with the given levels, segment times
// in seconds, and sustain stage index (negative for none).
func NewEnvelope(g *graph.Graph, levels, times []float64, sustain int) *Envelope {
	e := &Envelope{
		levels:  levels,
		times:   times,
		sustain: sustain,
		stage:   -1,
		level:   levels[0],
	}
	e.Node = graph.NewNode(g, e, 1, 1)
	e.Gate = graph.NewParameter(e.Node, 0, 0)
	return e
}

// Generate writes the envelope value per frame on one channel.
func (e *Envelope) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	output := outputBuffers[0]
	output.Empty = false
	data := output.ChannelData(0)
	sampleRate := float64(e.SampleRate())
	for i := range data {
		gate := e.Gate.At(i) > 0
		if gate && !e.gateOn {
			e.enterStage(0, sampleRate)
		}
		e.gateOn = gate

		if e.stage >= 0 {
			if e.remaining > 0 {
				e.level += e.delta
				e.remaining--
			}
			holding := e.stage == e.sustain && e.gateOn
			if e.remaining == 0 && !holding {
				if e.stage+1 < len(e.times) {
					e.enterStage(e.stage+1, sampleRate)
				} else {
					e.stage = -1
					e.level = e.levels[len(e.levels)-1]
					if e.OnComplete != nil {
						e.OnComplete()
					}
				}
			}
		}
		data[i] = e.level
	}
}

// enterStage starts the segment toward levels[stage+1].
func (e *Envelope) enterStage(stage int, sampleRate float64) {
	e.stage = stage
	e.remaining = int(e.times[stage] * sampleRate)
	if e.remaining < 1 {
		e.remaining = 1
	}
	e.delta = (e.levels[stage+1] - e.level) / float64(e.remaining)
}
