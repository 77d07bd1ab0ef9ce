// Package probe provides a diagnostic node scanning live buffers for
// numerically invalid samples and discontinuities. It is monitoring, not
// error recovery: findings are reported through a callback and the
// signal passes through untouched.
package probe

import (
	"math"

	"pipelined.dev/graph"
	"pipelined.dev/graph/log"
	"pipelined.dev/graph/signal"
)

// Kind classifies a finding.
type Kind int

const (
	// NaN marks a not-a-number sample.
	NaN Kind = iota
	// Inf marks an infinite sample.
	Inf
	// Discontinuity marks a sample-to-sample jump above the threshold.
	Discontinuity
)

func (k Kind) String() string {
	switch k {
	case NaN:
		return "nan"
	case Inf:
		return "inf"
	case Discontinuity:
		return "discontinuity"
	}
	return "unknown"
}

// Report describes one offending sample.
type Report struct {
	Kind    Kind
	Channel int
	Frame   int
	Value   float64
}

// Probe is a pass-through node scanning the signal that flows through
// it. With no callback set, findings go to the logger.
type Probe struct {
	*graph.Node

	// Threshold is the sample-to-sample jump magnitude reported as a
	// discontinuity.
	Threshold float64
	// OnReport receives findings. Detection never halts processing.
	OnReport func(Report)

	logger graph.Logger
	last   []float64
	seen   []bool
}

// New returns a probe with the given discontinuity threshold.
func New(g *graph.Graph, threshold float64, onReport func(Report)) *Probe {
	p := &Probe{
		Threshold: threshold,
		OnReport:  onReport,
		logger:    log.GetLogger(),
	}
	p.Node = graph.NewNode(g, p, 1, 1)
	p.LinkNumberOfOutputChannels(0, 0)
	return p
}

// Generate copies the input to the output verbatim and scans every
// channel. The last sample of each channel is kept across blocks so
// discontinuities on block boundaries are caught too.
func (p *Probe) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	input, output := inputBuffers[0], outputBuffers[0]
	if input.Empty {
		output.Empty = true
		return
	}
	output.Empty = false

	channels := input.NumberOfChannels()
	if len(p.last) < channels {
		p.last = append(p.last, make([]float64, channels-len(p.last))...)
		p.seen = append(p.seen, make([]bool, channels-len(p.seen))...)
	}
	for i := 0; i < channels; i++ {
		in := input.ChannelData(i)
		copy(output.ChannelData(i), in)
		for j, v := range in {
			switch {
			case math.IsNaN(v):
				p.report(Report{Kind: NaN, Channel: i, Frame: j, Value: v})
			case math.IsInf(v, 0):
				p.report(Report{Kind: Inf, Channel: i, Frame: j, Value: v})
			case p.seen[i] && math.Abs(v-p.last[i]) > p.Threshold:
				p.report(Report{Kind: Discontinuity, Channel: i, Frame: j, Value: v})
			}
			p.last[i] = v
			p.seen[i] = true
		}
	}
}

func (p *Probe) report(r Report) {
	if p.OnReport != nil {
		p.OnReport(r)
		return
	}
	p.logger.Info("probe: ", r.Kind.String(),
		" channel ", r.Channel, " frame ", r.Frame, " value ", r.Value)
}
