package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/graph"
	"pipelined.dev/graph/metric"
	"pipelined.dev/graph/mock"
	"pipelined.dev/graph/signal"
)

// stereo is a two-channel source writing each channel's one-based index
// as its value, so tests can tell the channels apart downstream.
type stereo struct {
	*graph.Node
}

func newStereo(g *graph.Graph) *stereo {
	s := &stereo{}
	s.Node = graph.NewNode(g, s, 0, 1)
	s.SetNumberOfOutputChannels(0, 2)
	return s
}

func (s *stereo) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	output := outputBuffers[0]
	output.Empty = false
	for i := 0; i < output.NumberOfChannels(); i++ {
		data := output.ChannelData(i)
		for j := range data {
			data[j] = float64(i + 1)
		}
	}
}

func TestPullSilence(t *testing.T) {
	dev := &mock.Device{Block: 8, Channels: 2}
	g := graph.New(dev)

	out := dev.Pull(g, 8)
	assert.Equal(t, uniform(0, 16), out)
}

func TestPullSignal(t *testing.T) {
	dev := &mock.Device{Block: 8, Channels: 2}
	g := graph.New(dev)
	src := mock.NewConstant(g, 0.5, 1)
	src.Connect(g.Output(), 0, 0)

	out := dev.Pull(g, 8)
	assert.Equal(t, uniform(0.5, 16), out)
}

func TestPullAdvancesMetrics(t *testing.T) {
	dev := &mock.Device{Block: 8}
	g := graph.New(dev)

	pulls := metric.Get(metric.PullCounter)
	samples := metric.Get(metric.SampleCounter)

	dev.Pull(g, 8)
	dev.Pull(g, 8)

	assert.Equal(t, pulls+2, metric.Get(metric.PullCounter))
	assert.Equal(t, samples+16, metric.Get(metric.SampleCounter))
}

func TestUpMixerRepeatsChannels(t *testing.T) {
	dev := &mock.Device{Block: 4, Channels: 3}
	g := graph.New(dev)
	src := newStereo(g)
	src.Connect(g.Output(), 0, 0)

	out := dev.Pull(g, 4)

	// Channels wrap: 1, 2, then 1 again, interleaved per frame.
	assert.Equal(t, []float64{
		1, 2, 1,
		1, 2, 1,
		1, 2, 1,
		1, 2, 1,
	}, out)
}

func TestMaxBlockSizeOption(t *testing.T) {
	dev := &mock.Device{Block: 64}
	g := graph.New(dev, graph.WithMaxBlockSize(16))
	assert.Equal(t, 16, g.MaxBlockSize())

	counter := mock.NewCounter(g)
	counter.Connect(g.Output(), 0, 0)

	dev.Pull(g, 64)
	assert.Equal(t, 4, counter.Generated)
}

func TestDeviceAccessor(t *testing.T) {
	dev := &mock.Device{Block: 8}
	g := graph.New(dev)
	assert.Equal(t, graph.Device(dev), g.Device())
	assert.NotEmpty(t, g.String())
}
