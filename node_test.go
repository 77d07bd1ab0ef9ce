package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/graph"
	"pipelined.dev/graph/mock"
)

func uniform(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestMixing(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	a := mock.NewConstant(g, 1, 1)
	b := mock.NewConstant(g, 2, 1)
	rec := mock.NewRecorder(g)
	a.Connect(rec, 0, 0)
	b.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	assert.Equal(t, uniform(3, 8), rec.Blocks[0])
}

func TestMixingChannelBaseline(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	wide := mock.NewConstant(g, 1, 2)
	narrow := mock.NewConstant(g, 10, 1)
	rec := mock.NewRecorder(g)
	narrow.Connect(rec, 0, 0)
	wide.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	// The widest connection sets the channel count; narrower ones sum
	// into the channels they have.
	input := rec.DestinationPort(0).Buffer()
	assert.Equal(t, 2, input.NumberOfChannels())
	assert.Equal(t, uniform(11, 8), input.ChannelData(0))
	assert.Equal(t, uniform(1, 8), input.ChannelData(1))
}

func TestMemoization(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	counter := mock.NewCounter(g)
	consumers := []*mock.Recorder{
		mock.NewRecorder(g),
		mock.NewRecorder(g),
		mock.NewRecorder(g),
	}
	for _, rec := range consumers {
		counter.Connect(rec, 0, 0)
	}

	for _, rec := range consumers {
		rec.Tick(8, 0)
	}

	// One generate for the whole round regardless of fan-out, and every
	// consumer sees the same block.
	assert.Equal(t, 1, counter.Generated)
	for _, rec := range consumers {
		assert.Equal(t, uniform(0, 8), rec.Blocks[0])
	}

	for _, rec := range consumers {
		rec.Tick(8, 8)
	}
	assert.Equal(t, 2, counter.Generated)
	for _, rec := range consumers {
		assert.Equal(t, uniform(1, 8), rec.Blocks[1])
	}
}

func TestRepeatedTimestamp(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	counter := mock.NewCounter(g)
	rec := mock.NewRecorder(g)
	counter.Connect(rec, 0, 0)

	rec.Tick(8, 0)
	rec.Tick(8, 0)

	assert.Equal(t, 1, counter.Generated)
	assert.Len(t, rec.Blocks, 1)
}

func TestSilenceSentinel(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	rec := mock.NewRecorder(g)

	rec.Tick(8, 0)

	assert.Nil(t, rec.Blocks[0])
	input := rec.DestinationPort(0).Buffer()
	assert.True(t, input.Empty)
	assert.Equal(t, 1, input.NumberOfChannels())
	assert.Equal(t, 8, input.Length())
}

func TestDisconnect(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 1, 1)
	rec := mock.NewRecorder(g)
	src.Connect(rec, 0, 0)

	rec.Tick(8, 0)
	assert.Equal(t, uniform(1, 8), rec.Blocks[0])

	src.Disconnect(rec, 0, 0)
	assert.False(t, rec.DestinationPort(0).Connected())

	rec.Tick(8, 8)
	assert.Nil(t, rec.Blocks[1])
}

func TestRemove(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 1, 1)
	mid := mock.NewRecorder(g)
	rec := mock.NewRecorder(g)
	src.Connect(mid, 0, 0)
	mid.Connect(rec, 0, 0)

	mid.Remove()

	assert.False(t, mid.DestinationPort(0).Connected())
	assert.False(t, rec.DestinationPort(0).Connected())

	rec.Tick(8, 0)
	assert.Nil(t, rec.Blocks[0])
	assert.Empty(t, mid.Blocks)
}

func TestLinkedOutputChannels(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 1, 3)
	r1 := mock.NewRecorder(g)
	r2 := mock.NewRecorder(g)
	src.Connect(r1, 0, 0)
	r1.Connect(r2, 0, 0)

	r2.Tick(8, 0)

	// The channel count follows the signal through the pass-through.
	assert.Equal(t, 3, r2.DestinationPort(0).Buffer().NumberOfChannels())

	// Dropping the source reverts the linked output to its declared
	// single channel on the next round.
	src.Disconnect(r1, 0, 0)
	r2.Tick(8, 8)
	assert.Equal(t, 1, r2.DestinationPort(0).Buffer().NumberOfChannels())
}

func TestGroupBoundary(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	group := graph.NewGroup(g, 1, 1)
	inner := mock.NewRecorder(g)
	group.Inputs[0].Connect(inner, 0, 0)
	inner.Connect(group.Outputs[0], 0, 0)

	src := mock.NewConstant(g, 2, 1)
	rec := mock.NewRecorder(g)
	src.Connect(group, 0, 0)
	group.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	assert.Equal(t, uniform(2, 8), inner.Blocks[0])
	assert.Equal(t, uniform(2, 8), rec.Blocks[0])
}
