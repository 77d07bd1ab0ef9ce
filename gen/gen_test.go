package gen_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/graph"
	"pipelined.dev/graph/gen"
	"pipelined.dev/graph/mock"
)

func TestSineFollowsTable(t *testing.T) {
	// At 1 Hz and a sample rate matching the table size the phase
	// advances one table step per frame.
	g := graph.New(&mock.Device{SR: 8192, Block: 16})
	osc := gen.NewSine(g, 1)
	rec := mock.NewRecorder(g)
	osc.Connect(rec, 0, 0)

	rec.Tick(16, 0)

	for i, v := range rec.Blocks[0] {
		assert.InDelta(t, math.Sin(2*math.Pi*float64(i)/8192), v, 1e-12)
	}
}

func TestOscPhaseWraps(t *testing.T) {
	g := graph.New(&mock.Device{SR: 8192, Block: 8})
	osc := gen.NewOsc(g, gen.Square, 4096)
	rec := mock.NewRecorder(g)
	osc.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	// Half the table per frame: the square alternates every sample.
	assert.Equal(t, []float64{1, -1, 1, -1, 1, -1, 1, -1}, rec.Blocks[0])
}

func TestOscFrequencyModulation(t *testing.T) {
	g := graph.New(&mock.Device{SR: 8192, Block: 8})
	osc := gen.NewSine(g, 1)
	mod := mock.NewConstant(g, 2, 1)
	rec := mock.NewRecorder(g)
	mod.Connect(osc, 0, 0)
	osc.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	assert.True(t, osc.Frequency.Dynamic())
	for i, v := range rec.Blocks[0] {
		assert.InDelta(t, math.Sin(2*math.Pi*float64(2*i)/8192), v, 1e-12)
	}
}

func TestGainStatic(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 2, 1)
	amp := gen.NewGain(g, 0.5)
	rec := mock.NewRecorder(g)
	src.Connect(amp, 0, 0)
	amp.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1}, rec.Blocks[0])
}

func TestGainDriven(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 2, 1)
	drive := mock.NewConstant(g, 3, 1)
	amp := gen.NewGain(g, 0)
	rec := mock.NewRecorder(g)
	src.Connect(amp, 0, 0)
	drive.Connect(amp, 0, 1)
	amp.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	assert.True(t, amp.Gain.Dynamic())
	assert.Equal(t, []float64{6, 6, 6, 6, 6, 6, 6, 6}, rec.Blocks[0])
}

func TestGainSilence(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	amp := gen.NewGain(g, 1)
	rec := mock.NewRecorder(g)
	amp.Connect(rec, 0, 0)

	rec.Tick(8, 0)

	assert.Nil(t, rec.Blocks[0])
}

func TestEnvelope(t *testing.T) {
	g := graph.New(&mock.Device{SR: 100, Block: 32})
	env := gen.NewEnvelope(g, []float64{0, 1, 0}, []float64{0.05, 0.05}, -1)
	completed := 0
	env.OnComplete = func() { completed++ }
	rec := mock.NewRecorder(g)
	env.Connect(rec, 0, 0)

	env.Gate.SetValue(1)
	rec.Tick(32, 0)

	data := rec.Blocks[0]
	assert.InDelta(t, 0.2, data[0], 1e-9)
	assert.InDelta(t, 1.0, data[4], 1e-9)
	assert.InDelta(t, 0.0, data[9], 1e-9)
	for _, v := range data[10:] {
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, 1, completed)
}

func TestEnvelopeSustainsUntilGateDrops(t *testing.T) {
	g := graph.New(&mock.Device{SR: 100, Block: 16})
	env := gen.NewEnvelope(g, []float64{0, 1, 0}, []float64{0.05, 0.05}, 0)
	completed := 0
	env.OnComplete = func() { completed++ }
	rec := mock.NewRecorder(g)
	env.Connect(rec, 0, 0)

	env.Gate.SetValue(1)
	rec.Tick(16, 0)

	// Attack finishes, then the envelope holds at the sustain level.
	data := rec.Blocks[0]
	assert.InDelta(t, 1.0, data[4], 1e-9)
	assert.InDelta(t, 1.0, data[15], 1e-9)
	assert.Equal(t, 0, completed)

	env.Gate.SetValue(0)
	rec.Tick(16, 16)

	data = rec.Blocks[1]
	assert.InDelta(t, 0.0, data[5], 1e-9)
	assert.InDelta(t, 0.0, data[15], 1e-9)
	assert.Equal(t, 1, completed)
}
