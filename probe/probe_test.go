package probe_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/graph"
	"pipelined.dev/graph/mock"
	"pipelined.dev/graph/probe"
)

func scan(t *testing.T, value float64, blocks int) ([]probe.Report, *mock.Recorder) {
	t.Helper()
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, value, 1)
	var reports []probe.Report
	p := probe.New(g, 1, func(r probe.Report) { reports = append(reports, r) })
	rec := mock.NewRecorder(g)
	src.Connect(p, 0, 0)
	p.Connect(rec, 0, 0)

	for k := 0; k < blocks; k++ {
		rec.Tick(4, int64(k*4))
	}
	return reports, rec
}

func TestNaN(t *testing.T) {
	reports, _ := scan(t, math.NaN(), 1)

	assert.Len(t, reports, 4)
	for i, r := range reports {
		assert.Equal(t, probe.NaN, r.Kind)
		assert.Equal(t, 0, r.Channel)
		assert.Equal(t, i, r.Frame)
		assert.True(t, math.IsNaN(r.Value))
	}
}

func TestInf(t *testing.T) {
	reports, _ := scan(t, math.Inf(1), 1)

	assert.Len(t, reports, 4)
	assert.Equal(t, probe.Inf, reports[0].Kind)
}

func TestCleanSignalPassesThrough(t *testing.T) {
	reports, rec := scan(t, 0.5, 2)

	assert.Empty(t, reports)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, rec.Blocks[0])
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, rec.Blocks[1])
}

func TestDiscontinuityAcrossBlocks(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 0, 1)
	var reports []probe.Report
	p := probe.New(g, 1, func(r probe.Report) { reports = append(reports, r) })
	rec := mock.NewRecorder(g)
	src.Connect(p, 0, 0)
	p.Connect(rec, 0, 0)

	rec.Tick(4, 0)
	assert.Empty(t, reports)

	// The jump lands on the boundary between two blocks.
	src.Value = 5
	rec.Tick(4, 4)

	assert.Len(t, reports, 1)
	assert.Equal(t, probe.Discontinuity, reports[0].Kind)
	assert.Equal(t, 0, reports[0].Frame)
	assert.Equal(t, 5.0, reports[0].Value)
}

func TestJumpUnderThresholdIgnored(t *testing.T) {
	g := graph.New(&mock.Device{Block: 8})
	src := mock.NewConstant(g, 0, 1)
	var reports []probe.Report
	p := probe.New(g, 1, func(r probe.Report) { reports = append(reports, r) })
	rec := mock.NewRecorder(g)
	src.Connect(p, 0, 0)
	p.Connect(rec, 0, 0)

	rec.Tick(4, 0)
	src.Value = 0.5
	rec.Tick(4, 4)

	assert.Empty(t, reports)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "nan", probe.NaN.String())
	assert.Equal(t, "inf", probe.Inf.String())
	assert.Equal(t, "discontinuity", probe.Discontinuity.String())
}
