package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/graph/metric"
)

func TestAdd(t *testing.T) {
	before := metric.Get("test.counter")
	metric.Add("test.counter", 3)
	metric.Add("test.counter", 2)
	assert.Equal(t, before+5, metric.Get("test.counter"))
}

func TestCountersAreIndependent(t *testing.T) {
	a := metric.Get("test.a")
	b := metric.Get("test.b")
	metric.Add("test.a", 1)
	assert.Equal(t, a+1, metric.Get("test.a"))
	assert.Equal(t, b, metric.Get("test.b"))
}
