// Package metric publishes engine counters through expvar.
package metric

import (
	"expvar"
	"sync"
)

const prefix = "graph."

const (
	// PullCounter measures number of blocks pulled by the device.
	PullCounter = "Pulls"
	// SampleCounter measures number of samples generated.
	SampleCounter = "Samples"
	// EventCounter measures number of scheduler events executed.
	EventCounter = "Events"
)

var counters = struct {
	sync.Mutex
	m map[string]*expvar.Int
}{
	m: make(map[string]*expvar.Int),
}

func counter(name string) *expvar.Int {
	counters.Lock()
	defer counters.Unlock()
	if v, ok := counters.m[name]; ok {
		return v
	}
	v := expvar.NewInt(prefix + name)
	counters.m[name] = v
	return v
}

// Add increments a counter by delta.
func Add(name string, delta int64) {
	counter(name).Add(delta)
}

// Get returns the current value of a counter.
func Get(name string) int64 {
	return counter(name).Value()
}
