// Package graph implements a pull-based audio processing graph with
// sample-accurate musical event scheduling. An external output device
// periodically asks the terminal node for the next block of samples; the
// pull propagates backward through the connections, sources generate
// forward into buffers, the scheduler interleaves due events with
// generation and the block size limiter caps how much any node is asked
// to produce in one call.
package graph

import (
	"github.com/rs/xid"

	"pipelined.dev/graph/metric"
)

// Device is the platform output the graph renders into. It is a black
// box: the graph only needs its format and a monotonically increasing
// absolute sample counter anchoring the scheduler clock.
type Device interface {
	SampleRate() int
	NumberOfChannels() int
	// BufferSize is the number of samples the device requests per pull.
	BufferSize() int
	// WriteTime is the absolute sample count written so far.
	WriteTime() int64
}

// Logger is a global interface for graph loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// Graph is the engine assembly: a destination chain of scheduler, block
// size limiter and channel up-mixer ending in the device-facing sink
// node. User nodes connect to Output.
type Graph struct {
	uid    string
	device Device
	log    Logger

	// Scheduler merges timed events into the continuous pull.
	Scheduler *Scheduler

	destination  *Group
	limiter      *BlockSizeLimiter
	upMixer      *UpMixer
	sink         *Node
	maxBlockSize int
	tempo        float64
}

// Option provides a way to set functional parameters to the graph.
type Option func(g *Graph)

// WithLogger sets the graph logger. If this option is not provided, a
// silent logger is used.
func WithLogger(logger Logger) Option {
	return func(g *Graph) {
		g.log = logger
	}
}

// WithTempo sets the initial scheduler tempo in beats per minute.
func WithTempo(bpm float64) Option {
	return func(g *Graph) {
		g.tempo = bpm
	}
}

// WithMaxBlockSize caps the number of samples any node is asked to
// generate in one call. It defaults to the device buffer size.
func WithMaxBlockSize(size int) Option {
	return func(g *Graph) {
		g.maxBlockSize = size
	}
}

// New creates a graph rendering into the given device and applies the
// provided options.
func New(device Device, options ...Option) *Graph {
	g := &Graph{
		uid:          newUID(),
		device:       device,
		log:          defaultLogger,
		maxBlockSize: device.BufferSize(),
		tempo:        120,
	}
	for _, option := range options {
		option(g)
	}

	g.Scheduler = newScheduler(g, g.tempo)
	g.limiter = NewBlockSizeLimiter(g, g.maxBlockSize)
	g.upMixer = NewUpMixer(g)
	g.sink = NewNode(g, nil, 1, 0)
	g.destination = NewGroup(g, 1, 0)

	g.destination.Inputs[0].Connect(g.Scheduler, 0, 0)
	g.Scheduler.Connect(g.limiter, 0, 0)
	g.limiter.Connect(g.upMixer, 0, 0)
	g.upMixer.Connect(g.sink, 0, 0)
	return g
}

// Device returns the output device the graph renders into.
func (g *Graph) Device() Device {
	return g.device
}

// Output is the patch user nodes connect their signal to.
func (g *Graph) Output() Patch {
	return g.destination
}

// MaxBlockSize returns the per-call generation cap.
func (g *Graph) MaxBlockSize() int {
	return g.maxBlockSize
}

// Pull runs one processing round for the next block and returns it as a
// flat channel-interleaved slice in the device format. The round runs at
// the device's current write time; the device advances that counter once
// the block is written out.
func (g *Graph) Pull(length int) []float64 {
	timestamp := g.device.WriteTime()
	g.sink.ticker.Tick(length, timestamp)
	metric.Add(metric.PullCounter, 1)
	metric.Add(metric.SampleCounter, int64(length))

	buffer := g.sink.inputs[0].buffer
	if buffer.Empty {
		return make([]float64, length*g.device.NumberOfChannels())
	}
	return buffer.Interleaved()
}

// String returns the graph id.
func (g *Graph) String() string {
	return g.uid
}
