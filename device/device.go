// Package device implements the platform output the graph renders into,
// backed by portaudio. The device periodically pulls a block from the
// graph and writes it to the default output stream.
package device

import (
	"github.com/go-audio/audio"
	"github.com/gordonklaus/portaudio"

	"pipelined.dev/graph"
)

// PortAudio is an output device playing a graph through the default
// portaudio stream.
type PortAudio struct {
	sampleRate  int
	numChannels int
	bufferSize  int
	writeTime   int64

	stream *portaudio.Stream
	buf    []float32
	format *audio.Format
}

// NewPortAudio returns an unopened device with the given format.
func NewPortAudio(sampleRate, numChannels, bufferSize int) *PortAudio {
	return &PortAudio{
		sampleRate:  sampleRate,
		numChannels: numChannels,
		bufferSize:  bufferSize,
		format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
	}
}

// SampleRate returns the device sample rate.
func (d *PortAudio) SampleRate() int {
	return d.sampleRate
}

// NumberOfChannels returns the device channel count.
func (d *PortAudio) NumberOfChannels() int {
	return d.numChannels
}

// BufferSize returns the samples requested per pull.
func (d *PortAudio) BufferSize() int {
	return d.bufferSize
}

// WriteTime returns the absolute sample count written so far.
func (d *PortAudio) WriteTime() int64 {
	return d.writeTime
}

// Format returns the device format of the pulled signal.
func (d *PortAudio) Format() *audio.Format {
	return d.format
}

// Start initializes portaudio and opens the default output stream.
func (d *PortAudio) Start() error {
	d.buf = make([]float32, d.bufferSize*d.numChannels)
	err := portaudio.Initialize()
	if err != nil {
		return err
	}
	d.stream, err = portaudio.OpenDefaultStream(0, d.numChannels,
		float64(d.sampleRate), d.bufferSize, &d.buf)
	if err != nil {
		return err
	}
	return d.stream.Start()
}

// Write pulls one block from the graph and writes it to the stream. The
// write time advances only after the block is handed off, so the
// scheduler clock stays anchored to what was actually written.
func (d *PortAudio) Write(g *graph.Graph) error {
	block := &audio.FloatBuffer{
		Format: d.format,
		Data:   g.Pull(d.bufferSize),
	}
	for i, s := range block.Data {
		d.buf[i] = float32(s)
	}
	if err := d.stream.Write(); err != nil {
		return err
	}
	d.writeTime += int64(d.bufferSize)
	return nil
}

// Close terminates the stream and portaudio.
func (d *PortAudio) Close() error {
	if d.stream != nil {
		if err := d.stream.Stop(); err != nil {
			return err
		}
		if err := d.stream.Close(); err != nil {
			return err
		}
	}
	return portaudio.Terminate()
}
