// Command beep plays a short scheduled pattern through the default
// portaudio output.
package main

import (
	"flag"

	"pipelined.dev/graph"
	"pipelined.dev/graph/device"
	"pipelined.dev/graph/gen"
	"pipelined.dev/graph/log"
	"pipelined.dev/graph/pattern"
)

func main() {
	var (
		bpm    = flag.Float64("bpm", 120, "tempo in beats per minute")
		blocks = flag.Int("blocks", 400, "number of device blocks to play")
	)
	flag.Parse()

	logger := log.GetLogger()

	dev := device.NewPortAudio(44100, 2, 1024)
	if err := dev.Start(); err != nil {
		logger.Fatal(err)
	}
	defer dev.Close()

	g := graph.New(dev, graph.WithLogger(logger), graph.WithTempo(*bpm))

	osc := gen.NewSine(g, 440)
	env := gen.NewEnvelope(g, []float64{0, 1, 0}, []float64{0.01, 0.4}, -1)
	amp := gen.NewGain(g, 0)
	osc.Connect(amp, 0, 0)
	env.Connect(amp, 0, 1)
	amp.Connect(g.Output(), 0, 0)

	frequencies := &pattern.Sequence{
		Values:  []float64{261.63, 329.63, 392.00, 523.25},
		Repeats: 8,
	}
	g.Scheduler.Play(
		[]pattern.Pattern{frequencies},
		pattern.Constant(1),
		func(values []float64) {
			osc.Frequency.SetValue(values[0])
			env.Gate.SetValue(1)
			g.Scheduler.AddRelative(0.5, func() { env.Gate.SetValue(0) })
		},
	)

	for i := 0; i < *blocks; i++ {
		if err := dev.Write(g); err != nil {
			logger.Fatal(err)
		}
	}
}
