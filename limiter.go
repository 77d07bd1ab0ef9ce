package graph

import "pipelined.dev/graph/signal"

// BlockSizeLimiter is a pass-through that caps the number of samples any
// upstream node generates per call. Oversized requests are subdivided:
// the remainder comes first, so every following sub-block, including the
// last one, is exactly the maximum size. Downstream logic that sizes
// state relative to the maximum block size, like feedback delay rings,
// relies on that stability.
type BlockSizeLimiter struct {
	*Node
	maximumBlockSize int
}

// NewBlockSizeLimiter returns a limiter with the given cap.
func NewBlockSizeLimiter(g *Graph, maximumBlockSize int) *BlockSizeLimiter {
	l := &BlockSizeLimiter{maximumBlockSize: maximumBlockSize}
	l.Node = NewNode(g, l, 1, 1)
	l.LinkNumberOfOutputChannels(0, 0)
	return l
}

// MaximumBlockSize returns the per-call cap.
func (l *BlockSizeLimiter) MaximumBlockSize() int {
	return l.maximumBlockSize
}

// Tick delegates small requests to the standard round. Larger requests
// are generated in sub-blocks at increasing offsets of one output buffer
// sized to the full request, each sub-block under its own timestamp so
// upstream nodes generate once per sub-block.
func (l *BlockSizeLimiter) Tick(length int, timestamp int64) {
	if length < l.maximumBlockSize {
		l.Node.Tick(length, timestamp)
		return
	}
	if timestamp == l.timestamp {
		return
	}
	l.timestamp = timestamp

	var outputBuffers []*signal.Buffer
	generated := 0
	for generated < length {
		needed := l.maximumBlockSize
		if generated == 0 {
			if remainder := length % l.maximumBlockSize; remainder != 0 {
				needed = remainder
			}
		}

		l.tickParents(needed, timestamp+int64(generated))
		inputBuffers := l.createInputBuffers(needed)
		if outputBuffers == nil {
			outputBuffers = l.createOutputBuffers(length)
		}
		l.generateSection(inputBuffers, outputBuffers, generated)

		generated += needed
	}
	l.generated = timestamp
}

// Generate satisfies the standard round for requests under the cap.
func (l *BlockSizeLimiter) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	l.generateSection(inputBuffers, outputBuffers, 0)
}

func (l *BlockSizeLimiter) generateSection(inputBuffers, outputBuffers []*signal.Buffer, offset int) {
	input, output := inputBuffers[0], outputBuffers[0]
	if input.Empty {
		output.Empty = true
		return
	}
	output.Empty = false
	output.SetSection(input, input.Length(), 0, offset)
}
