// Package signal provides multichannel blocks of float64 samples with
// resize, section copy and ring-style shift semantics. Buffers are owned
// by the port that created them and reused across processing rounds.
package signal

// Buffer is a multichannel block of samples. A buffer windows its backing
// storage so that shrinking from the front never reallocates: the window
// start is tracked by an offset into each channel's backing array.
type Buffer struct {
	// Empty marks the buffer as silence. Consumers should check the flag
	// instead of reading zero samples.
	Empty bool

	numberOfChannels int
	length           int
	data             [][]float64
	offset           int
}

// New returns a buffer with the given channel count and length.
func New(numberOfChannels, length int) *Buffer {
	data := make([][]float64, numberOfChannels)
	for i := range data {
		data[i] = make([]float64, length)
	}
	return &Buffer{
		numberOfChannels: numberOfChannels,
		length:           length,
		data:             data,
	}
}

// NumberOfChannels returns the channel count.
func (b *Buffer) NumberOfChannels() int {
	return b.numberOfChannels
}

// Length returns the sample count per channel.
func (b *Buffer) Length() int {
	return b.length
}

// ChannelData returns the live window of samples for one channel.
func (b *Buffer) ChannelData(channel int) []float64 {
	return b.data[channel][b.offset : b.offset+b.length]
}

// Resize changes the channel count and length. Growing allocates fresh
// backing arrays and, unless lazy is set, copies the old window into the
// new array starting at offset. Shrinking reuses the backing storage:
// offset samples are dropped from the front of the window. Callers that
// pass lazy must overwrite the whole buffer before reading it.
func (b *Buffer) Resize(numberOfChannels, length int, lazy bool, offset int) {
	// Growing with an offset relocates existing samples, so the window
	// trick only serves shrinks and in-place growth at the tail.
	realloc := numberOfChannels > len(b.data) || (offset > 0 && length > b.length)
	if !realloc {
		for i := 0; i < numberOfChannels; i++ {
			if length+offset > len(b.data[i])-b.offset {
				realloc = true
				break
			}
		}
	}
	if realloc {
		for i := 0; i < numberOfChannels; i++ {
			fresh := make([]float64, length)
			if i < b.numberOfChannels && !lazy {
				n := b.length
				if n > length-offset {
					n = length - offset
				}
				if n > 0 {
					copy(fresh[offset:], b.data[i][b.offset:b.offset+n])
				}
			}
			if i < len(b.data) {
				b.data[i] = fresh
			} else {
				b.data = append(b.data, fresh)
			}
		}
		b.offset = 0
	} else {
		b.offset += offset
	}
	b.data = b.data[:numberOfChannels]
	b.numberOfChannels = numberOfChannels
	b.length = length
}

// Set copies another buffer's channel contents verbatim. The caller must
// match channel counts and lengths.
func (b *Buffer) Set(other *Buffer) {
	n := b.numberOfChannels
	if other.numberOfChannels < n {
		n = other.numberOfChannels
	}
	for i := 0; i < n; i++ {
		copy(b.ChannelData(i), other.ChannelData(i))
	}
}

// SetSection copies length samples per channel from other, reading at
// inputOffset and writing at outputOffset.
func (b *Buffer) SetSection(other *Buffer, length, inputOffset, outputOffset int) {
	n := b.numberOfChannels
	if other.numberOfChannels < n {
		n = other.numberOfChannels
	}
	for i := 0; i < n; i++ {
		src := other.ChannelData(i)[inputOffset : inputOffset+length]
		copy(b.ChannelData(i)[outputOffset:outputOffset+length], src)
	}
}

// Add sums another buffer into this one sample by sample over the current
// length.
func (b *Buffer) Add(other *Buffer) {
	n := b.numberOfChannels
	if other.numberOfChannels < n {
		n = other.numberOfChannels
	}
	for i := 0; i < n; i++ {
		dst := b.ChannelData(i)
		src := other.ChannelData(i)
		for j := range dst {
			dst[j] += src[j]
		}
	}
}

// AddSection accumulates length samples per channel from other, reading at
// inputOffset and writing at outputOffset.
func (b *Buffer) AddSection(other *Buffer, length, inputOffset, outputOffset int) {
	n := b.numberOfChannels
	if other.numberOfChannels < n {
		n = other.numberOfChannels
	}
	for i := 0; i < n; i++ {
		dst := b.ChannelData(i)[outputOffset : outputOffset+length]
		src := other.ChannelData(i)[inputOffset : inputOffset+length]
		for j := range dst {
			dst[j] += src[j]
		}
	}
}

// Push appends the contents of other to the end of the buffer, growing it
// by other's length.
func (b *Buffer) Push(other *Buffer) {
	n := other.length
	b.Resize(b.numberOfChannels, b.length+n, false, 0)
	b.SetSection(other, n, 0, b.length-n)
}

// Pop removes other's length of samples from the end of the buffer into
// other.
func (b *Buffer) Pop(other *Buffer) {
	n := other.length
	other.SetSection(b, n, b.length-n, 0)
	b.Resize(b.numberOfChannels, b.length-n, false, 0)
}

// Unshift prepends the contents of other to the front of the buffer. If
// earlier shifts left room before the window it is reclaimed, otherwise
// the buffer reallocates with the old samples placed after the new ones.
func (b *Buffer) Unshift(other *Buffer) {
	n := other.length
	if b.offset >= n {
		b.offset -= n
		b.length += n
	} else {
		b.Resize(b.numberOfChannels, b.length+n, false, n)
	}
	b.SetSection(other, n, 0, 0)
}

// Shift removes other's length of samples from the front of the buffer
// into other. The window advances instead of reallocating.
func (b *Buffer) Shift(other *Buffer) {
	n := other.length
	other.SetSection(b, n, 0, 0)
	b.Resize(b.numberOfChannels, b.length-n, false, n)
}

// Zero fills every channel with silence.
func (b *Buffer) Zero() {
	for i := 0; i < b.numberOfChannels; i++ {
		data := b.ChannelData(i)
		for j := range data {
			data[j] = 0
		}
	}
}

// Interleaved returns the samples as a single channel-interleaved slice
// in the layout expected by output devices.
func (b *Buffer) Interleaved() []float64 {
	out := make([]float64, b.numberOfChannels*b.length)
	for i := 0; i < b.numberOfChannels; i++ {
		data := b.ChannelData(i)
		for j, s := range data {
			out[j*b.numberOfChannels+i] = s
		}
	}
	return out
}

// Combined returns the samples as a single slice with channels laid out
// back to back.
func (b *Buffer) Combined() []float64 {
	out := make([]float64, 0, b.numberOfChannels*b.length)
	for i := 0; i < b.numberOfChannels; i++ {
		out = append(out, b.ChannelData(i)...)
	}
	return out
}
