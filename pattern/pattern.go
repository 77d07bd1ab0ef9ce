// Package pattern provides lazy value generators consumed by the
// scheduler. A pattern yields one value per call until it is exhausted;
// exhaustion is how a recurring scheduled event signals its end.
package pattern

import "math/rand"

// Pattern is a lazy, possibly-exhausting value generator. Next returns
// the following value, or false once the pattern has run out. Reset
// rewinds the pattern to its initial state.
type Pattern interface {
	Next() (float64, bool)
	Reset()
}

// Constant yields the same value forever. Handy as a duration pattern.
type Constant float64

// Next returns the constant value.
func (c Constant) Next() (float64, bool) { return float64(c), true }

// Reset is a no-op.
func (c Constant) Reset() {}

// Sequence cycles through Values, Repeats full passes in total.
type Sequence struct {
	Values  []float64
	Repeats int
	Offset  int

	position int
}

// Next returns the following value of the sequence.
func (p *Sequence) Next() (float64, bool) {
	if len(p.Values) == 0 || p.position >= p.Repeats*len(p.Values) {
		return 0, false
	}
	v := p.Values[(p.position+p.Offset)%len(p.Values)]
	p.position++
	return v, true
}

// Reset rewinds the sequence.
func (p *Sequence) Reset() { p.position = 0 }

// Series yields Repeats values cycling through Values from Offset.
type Series struct {
	Values  []float64
	Repeats int
	Offset  int

	position int
}

// Next returns the following value of the series.
func (p *Series) Next() (float64, bool) {
	if len(p.Values) == 0 || p.position >= p.Repeats {
		return 0, false
	}
	v := p.Values[(p.position+p.Offset)%len(p.Values)]
	p.position++
	return v, true
}

// Reset rewinds the series.
func (p *Series) Reset() { p.position = 0 }

// Choose yields Repeats values picked at random from Values.
type Choose struct {
	Values  []float64
	Repeats int
	Rand    *rand.Rand

	position int
}

// Next returns a randomly chosen value.
func (p *Choose) Next() (float64, bool) {
	if len(p.Values) == 0 || p.position >= p.Repeats {
		return 0, false
	}
	p.position++
	return p.Values[rng(&p.Rand).Intn(len(p.Values))], true
}

// Reset rewinds the pick counter.
func (p *Choose) Reset() { p.position = 0 }

// Random yields Repeats values drawn uniformly from [Low, High).
type Random struct {
	Low, High float64
	Repeats   int
	Rand      *rand.Rand

	position int
}

// Next returns the following random value.
func (p *Random) Next() (float64, bool) {
	if p.position >= p.Repeats {
		return 0, false
	}
	p.position++
	return p.Low + rng(&p.Rand).Float64()*(p.High-p.Low), true
}

// Reset rewinds the draw counter.
func (p *Random) Reset() { p.position = 0 }

// Shuffle yields Values in a random order fixed at the first call,
// Repeats full passes in total. Playback always starts at position 0.
type Shuffle struct {
	Values  []float64
	Repeats int
	Rand    *rand.Rand

	shuffled []float64
	position int
}

// Next returns the following value of the shuffled list.
func (p *Shuffle) Next() (float64, bool) {
	if len(p.Values) == 0 || p.position >= p.Repeats*len(p.Values) {
		return 0, false
	}
	if p.shuffled == nil {
		p.shuffled = append([]float64(nil), p.Values...)
		r := rng(&p.Rand)
		r.Shuffle(len(p.shuffled), func(i, j int) {
			p.shuffled[i], p.shuffled[j] = p.shuffled[j], p.shuffled[i]
		})
	}
	v := p.shuffled[p.position%len(p.shuffled)]
	p.position++
	return v, true
}

// Reset rewinds playback, keeping the shuffled order.
func (p *Shuffle) Reset() { p.position = 0 }

// Arithmetic yields Repeats values starting at Start, advancing by Step.
type Arithmetic struct {
	Start, Step float64
	Repeats     int

	position int
	value    float64
}

// Next returns the following value of the progression.
func (p *Arithmetic) Next() (float64, bool) {
	if p.position >= p.Repeats {
		return 0, false
	}
	if p.position == 0 {
		p.value = p.Start
	} else {
		p.value += p.Step
	}
	p.position++
	return p.value, true
}

// Reset rewinds the progression.
func (p *Arithmetic) Reset() { p.position = 0 }

// Geometric yields Repeats values starting at Start, multiplying by Ratio.
type Geometric struct {
	Start, Ratio float64
	Repeats      int

	position int
	value    float64
}

// Next returns the following value of the progression.
func (p *Geometric) Next() (float64, bool) {
	if p.position >= p.Repeats {
		return 0, false
	}
	if p.position == 0 {
		p.value = p.Start
	} else {
		p.value *= p.Ratio
	}
	p.position++
	return p.value, true
}

// Reset rewinds the progression.
func (p *Geometric) Reset() { p.position = 0 }

// rng returns the pattern's random source, creating a deterministic
// default on first use.
func rng(r **rand.Rand) *rand.Rand {
	if *r == nil {
		*r = rand.New(rand.NewSource(1))
	}
	return *r
}
