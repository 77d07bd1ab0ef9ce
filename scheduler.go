package graph

import (
	"math"

	"pipelined.dev/graph/metric"
	"pipelined.dev/graph/pattern"
	"pipelined.dev/graph/queue"
	"pipelined.dev/graph/signal"
)

// Event is a scheduled occurrence: either a plain callback, or a set of
// pattern generators with a duration source for recurring playback. An
// event handle stays valid until the event executes; Remove withdraws it
// any time before that.
type Event struct {
	id   string
	time float64

	callback func()

	patterns        []pattern.Pattern
	durationPattern pattern.Pattern
	patternCallback func(values []float64)
}

// ID returns the event handle id.
func (e *Event) ID() string {
	return e.id
}

// Time returns the absolute sample position the event is scheduled at.
func (e *Event) Time() float64 {
	return e.time
}

// Scheduler walks a time-ordered event queue interleaved with continuous
// generation, keeping a musical clock derived from tempo. It is a
// pass-through node: the signal feeding it flows on through, cut into
// sub-blocks around due events.
type Scheduler struct {
	*Node

	bpm   float64
	queue *queue.Queue[*Event]

	time         float64
	beat         int
	beatInBar    int
	bar          int
	beatsPerBar  int
	lastBeatTime float64
	beatLength   float64

	emptyBuffer *signal.Buffer
}

func newScheduler(g *Graph, bpm float64) *Scheduler {
	s := &Scheduler{
		bpm:         bpm,
		beatsPerBar: 4,
		emptyBuffer: signal.New(1, 0),
	}
	s.Node = NewNode(g, s, 1, 1)
	s.LinkNumberOfOutputChannels(0, 0)
	s.queue = queue.New(func(a, b *Event) bool { return a.time < b.time })
	s.beatLength = 60 / bpm * float64(g.device.SampleRate())
	return s
}

// SetTempo changes the tempo, recomputing the beat length in samples.
func (s *Scheduler) SetTempo(bpm float64) {
	s.bpm = bpm
	s.beatLength = 60 / bpm * float64(s.graph.device.SampleRate())
}

// Tempo returns the tempo in beats per minute.
func (s *Scheduler) Tempo() float64 {
	return s.bpm
}

// BeatLength returns the current beat length in samples.
func (s *Scheduler) BeatLength() float64 {
	return s.beatLength
}

// SetBeatsPerBar sets the bar length of the musical clock.
func (s *Scheduler) SetBeatsPerBar(beats int) {
	s.beatsPerBar = beats
}

// Time returns the clock position as an absolute sample count.
func (s *Scheduler) Time() float64 {
	return s.time
}

// Beat returns the running beat counter.
func (s *Scheduler) Beat() int {
	return s.beat
}

// BeatInBar returns the beat position within the current bar.
func (s *Scheduler) BeatInBar() int {
	return s.beatInBar
}

// Bar returns the running bar counter.
func (s *Scheduler) Bar() int {
	return s.bar
}

// AddRelative schedules a one-shot callback the given number of beats
// from now.
func (s *Scheduler) AddRelative(beats float64, callback func()) *Event {
	event := &Event{
		id:       newUID(),
		time:     s.time + beats*s.beatLength,
		callback: callback,
	}
	s.queue.Push(event)
	return event
}

// AddAbsolute schedules a one-shot callback at an absolute beat number.
// It returns nil when the requested beat has already passed; callers must
// check and decide whether to resubmit.
func (s *Scheduler) AddAbsolute(beat float64, callback func()) *Event {
	if beat < float64(s.beat) ||
		(beat == float64(s.beat) && s.time > s.lastBeatTime) {
		return nil
	}
	event := &Event{
		id:       newUID(),
		time:     s.lastBeatTime + (beat-float64(s.beat))*s.beatLength,
		callback: callback,
	}
	s.queue.Push(event)
	return event
}

// Play schedules a recurring pattern-driven event starting at the current
// device write time. Each fire pulls one value from every pattern in
// order and hands them to the callback; if any pattern is exhausted the
// event is abandoned. The duration pattern yields the gap to the next
// fire in beats; a zero or exhausted duration ends the recurrence.
func (s *Scheduler) Play(patterns []pattern.Pattern, durationPattern pattern.Pattern, callback func(values []float64)) *Event {
	event := &Event{
		id:              newUID(),
		time:            float64(s.graph.device.WriteTime()),
		patterns:        patterns,
		durationPattern: durationPattern,
		patternCallback: callback,
	}
	s.queue.Push(event)
	return event
}

// Remove withdraws an event before it executes. Linear scan plus heap
// rebuild; correctness over speed.
func (s *Scheduler) Remove(event *Event) {
	s.queue.Remove(func(e *Event) bool { return e == event })
}

// Stop is Remove under the name the control surface uses.
func (s *Scheduler) Stop(event *Event) {
	s.Remove(event)
}

// Tick interleaves due events with continuous generation. The clock is
// anchored to the device write time; every event within the block pops in
// time order, audio for the gap since the previous event is generated
// under its own timestamp and spliced into the output at the right
// offset, the clock advances and the event executes. Event times are
// clamped to be no earlier than the previous event processed in this
// call.
func (s *Scheduler) Tick(length int, timestamp int64) {
	if timestamp == s.timestamp {
		return
	}
	s.timestamp = timestamp

	startTime := float64(s.graph.device.WriteTime())
	s.updateClock(startTime)

	var outputBuffers []*signal.Buffer
	lastEventTime := startTime
	for !s.queue.IsEmpty() {
		if next, _ := s.queue.Peek(); next.time > startTime+float64(length) {
			break
		}
		event, _ := s.queue.Pop()
		eventTime := math.Floor(math.Max(event.time, lastEventTime))

		if gap := int(eventTime - lastEventTime); gap > 0 {
			offset := int(lastEventTime - startTime)
			s.tickParents(gap, timestamp+int64(offset)+1)
			inputBuffers := s.createInputBuffers(gap)
			if outputBuffers == nil {
				outputBuffers = s.sizeOutput(inputBuffers, length)
			}
			s.generateSection(inputBuffers, outputBuffers, offset)
		}

		s.updateClock(eventTime)
		lastEventTime = eventTime
		s.processEvent(event)
	}

	if remaining := int(startTime + float64(length) - lastEventTime); remaining > 0 {
		offset := int(lastEventTime - startTime)
		s.tickParents(remaining, timestamp+int64(offset)+1)
		inputBuffers := s.createInputBuffers(remaining)
		if outputBuffers == nil {
			outputBuffers = s.sizeOutput(inputBuffers, length)
		}
		s.generateSection(inputBuffers, outputBuffers, offset)
	}
	s.generated = timestamp
}

// Generate satisfies the standard round; the scheduler only reaches it
// through generateSection.
func (s *Scheduler) Generate(inputBuffers, outputBuffers []*signal.Buffer) {
	s.generateSection(inputBuffers, outputBuffers, 0)
}

// sizeOutput creates the full-length output buffer once the first
// sub-block's channel count is known.
func (s *Scheduler) sizeOutput(inputBuffers []*signal.Buffer, length int) []*signal.Buffer {
	buffer := s.outputs[0].buffer
	buffer.Resize(inputBuffers[0].NumberOfChannels(), length, true, 0)
	buffer.Empty = false
	return []*signal.Buffer{buffer}
}

// generateSection splices a sub-block into the output at the given
// offset. A silent sub-block writes real zeros here: the output block is
// shared by all sub-blocks, so the silence flag cannot stand in for it.
func (s *Scheduler) generateSection(inputBuffers, outputBuffers []*signal.Buffer, offset int) {
	input, output := inputBuffers[0], outputBuffers[0]
	if input.Empty {
		s.emptyBuffer.Resize(input.NumberOfChannels(), input.Length(), true, 0)
		s.emptyBuffer.Zero()
		input = s.emptyBuffer
	}
	output.SetSection(input, input.Length(), 0, offset)
}

// processEvent executes a popped event. Once popped it runs to
// completion; only pattern exhaustion abandons it.
func (s *Scheduler) processEvent(event *Event) {
	metric.Add(metric.EventCounter, 1)
	if event.durationPattern == nil && event.patterns == nil {
		s.graph.log.Debug("scheduler: event ", event.id)
		event.callback()
		return
	}

	values := make([]float64, 0, len(event.patterns))
	for _, p := range event.patterns {
		value, ok := p.Next()
		if !ok {
			// A pattern ran out: no callback, no rescheduling.
			s.graph.log.Debug("scheduler: pattern exhausted ", event.id)
			return
		}
		values = append(values, value)
	}
	event.patternCallback(values)

	if event.durationPattern == nil {
		return
	}
	duration, ok := event.durationPattern.Next()
	if !ok || duration == 0 {
		return
	}
	event.time += duration * s.beatLength
	s.queue.Push(event)
}

// updateClock advances the musical clock to an absolute sample position.
func (s *Scheduler) updateClock(time float64) {
	s.time = time
	for s.time >= s.lastBeatTime+s.beatLength {
		s.beat++
		s.beatInBar++
		if s.beatInBar == s.beatsPerBar {
			s.bar++
			s.beatInBar = 0
		}
		s.lastBeatTime += s.beatLength
	}
}
