package trice

import "io"

// StaticBuffer is the minimal strategy: one scratch area holding at most
// one in-flight record, pushed synchronously to a blocking sink before
// Submit returns. There is no queuing and therefore no producer/transport
// cursor hazard, but also no resilience: a second Submit preempting the
// first would corrupt the scratch area mid-write.
//
// Use only when call sites are serialized, for example single-threaded
// firmware or call sites that collectively run with interrupts disabled.
type StaticBuffer struct {
	sink    io.Writer
	scratch []byte
	depth   Depth
}

// NewStaticBuffer returns a static buffer of the given capacity writing to
// sink. The sink's Write is the blocking transmit path of the port, called
// once per submitted record.
func NewStaticBuffer(size int, sink io.Writer) *StaticBuffer {
	return &StaticBuffer{
		sink:    sink,
		scratch: make([]byte, size),
	}
}

// Submit copies the record to the scratch area and synchronously writes it
// to the sink. Records larger than the scratch area are dropped.
func (b *StaticBuffer) Submit(p []byte) bool {
	if len(p) > len(b.scratch) {
		b.depth.drop()
		return false
	}

	n := copy(b.scratch, p)
	b.depth.accept(n)
	b.depth.observe(n)

	if _, err := b.sink.Write(b.scratch[:n]); err != nil {
		// The record is gone either way. Sink errors do not exist on a
		// register-level port; hosted sinks surface them as drops.
		b.depth.drop()
		return false
	}

	b.depth.consume(n)
	b.depth.observe(0)
	return true
}

// Drain always returns zero: the static strategy has no deferred bytes.
func (b *StaticBuffer) Drain([]byte) int { return 0 }

// Pending always returns zero.
func (b *StaticBuffer) Pending() int { return 0 }

func (b *StaticBuffer) Metrics() *Depth { return &b.depth }

var _ Buffer = (*StaticBuffer)(nil)
