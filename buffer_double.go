package trice

// DoubleBuffer splits its storage into two equal half-buffers: producers
// append to the active half while the transport drains the other. Swap
// exchanges the roles, and is the single operation that needs producer
// interrupts excluded for its duration. The exchange is pointer and length
// updates only, no data copy, so producer-side blocking is bounded by a few
// word stores even when tracing from interrupt context.
type DoubleBuffer struct {
	guard Guard
	depth Depth

	halves [2][]byte // fixed backing storage
	active int       // index producers append to
	fill   int       // bytes in the active half

	drain []byte // the draining half's filled region
	pos   int    // bytes of drain already consumed
}

// NewDoubleBuffer returns a double buffer with two half-buffers of halfSize
// bytes each. A nil guard means no masking, for single-context use.
func NewDoubleBuffer(halfSize int, guard Guard) *DoubleBuffer {
	if guard == nil {
		guard = NopGuard{}
	}
	return &DoubleBuffer{
		guard:  guard,
		halves: [2][]byte{make([]byte, halfSize), make([]byte, halfSize)},
	}
}

// Submit appends the record to the active half-buffer. A record that does
// not fit the remaining room is dropped and counted, not retried: the
// producer must stay non-blocking, and the drop shows up in Metrics.
func (b *DoubleBuffer) Submit(p []byte) bool {
	b.guard.Mask()
	half := b.halves[b.active]
	if b.fill+len(p) > len(half) {
		b.guard.Unmask()
		b.depth.drop()
		return false
	}
	copy(half[b.fill:], p)
	b.fill += len(p)
	b.guard.Unmask()

	b.depth.accept(len(p))
	return true
}

// Swap exchanges the active and draining halves, but only once the
// previously draining half has been fully consumed by the transport. It
// reports whether the exchange happened. Call it from the periodic tick, or
// whenever the transport goes idle.
//
// The byte count moved into the draining role is recorded as the current
// depth, which is where the high-water mark comes from.
func (b *DoubleBuffer) Swap() bool {
	b.guard.Mask()
	if b.pos < len(b.drain) {
		b.guard.Unmask()
		return false
	}
	b.drain = b.halves[b.active][:b.fill]
	b.pos = 0
	b.active ^= 1
	b.fill = 0
	b.guard.Unmask()

	b.depth.observe(len(b.drain))
	return true
}

// Drain copies out pending bytes from the draining half at the transport's
// pace.
func (b *DoubleBuffer) Drain(dst []byte) int {
	b.guard.Mask()
	n := copy(dst, b.drain[b.pos:])
	b.pos += n
	b.guard.Unmask()

	if n > 0 {
		b.depth.consume(n)
	}
	return n
}

// Pending is the unconsumed byte count of the draining half. Bytes in the
// active half are not pending until a Swap.
func (b *DoubleBuffer) Pending() int {
	b.guard.Mask()
	n := len(b.drain) - b.pos
	b.guard.Unmask()
	return n
}

func (b *DoubleBuffer) Metrics() *Depth { return &b.depth }

var _ Buffer = (*DoubleBuffer)(nil)
