package trice

// Ring is a fixed circular byte region with a write cursor owned by
// producers and a read cursor owned by the transport. Occupancy is
// (write - read) modulo capacity. One byte of the region is kept
// unoccupied so that a full and an empty ring remain distinguishable.
//
// The write cursor never advances into the unread region: a submit that
// would overtake it is rejected explicitly, not silently wrapped. Cursor
// mutations happen inside the masked guard; the copies into and out of the
// region touch disjoint index ranges, so producers and the transport only
// contend on the cursors themselves.
type Ring struct {
	guard Guard
	depth Depth

	buf   []byte
	write int
	read  int
}

// NewRing returns a ring over size bytes of storage. Usable capacity is
// size-1. A nil guard means no masking, for single-context use.
func NewRing(size int, guard Guard) *Ring {
	if guard == nil {
		guard = NopGuard{}
	}
	return &Ring{
		guard: guard,
		buf:   make([]byte, size),
	}
}

// occupancy with the guard already held.
func (b *Ring) occupied() int {
	n := b.write - b.read
	if n < 0 {
		n += len(b.buf)
	}
	return n
}

// Submit copies the record in at the write cursor, possibly split across
// the wrap point. A record exceeding the free space is rejected whole:
// partial records would be garbage to the host decoder.
func (b *Ring) Submit(p []byte) bool {
	b.guard.Mask()
	free := len(b.buf) - 1 - b.occupied()
	if len(p) > free {
		b.guard.Unmask()
		b.depth.drop()
		return false
	}

	head := copy(b.buf[b.write:], p)
	copy(b.buf, p[head:])
	b.write += len(p)
	if b.write >= len(b.buf) {
		b.write -= len(b.buf)
	}
	occ := b.occupied()
	b.guard.Unmask()

	b.depth.accept(len(p))
	b.depth.observe(occ)
	return true
}

// Drain copies out up to len(dst) bytes from the read cursor.
func (b *Ring) Drain(dst []byte) int {
	b.guard.Mask()
	want := b.occupied()
	if want > len(dst) {
		want = len(dst)
	}
	head := copy(dst[:want], b.buf[b.read:])
	copy(dst[head:want], b.buf)
	b.read += want
	if b.read >= len(b.buf) {
		b.read -= len(b.buf)
	}
	occ := b.occupied()
	b.guard.Unmask()

	if want > 0 {
		b.depth.consume(want)
		b.depth.observe(occ)
	}
	return want
}

// Pending is the current occupancy.
func (b *Ring) Pending() int {
	b.guard.Mask()
	n := b.occupied()
	b.guard.Unmask()
	return n
}

func (b *Ring) Metrics() *Depth { return &b.depth }

var _ Buffer = (*Ring)(nil)
