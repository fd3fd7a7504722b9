package trice

import "sync/atomic"

// Depth tracks occupancy and loss for one buffer instance. It is
// diagnostics only: nothing in the trace path gates on these values, and
// host tooling reads them to report how close the firmware runs to its
// buffer limits.
type Depth struct {
	cur       atomic.Int64
	max       atomic.Int64
	submitted atomic.Uint64 // bytes accepted from producers
	drained   atomic.Uint64 // bytes handed to the transport
	drops     atomic.Uint64 // records rejected for lack of room
}

// observe records the instantaneous occupancy and lifts the high-water mark
// when exceeded. The max is monotonically non-decreasing until Reset.
func (d *Depth) observe(n int) {
	d.cur.Store(int64(n))
	for {
		max := d.max.Load()
		if int64(n) <= max || d.max.CompareAndSwap(max, int64(n)) {
			return
		}
	}
}

func (d *Depth) accept(n int)  { d.submitted.Add(uint64(n)) }
func (d *Depth) consume(n int) { d.drained.Add(uint64(n)) }
func (d *Depth) drop()         { d.drops.Add(1) }

// Values returns the current occupancy, the high-water mark, total bytes
// submitted, total bytes drained, and the count of dropped records.
func (d *Depth) Values() (cur, max int, submitted, drained, drops uint64) {
	return int(d.cur.Load()), int(d.max.Load()), d.submitted.Load(), d.drained.Load(), d.drops.Load()
}

// Reset clears the high-water mark. Totals keep counting.
func (d *Depth) Reset() {
	d.max.Store(d.cur.Load())
}
