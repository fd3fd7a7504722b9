package trice

import (
	"bytes"
	"testing"
)

func TestRingOccupancyInvariant(t *testing.T) {
	t.Parallel()

	// Model the ring against a plain queue through a mixed submit/drain
	// sequence: occupancy must match the model after every operation, and
	// drained bytes must come out in order even across the wrap point.
	const size = 32
	b := NewRing(size, &MutexGuard{})

	var model []byte
	next := byte(0)

	checkOccupancy := func() {
		t.Helper()
		assertEqual(t, b.Pending(), len(model))
		// The cursor arithmetic behind Pending is (write-read) mod size.
		occ := b.write - b.read
		if occ < 0 {
			occ += size
		}
		assertEqual(t, occ, len(model))
	}

	for i := 0; i < 500; i++ {
		if i%3 != 2 {
			p := make([]byte, 1+i%9)
			for j := range p {
				p[j] = next
				next++
			}
			if b.Submit(p) {
				model = append(model, p...)
			} else if len(model)+len(p) <= size-1 {
				t.Fatalf("op %d: submit of %d bytes rejected with %d occupied", i, len(p), len(model))
			}
		} else {
			tmp := make([]byte, 1+i%11)
			n := b.Drain(tmp)
			assertEqual(t, tmp[:n], model[:n])
			model = model[n:]
		}
		checkOccupancy()
	}
}

func TestRingRejectsOverflow(t *testing.T) {
	t.Parallel()

	// Usable capacity is size-1. A submit that would overtake the unread
	// region is rejected whole, leaving the buffered bytes untouched.
	b := NewRing(16, nil)

	assertEqual(t, b.Submit(bytes.Repeat([]byte{0xAA}, 10)), true)
	assertEqual(t, b.Submit(bytes.Repeat([]byte{0xBB}, 6)), false)
	assertEqual(t, b.Pending(), 10)

	_, _, _, _, drops := b.Metrics().Values()
	assertEqual(t, drops, uint64(1))

	// After draining, the freed region is usable again.
	tmp := make([]byte, 10)
	assertEqual(t, b.Drain(tmp), 10)
	assertEqual(t, tmp, bytes.Repeat([]byte{0xAA}, 10))
	assertEqual(t, b.Submit(bytes.Repeat([]byte{0xBB}, 15)), true)
	assertEqual(t, b.Submit([]byte{0xCC}), false)
}

func TestRingHighWaterMark(t *testing.T) {
	t.Parallel()

	b := NewRing(64, nil)

	b.Submit(make([]byte, 40))
	b.Drain(make([]byte, 40))
	b.Submit(make([]byte, 10))

	_, max, _, _, _ := b.Metrics().Values()
	assertEqual(t, max, 40)

	b.Metrics().Reset()
	_, max, _, _, _ = b.Metrics().Values()
	assertEqual(t, max, 10)
}
