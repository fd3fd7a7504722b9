package trice

import "testing"

func newTestClock(t *testing.T, read TickReader, cycles uint32) *Clock {
	t.Helper()
	c, err := NewClock(ClockConfig{ReadTick: read, CyclesPerMs: cycles})
	if err != nil {
		t.Fatalf("new clock: %v", err)
	}
	return c
}

func TestClockReciprocal(t *testing.T) {
	t.Parallel()

	// 48000 cycles per millisecond yields the canonical *87381>>22, and the
	// microsecond offset stays below 1000 across the whole period.
	c := newTestClock(t, func() uint32 { return 0 }, 48000)
	assertEqual(t, c.mul, uint32(87381))

	for _, elapsed := range []uint32{0, 1, 24000, 47999} {
		offset := (elapsed * c.mul) >> c.shift
		if offset >= 1000 {
			t.Fatalf("elapsed %d: offset %d out of range", elapsed, offset)
		}
	}
}

func TestClockTickCounters(t *testing.T) {
	t.Parallel()

	c := newTestClock(t, func() uint32 { return 0 }, 48000)

	for i := 0; i < 10001; i++ {
		c.Tick()
	}

	// ms32 counts freely, ms16 wraps at 10000.
	assertEqual(t, c.Ms32(), uint32(10001))
	assertEqual(t, c.Ms16(), uint16(1))
}

func TestClockUs32Monotonic(t *testing.T) {
	t.Parallel()

	// Simulate reads at sub-period intervals, firing the tick handler at
	// every period boundary, and require Us32 to never step backwards.
	var (
		pos    uint32
		period = uint32(48000)
		c      = newTestClock(t, func() uint32 { return pos }, period)
		prev   uint32
	)

	for i := 0; i < 10000; i++ {
		pos += 7919 // advance less than one period per read
		for pos >= period {
			pos -= period
			c.Tick()
		}
		us := c.Us32()
		if us < prev {
			t.Fatalf("read %d: %d regressed below %d", i, us, prev)
		}
		prev = us
	}
}

func TestClockRegressionCorrection(t *testing.T) {
	t.Parallel()

	var pos uint32
	c := newTestClock(t, func() uint32 { return pos }, 48000)

	for i := 0; i < 5; i++ {
		c.Tick()
	}

	pos = 47000
	first := c.Us32()

	// The hardware tick wraps before the tick handler runs: the raw value
	// would regress, the read corrects one millisecond forward.
	pos = 100
	second := c.Us32()
	if second < first {
		t.Fatalf("corrected read %d below previous %d", second, first)
	}

	// Once the tick handler catches up, readings continue normally.
	c.Tick()
	pos = 200
	third := c.Us32()
	if third < second {
		t.Fatalf("read %d regressed below %d after tick", third, second)
	}
}
