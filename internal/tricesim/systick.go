package tricesim

// SysTick simulates a free-running hardware tick counting cycles within a
// fixed 1 ms period. Read returns the cycles elapsed in the current period,
// which is exactly the [trice.TickReader] contract. Advance moves simulated
// time forward and reports how many period boundaries were crossed, so the
// caller can fire the periodic tick handler that many times.
//
// Wrap-before-tick races are reproduced on purpose: Advance wraps the
// counter immediately, but incrementing the millisecond clock is the
// caller's job, so a read between the two observes exactly the hardware
// condition the clock's regression correction exists for.
type SysTick struct {
	period uint32
	pos    uint32
}

func NewSysTick(cyclesPerMs uint32) *SysTick {
	return &SysTick{period: cyclesPerMs}
}

// Read returns the elapsed cycles within the current period.
func (s *SysTick) Read() uint32 { return s.pos }

// Advance moves time forward by the given cycle count and returns the
// number of complete periods crossed.
func (s *SysTick) Advance(cycles uint32) (wraps int) {
	s.pos += cycles
	for s.pos >= s.period {
		s.pos -= s.period
		wraps++
	}
	return wraps
}
