package trice

import (
	"errors"

	"github.com/JannisKonradBecker/trice/internal/tricedebug"
)

// TickReader reports how many hardware clock cycles have elapsed within the
// current tick period, 0 .. CyclesPerMs-1. For a SysTick-style down counter
// this is LOAD minus VAL.
type TickReader func() uint32

// ClockConfig configures a [Clock].
type ClockConfig struct {
	// ReadTick reads the free-running hardware tick register. Required.
	ReadTick TickReader

	// CyclesPerMs is the hardware cycle count of one 1 ms tick period, for
	// example 48000 on a 48 MHz core clocking SysTick directly. Required.
	CyclesPerMs uint32

	// Guard protects clock state against the periodic tick handler. Default
	// [NopGuard]: on a single-core target the tick handler and readers
	// already serialize at interrupt boundaries for these word-sized fields.
	Guard Guard
}

// Clock maintains the monotonic counters that stamp trace records, driven
// by a 1 ms periodic tick and a free-running hardware cycle counter.
//
// The microsecond read carries a documented limitation inherited from
// targets without a wide cycle counter: it detects at most one missed tick
// period. Us32 must be called more often than once per millisecond for its
// regression correction to hold; behavior under multiple missed periods is
// unspecified.
type Clock struct {
	readTick TickReader
	guard    Guard

	// Reciprocal for cycles-to-microseconds: us = cycles * mul >> shift.
	// Precomputed so the hot path needs no division, which matters on
	// cores without an integer divider. For 48000 cycles/ms this is the
	// familiar *87381>>22.
	mul   uint32
	shift uint32

	ms32   uint32 // free-running millisecond counter
	ms16   uint16 // millisecond counter, wraps at 10000
	us16   uint16 // microsecond counter in steps of 1000, wraps at 10000
	lastUs uint32 // previous Us32 result, for regression detection
}

const counterWrap = 10000

// reciprocalShift positions the fixed-point reciprocal. With a 22-bit shift
// the offset product stays inside 32 bits for any cycle count up to one
// millisecond at clock rates into the hundreds of MHz region.
const reciprocalShift = 22

func NewClock(cfg ClockConfig) (*Clock, error) {
	if cfg.ReadTick == nil {
		return nil, errors.New("clock: ReadTick is required")
	}
	if cfg.CyclesPerMs == 0 {
		return nil, errors.New("clock: CyclesPerMs is required")
	}
	if cfg.Guard == nil {
		cfg.Guard = NopGuard{}
	}
	return &Clock{
		readTick: cfg.ReadTick,
		guard:    cfg.Guard,
		mul:      uint32((1000 << reciprocalShift) / uint64(cfg.CyclesPerMs)),
		shift:    reciprocalShift,
	}, nil
}

// Tick is the 1 ms periodic handler. Only this function advances the
// millisecond counters; producers never mutate clock state directly.
func (c *Clock) Tick() {
	c.guard.Mask()
	c.ms32++
	c.ms16++
	if c.ms16 >= counterWrap {
		c.ms16 = 0
	}
	c.us16 += 1000
	if c.us16 >= counterWrap {
		c.us16 = 0
	}
	c.guard.Unmask()
}

// Ms32 reads the free-running 32-bit millisecond counter.
func (c *Clock) Ms32() uint32 {
	c.guard.Mask()
	v := c.ms32
	c.guard.Unmask()
	return v
}

// Ms16 reads the wrapping 16-bit millisecond counter used for Stamp16.
func (c *Clock) Ms16() uint16 {
	c.guard.Mask()
	v := c.ms16
	c.guard.Unmask()
	return v
}

// Us32 reads the 32-bit microsecond counter used for Stamp32. It wraps
// after about 71.6 minutes of millisecond counts.
//
// The race handled here: the hardware tick register may have wrapped while
// the periodic tick handler has not yet run, so the computed value can
// appear to step backwards versus the previous read. Time does not go
// backwards, so a regression is corrected one millisecond forward, under
// the assumption that reads happen at sub-period intervals. More than one
// missed period between reads is not detectable this way.
func (c *Clock) Us32() uint32 {
	c.guard.Mask()
	defer c.guard.Unmask()

	offset := (c.readTick() * c.mul) >> c.shift
	us := c.ms32*1000 + offset
	if us < c.lastUs {
		us += 1000
		tricedebug.Core.Corrections.Add(1)
	}
	c.lastUs = us
	return us
}
