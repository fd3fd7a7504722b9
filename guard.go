package trice

import "sync"

// Guard bounds the short critical sections that protect buffer cursors and
// clock state from concurrently preempting contexts. On a single-core
// target this is interrupt masking of the contending sources, not a lock:
// the firmware port supplies an implementation over its interrupt
// controller. Hosted builds and tests use [MutexGuard].
//
// Every section guarded here is a handful of pointer and integer updates.
// No data copies or waits happen under a masked guard.
type Guard interface {
	Mask()
	Unmask()
}

// NopGuard is for single-context firmware where producers and the transport
// can never preempt each other, and masking would be wasted cycles.
type NopGuard struct{}

func (NopGuard) Mask()   {}
func (NopGuard) Unmask() {}

// MutexGuard adapts a mutex to the Guard contract for hosted use.
type MutexGuard struct{ mtx sync.Mutex }

func (g *MutexGuard) Mask()   { g.mtx.Lock() }
func (g *MutexGuard) Unmask() { g.mtx.Unlock() }
