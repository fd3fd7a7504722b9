package tricedebug

import "sync/atomic"

// DegradeCounters track the ways the trace path degrades instead of
// failing. None of them influence behavior; they exist so host tooling can
// report how lossy a session was.
type DegradeCounters struct {
	Truncations      atomic.Uint64 // records cut at a parameter boundary
	Corrections      atomic.Uint64 // one-millisecond timestamp corrections
	Overruns         atomic.Uint64 // hardware receive overruns observed
	CommandOverflows atomic.Uint64 // inbound command bytes past capacity
}

// Values returns the current values of the counters.
func (dc *DegradeCounters) Values() (truncations, corrections, overruns, commandOverflows uint64) {
	var (
		t = dc.Truncations.Load()
		c = dc.Corrections.Load()
		o = dc.Overruns.Load()
		v = dc.CommandOverflows.Load()
	)
	return t, c, o, v
}

var (
	// Core tracks the process-wide trace core.
	Core DegradeCounters
)
