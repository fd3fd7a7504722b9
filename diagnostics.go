package trice

import "github.com/JannisKonradBecker/trice/internal/tricedebug"

// Degradations returns the process-wide counts of silent trace-path
// degradations: records truncated at a parameter boundary, one-millisecond
// timestamp corrections, hardware receive overruns, and inbound command
// overflows. Per-buffer occupancy and drop counts live on each buffer's
// [Depth] instead.
func Degradations() (truncations, corrections, overruns, commandOverflows uint64) {
	return tricedebug.Core.Values()
}
