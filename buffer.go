package trice

// Buffer is the contract between producers and the transport, shared by all
// three buffering strategies. Producers call Submit with one encoded record;
// the transport calls Drain and Pending from its interrupt service paths.
//
// Submit reports false when the record was rejected for lack of room. A
// rejected record is dropped and counted, never retried: dropping is the
// system's only backpressure mechanism, and tracing must never block or
// destabilize the traced application.
type Buffer interface {
	// Submit copies one encoded record into the buffer. It never blocks
	// beyond its strategy's short masked critical section.
	Submit(p []byte) bool

	// Drain copies out up to len(dst) pending bytes and returns the count,
	// zero when nothing is pending. Bytes from a single execution context
	// come out in submission order.
	Drain(dst []byte) int

	// Pending is the byte count currently available to Drain.
	Pending() int

	// Metrics exposes the occupancy and drop diagnostics for this buffer.
	Metrics() *Depth
}
