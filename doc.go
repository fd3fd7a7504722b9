// Package trice implements the on-target core of an id-based trace system
// for embedded firmware. Call sites emit a small numeric identifier plus the
// raw bytes of their parameters, instead of a formatted string. All text
// rendering is deferred to a host tool, which resolves identifiers against a
// table produced at build time.
//
// The basic flow: a producer, running in mainline code or in an interrupt
// handler, encodes one trace record and submits it to a buffer. A transport,
// paced by transmit-ready interrupts, drains buffered bytes to a serial link
// one byte at a time, and separately assembles inbound bytes into command
// strings for an external dispatcher.
//
// Three interchangeable buffer strategies are provided. [StaticBuffer] holds
// a single record and pushes it to a blocking sink before Submit returns,
// which is only safe when call sites are serialized. [DoubleBuffer] fills
// one half while the transport drains the other, swapping roles in a short
// masked critical section. [Ring] is a circular byte region with write and
// read cursors, rejecting any submit that would overtake unread data.
//
// Nothing in this package allocates on the trace path, and no failure is
// fatal: a record that cannot be encoded or enqueued is truncated or
// dropped, and counted. Tracing degrades observability, never the traced
// application.
//
// The package depends on hardware only through small injected capabilities:
// a free-running tick reader for [Clock], and the [UART] byte-level
// operations for [Transport]. Host-side decoding and rendering live in
// [github.com/JannisKonradBecker/trice/tricehost].
package trice
