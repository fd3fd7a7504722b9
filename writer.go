package trice

import "errors"

// WriterConfig configures a [Writer].
type WriterConfig struct {
	// Encoder serializes records. Required.
	Encoder *Encoder

	// Buffer receives encoded records. Required.
	Buffer Buffer

	// Clock stamps records. Required unless every call site uses Emit,
	// which carries no stamp.
	Clock *Clock
}

// Writer is the producer entry point, tying the clock, the encoder, and
// the active buffer strategy into single calls. It is the Go rendering of
// the call-site macro family: one method per stamp width, with the
// scalar-width by arity matrix folded into [Param] constructors instead of
// hand-duplicated per-arity functions.
//
// A Writer owns a fixed scratch area sized to the encoder's record bound,
// so emitting allocates nothing. The scratch area makes a Writer a
// single-context object: give each interrupt priority level that traces
// its own Writer over the shared buffer, exactly as each would own its
// scratch registers.
type Writer struct {
	enc     *Encoder
	buf     Buffer
	clock   *Clock
	scratch []byte
}

func NewWriter(cfg WriterConfig) (*Writer, error) {
	if cfg.Encoder == nil {
		return nil, errors.New("writer: Encoder is required")
	}
	if cfg.Buffer == nil {
		return nil, errors.New("writer: Buffer is required")
	}
	return &Writer{
		enc:     cfg.Encoder,
		buf:     cfg.Buffer,
		clock:   cfg.Clock,
		scratch: make([]byte, 0, cfg.Encoder.MaxRecord()),
	}, nil
}

// Emit submits a record without a timestamp.
func (w *Writer) Emit(id ID, params ...Param) bool {
	return w.emit(id, StampNone, 0, params)
}

// Emit16 submits a record stamped with the 16-bit millisecond counter.
func (w *Writer) Emit16(id ID, params ...Param) bool {
	var t uint32
	if w.clock != nil {
		t = uint32(w.clock.Ms16())
	}
	return w.emit(id, Stamp16, t, params)
}

// Emit32 submits a record stamped with the 32-bit microsecond counter.
func (w *Writer) Emit32(id ID, params ...Param) bool {
	var t uint32
	if w.clock != nil {
		t = w.clock.Us32()
	}
	return w.emit(id, Stamp32, t, params)
}

func (w *Writer) emit(id ID, stamp Stamp, t uint32, params []Param) bool {
	chunk, err := w.enc.Encode(w.scratch, id, stamp, t, params...)
	if err != nil {
		// Encoding failures are caller bugs (bad ID); fire-and-forget
		// semantics still hold, the record is simply not emitted.
		return false
	}
	return w.buf.Submit(chunk)
}
