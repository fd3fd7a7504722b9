package trice

import (
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/JannisKonradBecker/trice/internal/tricedebug"
)

// EncoderConfig configures an [Encoder]. The zero value is usable.
type EncoderConfig struct {
	// Order is the transfer byte order, independent of the hardware byte
	// order. Default little-endian.
	Order binary.ByteOrder

	// MaxRecord bounds the total encoded size of one record, header
	// included. Default [DefaultMaxRecord].
	MaxRecord int

	// Cycle enables the per-record cycle counter byte, which lets the host
	// detect lost records.
	Cycle bool
}

// Encoder serializes trace records into the wire format. It is safe for use
// from concurrently preempting contexts: the only mutable state is the
// atomic cycle counter.
type Encoder struct {
	order binary.ByteOrder
	max   int
	cycle bool
	cyc   atomic.Uint32 // low byte goes on the wire
}

// ErrIDRange is returned for IDs of zero or above [MaxID].
var ErrIDRange = errors.New("trace ID out of range")

// ErrShortBuffer is returned when the destination slice cannot hold even the
// record header. The encoder never grows the destination.
var ErrShortBuffer = errors.New("destination buffer too small for record")

func NewEncoder(cfg EncoderConfig) *Encoder {
	if cfg.Order == nil {
		cfg.Order = LittleEndian
	}
	if cfg.MaxRecord <= 0 {
		cfg.MaxRecord = DefaultMaxRecord
	}
	return &Encoder{
		order: cfg.Order,
		max:   cfg.MaxRecord,
		cycle: cfg.Cycle,
	}
}

// MaxRecord is the configured upper bound for one encoded record.
func (e *Encoder) MaxRecord() int { return e.max }

// Order is the configured transfer byte order.
func (e *Encoder) Order() binary.ByteOrder { return e.order }

// headerSize is the encoded size of a record header for the given stamp.
func (e *Encoder) headerSize(stamp Stamp) int {
	n := unitSize + stamp.Size() + lenSize
	if e.cycle {
		n += cycSize
	}
	return n
}

// Encode appends one record to dst and returns the extended slice. The
// stamp value t is interpreted per the stamp width: the low 16 bits for
// [Stamp16], all 32 for [Stamp32], ignored for [StampNone].
//
// Encode writes at most MaxRecord bytes and never grows dst beyond its
// capacity: callers provide scratch storage sized at construction, keeping
// the trace path allocation-free. Parameters that would not fit completely
// are dropped from the tail, the record is still emitted, and the
// truncation is counted. Encode never blocks.
func (e *Encoder) Encode(dst []byte, id ID, stamp Stamp, t uint32, params ...Param) ([]byte, error) {
	if id == 0 || id > MaxID {
		return dst, ErrIDRange
	}
	switch stamp {
	case StampNone, Stamp16, Stamp32:
	default:
		return dst, errors.New("invalid stamp width")
	}

	var (
		header = e.headerSize(stamp)
		limit  = e.max
	)
	if room := cap(dst) - len(dst); room < limit {
		limit = room
	}
	if limit < header {
		return dst, ErrShortBuffer
	}

	// Truncate at the last complete parameter that fits the record bound
	// and the single-byte length field.
	paylen := 0
	keep := 0
	for _, p := range params {
		n := paylen + p.wireSize()
		if n > limit-header || n > maxPaylen {
			tricedebug.Core.Truncations.Add(1)
			break
		}
		paylen = n
		keep++
	}

	base := len(dst)
	dst = dst[:base+header+paylen]

	e.order.PutUint16(dst[base:], uint16(stamp)<<14|uint16(id))
	off := base + unitSize

	switch stamp {
	case Stamp16:
		e.order.PutUint16(dst[off:], uint16(t))
	case Stamp32:
		e.order.PutUint32(dst[off:], t)
	}
	off += stamp.Size()

	dst[off] = uint8(paylen)
	off++
	if e.cycle {
		dst[off] = uint8(e.cyc.Add(1) - 1)
		off++
	}

	for _, p := range params[:keep] {
		off += e.putParam(dst[off:], p)
	}

	return dst, nil
}

func (e *Encoder) putParam(dst []byte, p Param) int {
	switch p.width {
	case 1:
		dst[0] = uint8(p.val)
	case 2:
		e.order.PutUint16(dst, uint16(p.val))
	case 4:
		e.order.PutUint32(dst, uint32(p.val))
	case 8:
		e.order.PutUint64(dst, p.val)
	default:
		dst[0] = uint8(len(p.run))
		copy(dst[1:], p.run)
		return 1 + len(p.run)
	}
	return int(p.width)
}
