package trice

import "encoding/binary"

// Record is one decoded trace event, the host-side mirror of what a call
// site submitted. Payload bytes are raw: their interpretation is up to the
// format string registered for the ID.
type Record struct {
	ID      ID
	Stamp   Stamp
	Time    uint32 // 16-bit ms for Stamp16, 32-bit us for Stamp32, 0 for none
	Cycle   uint8
	Payload []byte
}

// Decoder reassembles records from a raw byte stream, tolerating arbitrary
// fragmentation. It is the consuming counterpart of [Encoder] and must be
// configured with the same transfer byte order and cycle setting.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	order  binary.ByteOrder
	cycle  bool
	buf    []byte
	next   uint8 // expected cycle value
	seen   bool
	missed uint64
	synced uint64 // reserved-tag resyncs
}

// DecoderConfig mirrors the encoder settings of the traced target.
type DecoderConfig struct {
	Order binary.ByteOrder
	Cycle bool
}

func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.Order == nil {
		cfg.Order = LittleEndian
	}
	return &Decoder{
		order: cfg.Order,
		cycle: cfg.Cycle,
	}
}

// Write feeds transport bytes into the decoder. It implements io.Writer and
// never fails; complete records become available via Next.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Next returns the next complete record, if any. Payload storage is owned
// by the caller.
func (d *Decoder) Next() (Record, bool) {
	for {
		if len(d.buf) < unitSize {
			return Record{}, false
		}

		unit := d.order.Uint16(d.buf)
		tag := Stamp(unit >> 14)
		if tag == tagReserved {
			// Extension escape, or we are mid-record after a resync. Skip
			// one byte and try again.
			d.buf = d.buf[1:]
			d.synced++
			continue
		}

		header := unitSize + tag.Size() + lenSize
		if d.cycle {
			header += cycSize
		}
		if len(d.buf) < header {
			return Record{}, false
		}

		var (
			rec = Record{ID: ID(unit & uint16(MaxID)), Stamp: tag}
			off = unitSize
		)
		switch tag {
		case Stamp16:
			rec.Time = uint32(d.order.Uint16(d.buf[off:]))
		case Stamp32:
			rec.Time = d.order.Uint32(d.buf[off:])
		}
		off += tag.Size()

		paylen := int(d.buf[off])
		off++
		if d.cycle {
			rec.Cycle = d.buf[off]
			off++
		}

		if len(d.buf) < off+paylen {
			return Record{}, false
		}

		rec.Payload = append([]byte(nil), d.buf[off:off+paylen]...)
		d.buf = d.buf[off+paylen:]

		if d.cycle {
			if d.seen && rec.Cycle != d.next {
				d.missed += uint64(rec.Cycle - d.next) // modulo-256 gap
			}
			d.seen = true
			d.next = rec.Cycle + 1
		}

		return rec, true
	}
}

// Missed is the number of records lost on the target, as counted from
// cycle gaps. Always zero when the cycle counter is disabled.
func (d *Decoder) Missed() uint64 { return d.missed }

// Resyncs counts bytes skipped while hunting for a record boundary.
func (d *Decoder) Resyncs() uint64 { return d.synced }
