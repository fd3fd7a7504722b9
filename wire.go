package trice

import "encoding/binary"

// ID identifies a trace call site. IDs are unique per firmware build, and
// are resolved to format strings only by the host tool. Valid IDs occupy 14
// bits, leaving the top two bits of the leading wire unit for the stamp tag.
type ID uint16

// MaxID is the largest valid call site ID.
const MaxID ID = 1<<14 - 1

// Stamp selects the timestamp width carried by a record. The choice is made
// per call site: None omits the timestamp entirely, Stamp16 carries the
// 16-bit millisecond counter (wrapping at 10000), and Stamp32 carries the
// full 32-bit microsecond counter.
type Stamp uint8

const (
	// tagReserved (0) is never produced by the encoder. The decoder treats
	// it as a resync point, and it remains available as an extension escape,
	// for example to mark a transfer byte order differing from the one the
	// host expects.
	tagReserved = 0

	StampNone Stamp = 1
	Stamp16   Stamp = 2
	Stamp32   Stamp = 3
)

// Size returns the number of stamp bytes on the wire.
func (s Stamp) Size() int {
	switch s {
	case Stamp16:
		return 2
	case Stamp32:
		return 4
	default:
		return 0
	}
}

func (s Stamp) String() string {
	switch s {
	case StampNone:
		return "none"
	case Stamp16:
		return "ms16"
	case Stamp32:
		return "us32"
	default:
		return "invalid"
	}
}

// Wire layout of one record, all multi-byte fields in the configured
// transfer byte order:
//
//	[unit0:u16 = tag<<14 | id] [stamp: 0|2|4 bytes] [len:u8] [cyc:u8?] [payload]
//
// The cycle byte is present only when the encoder is configured with a
// cycle counter; it lets the host detect lost records by counting gaps.
const (
	unitSize  = 2   // leading id+tag unit
	lenSize   = 1   // payload byte count
	cycSize   = 1   // optional cycle counter
	maxPaylen = 255 // len is a single byte
)

// DefaultMaxRecord bounds the encoded size of a single record, header
// included. Payloads that would exceed it are truncated at the last complete
// parameter boundary.
const DefaultMaxRecord = 256

// LittleEndian and BigEndian are the selectable transfer byte orders. The
// transfer order is a build-time choice independent of the hardware order;
// when both coincide the host needs no extra unpacking logic.
var (
	LittleEndian binary.ByteOrder = binary.LittleEndian
	BigEndian    binary.ByteOrder = binary.BigEndian
)
