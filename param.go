package trice

import "math"

// Param is one call site parameter: a 1/2/4/8-byte scalar, or a
// length-prefixed byte run. The encoder is size-aware only. Whether a scalar
// renders as decimal, hex, or float is decided by the host against the
// format string for the record's ID, never on the target.
type Param struct {
	width uint8 // 1, 2, 4 or 8 for scalars, 0 for byte runs
	val   uint64
	run   []byte
}

// wireSize is the encoded size of the parameter: raw bytes for scalars, a
// one-byte count prefix plus the bytes for runs.
func (p Param) wireSize() int {
	if p.width > 0 {
		return int(p.width)
	}
	return 1 + len(p.run)
}

func U8(v uint8) Param   { return Param{width: 1, val: uint64(v)} }
func U16(v uint16) Param { return Param{width: 2, val: uint64(v)} }
func U32(v uint32) Param { return Param{width: 4, val: uint64(v)} }
func U64(v uint64) Param { return Param{width: 8, val: v} }

// Signed values travel as their two's complement bit patterns. The host
// sign-extends according to the width recorded in the ID table.
func I8(v int8) Param   { return Param{width: 1, val: uint64(uint8(v))} }
func I16(v int16) Param { return Param{width: 2, val: uint64(uint16(v))} }
func I32(v int32) Param { return Param{width: 4, val: uint64(uint32(v))} }
func I64(v int64) Param { return Param{width: 8, val: uint64(v)} }

func F32(v float32) Param { return Param{width: 4, val: uint64(math.Float32bits(v))} }
func F64(v float64) Param { return Param{width: 8, val: math.Float64bits(v)} }

func Bool(v bool) Param {
	if v {
		return Param{width: 1, val: 1}
	}
	return Param{width: 1, val: 0}
}

// Bytes carries an arbitrary byte run, length-prefixed on the wire so that
// embedded NUL bytes survive transport intact. Runs longer than 254 bytes
// are cut at 254: the count prefix plus the bytes must fit the single-byte
// payload length.
func Bytes(b []byte) Param {
	if len(b) > maxPaylen-1 {
		b = b[:maxPaylen-1]
	}
	return Param{run: b}
}

// String is the string-channel parameter, equivalent to Bytes.
func String(s string) Param {
	return Bytes([]byte(s))
}

// StringN is the runtime-length sibling of String: it carries at most n
// bytes of s, for callers that track the significant length themselves
// rather than relying on the full value.
func StringN(s string, n int) Param {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return Bytes([]byte(s[:n]))
}
