package trice

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func assertEqual[T any](t *testing.T, have, want T) {
	t.Helper()
	if !cmp.Equal(have, want, cmpopts.EquateEmpty()) {
		t.Fatal(cmp.Diff(have, want, cmpopts.EquateEmpty()))
	}
}

func encodeOne(t *testing.T, e *Encoder, id ID, stamp Stamp, tv uint32, params ...Param) []byte {
	t.Helper()
	dst := make([]byte, 0, e.MaxRecord())
	chunk, err := e.Encode(dst, id, stamp, tv, params...)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return chunk
}

func decodeAll(t *testing.T, d *Decoder, stream []byte) []Record {
	t.Helper()
	d.Write(stream)
	var recs []Record
	for {
		rec, ok := d.Next()
		if !ok {
			return recs
		}
		recs = append(recs, rec)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, order := range []struct {
		name  string
		order binary.ByteOrder
	}{
		{"little", LittleEndian},
		{"big", BigEndian},
	} {
		order := order
		t.Run(order.name, func(t *testing.T) {
			t.Parallel()

			e := NewEncoder(EncoderConfig{Order: order.order})
			d := NewDecoder(DecoderConfig{Order: order.order})

			var stream []byte
			stream = append(stream, encodeOne(t, e, 7, StampNone, 0)...)
			stream = append(stream, encodeOne(t, e, 100, StampNone, 0, U8(0x55))...)
			stream = append(stream, encodeOne(t, e, 258, Stamp16, 1234, I16(-2), U32(0xDEADBEEF))...)
			stream = append(stream, encodeOne(t, e, MaxID, Stamp32, 0xFFFFFFFF, U64(1<<60), String("hi"))...)

			recs := decodeAll(t, d, stream)

			assertEqual(t, len(recs), 4)
			assertEqual(t, recs[0], Record{ID: 7, Stamp: StampNone})
			assertEqual(t, recs[1], Record{ID: 100, Stamp: StampNone, Payload: []byte{0x55}})
			assertEqual(t, recs[2].ID, ID(258))
			assertEqual(t, recs[2].Stamp, Stamp16)
			assertEqual(t, recs[2].Time, uint32(1234))
			assertEqual(t, len(recs[2].Payload), 6)
			assertEqual(t, recs[3].ID, MaxID)
			assertEqual(t, recs[3].Stamp, Stamp32)
			assertEqual(t, recs[3].Time, uint32(0xFFFFFFFF))
			assertEqual(t, recs[3].Payload[8:], []byte{2, 'h', 'i'})
		})
	}
}

func TestEncodeSingleByteNoStamp(t *testing.T) {
	t.Parallel()

	// One unstamped byte: two header units plus payload, four bytes total.
	e := NewEncoder(EncoderConfig{})
	chunk := encodeOne(t, e, 100, StampNone, 0, U8(0x55))

	assertEqual(t, chunk, []byte{0x64, 0x40, 0x01, 0x55})
}

func TestEncodeStringKeepsNUL(t *testing.T) {
	t.Parallel()

	e := NewEncoder(EncoderConfig{})
	d := NewDecoder(DecoderConfig{})

	payload := []byte{'a', 0, 'b'}
	recs := decodeAll(t, d, encodeOne(t, e, 9, StampNone, 0, Bytes(payload)))

	assertEqual(t, len(recs), 1)
	assertEqual(t, recs[0].Payload, append([]byte{3}, payload...))
}

func TestEncodeLongRunClamped(t *testing.T) {
	t.Parallel()

	// The count prefix and the run share the single-byte payload length, so
	// the longest run that can travel is 254 bytes. A longer run is clamped
	// at construction and still encodes, rather than being dropped whole.
	e := NewEncoder(EncoderConfig{MaxRecord: 512})
	d := NewDecoder(DecoderConfig{})

	long := bytes.Repeat([]byte{0xAB}, 300)
	recs := decodeAll(t, d, encodeOne(t, e, 9, StampNone, 0, Bytes(long)))

	assertEqual(t, len(recs), 1)
	assertEqual(t, len(recs[0].Payload), 255)
	assertEqual(t, recs[0].Payload[0], byte(254))
	assertEqual(t, recs[0].Payload[1:], long[:254])
}

func TestEncodeTruncatesAtParameterBoundary(t *testing.T) {
	t.Parallel()

	// Header is 3 bytes without stamp or cycle, so a 10-byte record bound
	// leaves room for 7 payload bytes: the U32 fits, the U64 cannot.
	e := NewEncoder(EncoderConfig{MaxRecord: 10})
	d := NewDecoder(DecoderConfig{})

	before, _, _, _ := Degradations()
	recs := decodeAll(t, d, encodeOne(t, e, 5, StampNone, 0, U32(1), U64(2)))
	after, _, _, _ := Degradations()

	assertEqual(t, len(recs), 1)
	assertEqual(t, len(recs[0].Payload), 4)
	assertEqual(t, after-before, uint64(1))
}

func TestEncodeIDRange(t *testing.T) {
	t.Parallel()

	e := NewEncoder(EncoderConfig{})
	dst := make([]byte, 0, e.MaxRecord())

	if _, err := e.Encode(dst, 0, StampNone, 0); err == nil {
		t.Fatal("expected error for id 0")
	}
	if _, err := e.Encode(dst, MaxID+1, StampNone, 0); err == nil {
		t.Fatal("expected error for id above MaxID")
	}
}

func TestEncodeStampValueWidths(t *testing.T) {
	t.Parallel()

	e := NewEncoder(EncoderConfig{})
	d := NewDecoder(DecoderConfig{})

	// A Stamp16 record carries only the low 16 bits of the stamp value.
	recs := decodeAll(t, d, encodeOne(t, e, 42, Stamp16, 0x12345678))

	assertEqual(t, len(recs), 1)
	assertEqual(t, recs[0].Time, uint32(0x5678))
}

func TestCycleCounterDetectsLoss(t *testing.T) {
	t.Parallel()

	e := NewEncoder(EncoderConfig{Cycle: true})
	d := NewDecoder(DecoderConfig{Cycle: true})

	first := encodeOne(t, e, 1, StampNone, 0)
	_ = encodeOne(t, e, 2, StampNone, 0) // lost in transit
	third := encodeOne(t, e, 3, StampNone, 0)

	recs := decodeAll(t, d, append(append([]byte{}, first...), third...))

	assertEqual(t, len(recs), 2)
	assertEqual(t, d.Missed(), uint64(1))
}
