package tricehost

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/JannisKonradBecker/trice"
)

// Entry describes one call site: its printf-style format string and the
// wire width of each parameter, in order. Width 0 marks a length-prefixed
// string parameter. The widths are needed because payload bytes carry no
// type information of their own.
type Entry struct {
	Fmt  string `json:"fmt"`
	Args []int  `json:"args,omitempty"`
}

// Table maps call site IDs to entries. The JSON form uses decimal IDs as
// keys, one object per call site:
//
//	{"100": {"fmt": "temperature %d°C", "args": [2]}}
type Table map[trice.ID]Entry

// LoadTable reads a table from a JSON file.
func LoadTable(path string) (Table, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	var t Table
	if err := json.Unmarshal(buf, &t); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	return t, nil
}

// Renderer turns decoded records into text using a table and the transfer
// byte order of the traced target.
type Renderer struct {
	table Table
	order binary.ByteOrder
}

func NewRenderer(table Table, order binary.ByteOrder) *Renderer {
	if order == nil {
		order = trice.LittleEndian
	}
	return &Renderer{table: table, order: order}
}

// Render resolves the record against the table. Unknown IDs render as a
// hex dump rather than failing: the stream keeps flowing even when the
// table is stale.
func (r *Renderer) Render(rec trice.Record) string {
	ent, ok := r.table[rec.ID]
	if !ok {
		return fmt.Sprintf("id(%d) % x\n", rec.ID, rec.Payload)
	}

	args, err := r.args(rec.Payload, ent.Args)
	if err != nil {
		return fmt.Sprintf("id(%d) bad payload: %v\n", rec.ID, err)
	}

	format, kinds := translate(ent.Fmt)
	for i, k := range kinds {
		if i >= len(args) {
			break
		}
		args[i] = coerce(args[i], k, ent.Args[i])
	}
	return fmt.Sprintf(format, args...)
}

// args walks the payload according to the declared widths, producing raw
// values: uint64 for scalars, string for runs.
func (r *Renderer) args(payload []byte, widths []int) ([]any, error) {
	var out []any
	off := 0
	for _, w := range widths {
		switch w {
		case 0:
			if off >= len(payload) {
				return nil, fmt.Errorf("missing string length at offset %d", off)
			}
			n := int(payload[off])
			off++
			if off+n > len(payload) {
				return nil, fmt.Errorf("string of %d bytes exceeds payload", n)
			}
			out = append(out, string(payload[off:off+n]))
			off += n
		case 1:
			if off+1 > len(payload) {
				return nil, fmt.Errorf("missing 1-byte value at offset %d", off)
			}
			out = append(out, uint64(payload[off]))
			off++
		case 2:
			if off+2 > len(payload) {
				return nil, fmt.Errorf("missing 2-byte value at offset %d", off)
			}
			out = append(out, uint64(r.order.Uint16(payload[off:])))
			off += 2
		case 4:
			if off+4 > len(payload) {
				return nil, fmt.Errorf("missing 4-byte value at offset %d", off)
			}
			out = append(out, uint64(r.order.Uint32(payload[off:])))
			off += 4
		case 8:
			if off+8 > len(payload) {
				return nil, fmt.Errorf("missing 8-byte value at offset %d", off)
			}
			out = append(out, r.order.Uint64(payload[off:]))
			off += 8
		default:
			return nil, fmt.Errorf("invalid width %d in table", w)
		}
	}
	return out, nil
}

// kind classifies a format verb so raw payload values can be coerced.
type kind uint8

const (
	kindUnsigned kind = iota
	kindSigned
	kindFloat
	kindString
	kindChar
)

// translate rewrites the C-flavored format string into one fmt.Sprintf
// accepts, and returns the verb kinds in order. The only rewrite needed is
// %u, which Go spells %d with an unsigned argument.
func translate(format string) (string, []kind) {
	var (
		b     strings.Builder
		kinds []kind
	)
	for i := 0; i < len(format); i++ {
		ch := format[i]
		b.WriteByte(ch)
		if ch != '%' {
			continue
		}
		// Copy flags, width and precision up to the verb letter.
		j := i + 1
		for j < len(format) && strings.IndexByte("+-# 0123456789.", format[j]) >= 0 {
			b.WriteByte(format[j])
			j++
		}
		if j >= len(format) {
			break
		}
		verb := format[j]
		switch verb {
		case '%':
			b.WriteByte('%')
		case 'd', 'i':
			b.WriteByte('d')
			kinds = append(kinds, kindSigned)
		case 'u':
			b.WriteByte('d')
			kinds = append(kinds, kindUnsigned)
		case 'x', 'X', 'o', 'b':
			b.WriteByte(verb)
			kinds = append(kinds, kindUnsigned)
		case 'f', 'e', 'g':
			b.WriteByte(verb)
			kinds = append(kinds, kindFloat)
		case 's':
			b.WriteByte('s')
			kinds = append(kinds, kindString)
		case 'c':
			b.WriteByte('c')
			kinds = append(kinds, kindChar)
		default:
			// Unknown verb: pass through and hope for the best.
			b.WriteByte(verb)
			kinds = append(kinds, kindUnsigned)
		}
		i = j
	}
	return b.String(), kinds
}

// coerce converts a raw payload value to the type its verb expects, using
// the declared width for sign extension and float size.
func coerce(raw any, k kind, width int) any {
	switch k {
	case kindString:
		return raw
	case kindChar:
		if v, ok := raw.(uint64); ok {
			return rune(v)
		}
	case kindSigned:
		if v, ok := raw.(uint64); ok {
			return signExtend(v, width)
		}
	case kindFloat:
		if v, ok := raw.(uint64); ok {
			if width == 8 {
				return math.Float64frombits(v)
			}
			return math.Float32frombits(uint32(v))
		}
	}
	return raw
}

func signExtend(v uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return int64(v)
	}
}
