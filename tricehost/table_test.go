package tricehost_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/JannisKonradBecker/trice"
	"github.com/JannisKonradBecker/trice/tricehost"
)

func assertEqual[T any](t *testing.T, have, want T) {
	t.Helper()
	if !cmp.Equal(have, want, cmpopts.EquateEmpty()) {
		t.Fatal(cmp.Diff(have, want, cmpopts.EquateEmpty()))
	}
}

func le(widths []int, vals ...uint64) []byte {
	var p []byte
	for i, w := range widths {
		switch w {
		case 1:
			p = append(p, byte(vals[i]))
		case 2:
			p = binary.LittleEndian.AppendUint16(p, uint16(vals[i]))
		case 4:
			p = binary.LittleEndian.AppendUint32(p, uint32(vals[i]))
		case 8:
			p = binary.LittleEndian.AppendUint64(p, vals[i])
		}
	}
	return p
}

func TestRendererVerbs(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{
		1: {Fmt: "count %u\n", Args: []int{4}},
		2: {Fmt: "delta %d mV\n", Args: []int{2}},
		3: {Fmt: "ratio %.2f\n", Args: []int{4}},
		4: {Fmt: "pi is %f\n", Args: []int{8}},
		5: {Fmt: "hello %s, key %c\n", Args: []int{0, 1}},
		6: {Fmt: "mask %08x\n", Args: []int{4}},
		7: {Fmt: "100%% done\n"},
	}
	r := tricehost.NewRenderer(table, trice.LittleEndian)

	for _, tc := range []struct {
		name string
		rec  trice.Record
		want string
	}{
		{
			name: "unsigned above int32 range",
			rec:  trice.Record{ID: 1, Payload: le([]int{4}, 4000000000)},
			want: "count 4000000000\n",
		},
		{
			name: "signed needs extension",
			rec:  trice.Record{ID: 2, Payload: le([]int{2}, 0xFFFE)},
			want: "delta -2 mV\n",
		},
		{
			name: "float32 bits",
			rec:  trice.Record{ID: 3, Payload: le([]int{4}, uint64(math.Float32bits(1.5)))},
			want: "ratio 1.50\n",
		},
		{
			name: "float64 bits",
			rec:  trice.Record{ID: 4, Payload: le([]int{8}, math.Float64bits(3.125))},
			want: "pi is 3.125000\n",
		},
		{
			name: "string run and char",
			rec:  trice.Record{ID: 5, Payload: append([]byte{5, 'w', 'o', 'r', 'l', 'd'}, 'A')},
			want: "hello world, key A\n",
		},
		{
			name: "hex with width",
			rec:  trice.Record{ID: 6, Payload: le([]int{4}, 0xBEEF)},
			want: "mask 0000beef\n",
		},
		{
			name: "literal percent",
			rec:  trice.Record{ID: 7},
			want: "100% done\n",
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertEqual(t, r.Render(tc.rec), tc.want)
		})
	}
}

func TestRendererUnknownIDFallsBack(t *testing.T) {
	t.Parallel()

	r := tricehost.NewRenderer(tricehost.Table{}, nil)
	have := r.Render(trice.Record{ID: 999, Payload: []byte{0x01, 0xAB}})
	assertEqual(t, have, "id(999) 01 ab\n")
}

func TestRendererShortPayload(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{8: {Fmt: "v=%u\n", Args: []int{4}}}
	r := tricehost.NewRenderer(table, nil)

	have := r.Render(trice.Record{ID: 8, Payload: []byte{0x01, 0x02}})
	assertEqual(t, have, "id(8) bad payload: missing 4-byte value at offset 0\n")
}

func TestLoadTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "til.json")
	data := `{"100": {"fmt": "temp %d\n", "args": [2]}, "101": {"fmt": "boot\n"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := tricehost.LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, table, tricehost.Table{
		100: {Fmt: "temp %d\n", Args: []int{2}},
		101: {Fmt: "boot\n"},
	})
}
