package tricehost_test

import (
	"path/filepath"
	"testing"

	"github.com/JannisKonradBecker/trice"
	"github.com/JannisKonradBecker/trice/tricehost"
)

func TestFreeIDs(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{
		1: {Fmt: "a\n"},
		3: {Fmt: "b\n"},
	}

	assertEqual(t, tricehost.FreeIDs(table, 1, 5), []trice.ID{2, 4, 5})
	assertEqual(t, tricehost.FreeIDs(table, 4, 4), []trice.ID{4})
	assertEqual(t, tricehost.FreeIDs(table, 3, 3), nil)

	// The transport's diagnostic ids never show up as free.
	top := tricehost.FreeIDs(tricehost.Table{}, trice.MaxID-2, trice.MaxID)
	assertEqual(t, top, []trice.ID{trice.MaxID - 2})
}

func TestAssignAllocatesAndReuses(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{}

	// Fresh formats take ascending ids from the range.
	first, err := table.Assign(tricehost.Entry{Fmt: "boot\n"}, 100, 199, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := table.Assign(tricehost.Entry{Fmt: "temp %d\n", Args: []int{2}}, 100, 199, false)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, first, trice.ID(100))
	assertEqual(t, second, trice.ID(101))

	// An identical entry keeps its id, so re-assignment is idempotent.
	again, err := table.Assign(tricehost.Entry{Fmt: "boot\n"}, 100, 199, false)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, again, first)
	assertEqual(t, len(table), 2)

	// Same format with a different width is a different call site.
	wide, err := table.Assign(tricehost.Entry{Fmt: "temp %d\n", Args: []int{4}}, 100, 199, false)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, wide, trice.ID(102))
}

func TestAssignDownward(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{}
	id, err := table.Assign(tricehost.Entry{Fmt: "hi\n"}, 100, 199, true)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, id, trice.ID(199))
}

func TestAssignExhaustedRange(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{7: {Fmt: "taken\n"}}
	if _, err := table.Assign(tricehost.Entry{Fmt: "new\n"}, 7, 7, false); err == nil {
		t.Fatal("expected error for exhausted range")
	}
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	good := tricehost.Table{
		1: {Fmt: "boot\n"},
		2: {Fmt: "temp %d, ratio %f, name %s\n", Args: []int{2, 4, 0}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}

	for name, bad := range map[string]tricehost.Table{
		"id zero":          {0: {Fmt: "x\n"}},
		"empty format":     {1: {Fmt: ""}},
		"arg count":        {1: {Fmt: "%d %d\n", Args: []int{2}}},
		"string width":     {1: {Fmt: "%s\n", Args: []int{4}}},
		"scalar as string": {1: {Fmt: "%d\n", Args: []int{0}}},
		"float width":      {1: {Fmt: "%f\n", Args: []int{2}}},
		"invalid width":    {1: {Fmt: "%d\n", Args: []int{3}}},
	} {
		bad := bad
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if err := bad.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDeriveArgs(t *testing.T) {
	t.Parallel()

	assertEqual(t, tricehost.DeriveArgs("boot\n", 4), []int{})
	assertEqual(t, tricehost.DeriveArgs("%d items, %s, %x\n", 4), []int{4, 0, 4})
	assertEqual(t, tricehost.DeriveArgs("%d of %u\n", 2), []int{2, 2})
	assertEqual(t, tricehost.DeriveArgs("ratio %f\n", 2), []int{4})
	assertEqual(t, tricehost.DeriveArgs("ratio %f\n", 8), []int{8})
	assertEqual(t, tricehost.DeriveArgs("100%% done\n", 4), []int{})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	table := tricehost.Table{
		100: {Fmt: "temp %d\n", Args: []int{2}},
		101: {Fmt: "boot\n"},
	}

	path := filepath.Join(t.TempDir(), "til.json")
	if err := table.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := tricehost.LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, loaded, table)
}
