package tricehost

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/JannisKonradBecker/trice"
)

// reservedIDs are the call site ids the transport claims for its
// self-diagnostic records. Assignment never hands them out.
var reservedIDs = map[trice.ID]bool{
	trice.DiagIDOverrun:         true,
	trice.DiagIDCommandOverflow: true,
}

// Validate checks every entry for a renderable combination of id, format
// string, and declared widths. A table that validates renders without the
// bad-payload and invalid-width fallbacks, stale ids aside.
func (t Table) Validate() error {
	for id, ent := range t {
		if id == 0 || id > trice.MaxID {
			return fmt.Errorf("id %d: out of range 1..%d", id, trice.MaxID)
		}
		if ent.Fmt == "" {
			return fmt.Errorf("id %d: empty format string", id)
		}
		_, kinds := translate(ent.Fmt)
		if len(kinds) != len(ent.Args) {
			return fmt.Errorf("id %d: format has %d verbs, table lists %d args", id, len(kinds), len(ent.Args))
		}
		for i, k := range kinds {
			w := ent.Args[i]
			switch {
			case k == kindString && w != 0:
				return fmt.Errorf("id %d: arg %d is a string verb but has width %d", id, i, w)
			case k != kindString && w == 0:
				return fmt.Errorf("id %d: arg %d is a scalar verb but is declared as a string", id, i)
			case k == kindFloat && w != 4 && w != 8:
				return fmt.Errorf("id %d: arg %d is a float verb with width %d, want 4 or 8", id, i, w)
			case w != 0 && w != 1 && w != 2 && w != 4 && w != 8:
				return fmt.Errorf("id %d: arg %d has invalid width %d", id, i, w)
			}
		}
	}
	return nil
}

// FreeIDs returns the unassigned ids within [min, max], ascending, with the
// reserved diagnostic ids excluded. This is the id space new call sites
// allocate from.
func FreeIDs(t Table, min, max trice.ID) []trice.ID {
	var free []trice.ID
	if min == 0 {
		min = 1
	}
	if max > trice.MaxID {
		max = trice.MaxID
	}
	for id := min; id <= max; id++ {
		if _, used := t[id]; used || reservedIDs[id] {
			continue
		}
		free = append(free, id)
	}
	return free
}

// Assign returns an id for the entry, extending the table in place. An
// identical existing entry keeps its id, so re-running an assignment over
// the same formats is idempotent. Otherwise the lowest free id in
// [min, max] is taken, or the highest when down is set. When several
// identical entries exist it is unspecified which one's id is returned.
func (t Table) Assign(ent Entry, min, max trice.ID, down bool) (trice.ID, error) {
	for id, have := range t {
		if have.Fmt == ent.Fmt && slices.Equal(have.Args, ent.Args) {
			return id, nil
		}
	}

	free := FreeIDs(t, min, max)
	if len(free) == 0 {
		return 0, fmt.Errorf("no free id in %d..%d", min, max)
	}

	id := free[0]
	if down {
		id = free[len(free)-1]
	}
	t[id] = ent
	return id, nil
}

// DeriveArgs infers the wire widths for a format string: string verbs get
// the length-prefixed width, every other verb the given scalar width.
// Float verbs narrower than 8 bytes travel as 4.
func DeriveArgs(format string, scalarWidth int) []int {
	_, kinds := translate(format)
	args := make([]int, len(kinds))
	for i, k := range kinds {
		switch {
		case k == kindString:
			args[i] = 0
		case k == kindFloat && scalarWidth != 8:
			args[i] = 4
		default:
			args[i] = scalarWidth
		}
	}
	return args
}

// Save writes the table as indented JSON, the mirror of [LoadTable].
func (t Table) Save(path string) error {
	buf, err := json.MarshalIndent(t, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	if err := os.WriteFile(path, append(buf, '\n'), 0o644); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
