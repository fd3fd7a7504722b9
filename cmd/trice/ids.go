package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"

	"github.com/JannisKonradBecker/trice"
	"github.com/JannisKonradBecker/trice/tricehost"
)

type idsConfig struct {
	*rootConfig

	assign   []string
	width    int
	min, max uint
	downward bool
	dryRun   bool
}

func (cfg *idsConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'f',
		LongName:    "assign",
		Value:       ffval.NewList(&cfg.assign),
		Usage:       "format string to assign an id to (repeatable)",
		Placeholder: "FMT",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName: 'w',
		LongName:  "scalar-width",
		Value:     ffval.NewValueDefault(&cfg.width, 4),
		Usage:     "wire width of scalar parameters in assigned formats (1, 2, 4, 8)",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName: "min",
		Value:    ffval.NewValueDefault(&cfg.min, uint(1000)),
		Usage:    "lowest id to assign from",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName: "max",
		Value:    ffval.NewValueDefault(&cfg.max, uint(trice.MaxID)),
		Usage:    "highest id to assign from",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName:  "downward",
		Value:     ffval.NewValue(&cfg.downward),
		Usage:     "assign from the top of the id range",
		NoDefault: true,
	})
	fs.AddFlag(ff.FlagConfig{
		LongName:  "dry-run",
		Value:     ffval.NewValue(&cfg.dryRun),
		Usage:     "report assignments without writing the table",
		NoDefault: true,
	})
}

func (cfg *idsConfig) Exec(ctx context.Context, args []string) error {
	if cfg.tablePath == "" {
		return fmt.Errorf("a table path is required (-t, --table)")
	}
	if cfg.min < 1 || cfg.max > uint(trice.MaxID) || cfg.min > cfg.max {
		return fmt.Errorf("invalid id range %d..%d", cfg.min, cfg.max)
	}
	switch cfg.width {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("invalid scalar width %d", cfg.width)
	}

	table, err := tricehost.LoadTable(cfg.tablePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.info.Printf("table %s does not exist yet, starting empty", cfg.tablePath)
		table = tricehost.Table{}
	case err != nil:
		return err
	}

	if err := table.Validate(); err != nil {
		return fmt.Errorf("validate table %s: %w", cfg.tablePath, err)
	}

	var (
		min   = trice.ID(cfg.min)
		max   = trice.ID(cfg.max)
		added int
	)
	for _, format := range cfg.assign {
		ent := tricehost.Entry{Fmt: format, Args: tricehost.DeriveArgs(format, cfg.width)}
		before := len(table)
		id, err := table.Assign(ent, min, max, cfg.downward)
		if err != nil {
			return fmt.Errorf("assign %q: %w", format, err)
		}
		if len(table) > before {
			added++
			fmt.Fprintf(cfg.stdout, "id %5d: %q (new)\n", id, format)
		} else {
			fmt.Fprintf(cfg.stdout, "id %5d: %q (existing)\n", id, format)
		}
	}

	fmt.Fprintf(cfg.stdout, "table %s: %d entries, %d free ids in %d..%d\n",
		cfg.tablePath, len(table), len(tricehost.FreeIDs(table, min, max)), min, max)

	if added == 0 {
		return nil
	}
	if cfg.dryRun {
		cfg.info.Printf("dry run, not writing %d new entries", added)
		return nil
	}
	if err := table.Save(cfg.tablePath); err != nil {
		return err
	}
	cfg.info.Printf("wrote %s with %d new entries", cfg.tablePath, added)
	return nil
}
