package main

import (
	"encoding/binary"
	"io"
	"log"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"

	"github.com/JannisKonradBecker/trice"
	"github.com/JannisKonradBecker/trice/tricehost"
)

type rootConfig struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logLevel  string
	byteOrder string
	cycle     bool
	tablePath string

	info, debug *log.Logger
}

func (cfg *rootConfig) registerFlags(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'l',
		LongName:    "log",
		Value:       ffval.NewEnum(&cfg.logLevel, "info", "i", "debug", "d", "none", "n"),
		Usage:       "log level: i/info, d/debug, n/none",
		Placeholder: "LEVEL",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'e',
		LongName:    "byte-order",
		Value:       ffval.NewEnum(&cfg.byteOrder, "little", "big"),
		Usage:       "transfer byte order of the target: little, big",
		Placeholder: "ORDER",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName: 'c',
		LongName:  "cycle",
		Value:     ffval.NewValueDefault(&cfg.cycle, true),
		Usage:     "target encodes a per-record cycle counter",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName:   't',
		LongName:    "table",
		Value:       ffval.NewValue(&cfg.tablePath),
		Usage:       "path to the id-to-format table (JSON)",
		Placeholder: "PATH",
	})
}

func (cfg *rootConfig) order() binary.ByteOrder {
	if cfg.byteOrder == "big" {
		return trice.BigEndian
	}
	return trice.LittleEndian
}

func (cfg *rootConfig) newDecoder() *trice.Decoder {
	return trice.NewDecoder(trice.DecoderConfig{
		Order: cfg.order(),
		Cycle: cfg.cycle,
	})
}

func (cfg *rootConfig) newRenderer() (*tricehost.Renderer, error) {
	var table tricehost.Table
	if cfg.tablePath != "" {
		t, err := tricehost.LoadTable(cfg.tablePath)
		if err != nil {
			return nil, err
		}
		table = t
	}
	return tricehost.NewRenderer(table, cfg.order()), nil
}
