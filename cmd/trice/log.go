package main

import (
	"context"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"

	"github.com/JannisKonradBecker/trice/tricehost"
)

type logConfig struct {
	*rootConfig

	source string
}

func (cfg *logConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'a',
		LongName:    "source",
		Value:       ffval.NewValueDefault(&cfg.source, "-"),
		Usage:       "raw byte stream source: '-', tcp://host:port, unix:///path",
		Placeholder: "ADDR",
	})
}

func (cfg *logConfig) Exec(ctx context.Context, args []string) error {
	renderer, err := cfg.newRenderer()
	if err != nil {
		return err
	}

	src, err := openSource(ctx, cfg.source, cfg.stdin)
	if err != nil {
		return err
	}
	defer src.Close()

	cfg.info.Printf("source %s", cfg.source)

	decoder := cfg.newDecoder()

	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			defer func() {
				if n := decoder.Missed(); n > 0 {
					cfg.info.Printf("missed records on target: %d", n)
				}
			}()
			return decodeLoop(ctx, src, decoder, renderer, func(ln tricehost.Line) {
				printLine(cfg.stdout, ln)
			})
		}, func(error) {
			cancel()
			src.Close()
		})
	}

	{
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}

	return g.Run()
}
