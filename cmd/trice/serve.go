package main

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/unixtransport/unixproxy"

	"github.com/JannisKonradBecker/trice/tricehost"
)

type serveConfig struct {
	*rootConfig

	source string
	listen string
	echo   bool
}

func (cfg *serveConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'a',
		LongName:    "source",
		Value:       ffval.NewValueDefault(&cfg.source, "-"),
		Usage:       "raw byte stream source: '-', tcp://host:port, unix:///path",
		Placeholder: "ADDR",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName:    "listen",
		Value:       ffval.NewValueDefault(&cfg.listen, "localhost:8080"),
		Usage:       "HTTP listen address for the SSE stream",
		Placeholder: "ADDR",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName:  "echo",
		Value:     ffval.NewValue(&cfg.echo),
		Usage:     "also print rendered lines to stdout",
		NoDefault: true,
	})
}

func (cfg *serveConfig) Exec(ctx context.Context, args []string) error {
	renderer, err := cfg.newRenderer()
	if err != nil {
		return err
	}

	src, err := openSource(ctx, cfg.source, cfg.stdin)
	if err != nil {
		return err
	}
	defer src.Close()

	ln, err := unixproxy.ListenURI(ctx, cfg.listen)
	if err != nil {
		return err
	}

	cfg.info.Printf("source %s", cfg.source)
	cfg.info.Printf("listening on %s", cfg.listen)

	var (
		decoder = cfg.newDecoder()
		broker  = tricehost.NewBroker()
	)

	mux := http.NewServeMux()
	mux.Handle("/stream", tricehost.NewStreamServer(broker, cfg.debug))

	httpServer := &http.Server{Handler: mux}

	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return decodeLoop(ctx, src, decoder, renderer, func(line tricehost.Line) {
				broker.Publish(line)
				if cfg.echo {
					printLine(cfg.stdout, line)
				}
			})
		}, func(error) {
			cancel()
			src.Close()
		})
	}

	{
		g.Add(func() error {
			return httpServer.Serve(ln)
		}, func(error) {
			httpServer.Close()
		})
	}

	{
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}

	return g.Run()
}
