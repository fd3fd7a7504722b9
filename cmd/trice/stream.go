package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/unixtransport"

	"github.com/JannisKonradBecker/trice/tricehost"
)

type streamConfig struct {
	*rootConfig

	uri     string
	retry   time.Duration
	recvBuf int
}

func (cfg *streamConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'u',
		LongName:    "uri",
		Value:       ffval.NewValueDefault(&cfg.uri, "http://localhost:8080/stream"),
		Usage:       "stream endpoint of a serve instance",
		Placeholder: "URI",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName: "retry-interval",
		Value:    ffval.NewValueDefault(&cfg.retry, time.Second),
		Usage:    "connection retry interval",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName: "recv-buffer",
		Value:    ffval.NewValueDefault(&cfg.recvBuf, 100),
		Usage:    "local receive buffer size",
	})
}

func (cfg *streamConfig) Exec(ctx context.Context, args []string) error {
	// Allow http+unix:// URIs to reach serve instances on unix sockets.
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		unixtransport.Register(t)
	}

	cfg.info.Printf("streaming from %s", cfg.uri)

	var (
		lines  = make(chan tricehost.Line, cfg.recvBuf)
		client = &tricehost.StreamClient{URI: cfg.uri, RetryInterval: cfg.retry}
	)

	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return client.Stream(ctx, lines)
		}, func(error) {
			cancel()
		})
	}

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			for {
				select {
				case ln := <-lines:
					printLine(cfg.stdout, ln)
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}, func(error) {
			cancel()
		})
	}

	{
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}

	return g.Run()
}
