// trice is the host-side tool for the trice trace core: it decodes the raw
// byte stream emitted by an instrumented target and renders it as text.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	var (
		ctx    = context.Background()
		stdin  = os.Stdin
		stdout = os.Stdout
		stderr = os.Stderr
		args   = os.Args[1:]
	)
	err := exec(ctx, stdin, stdout, stderr, args)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.As(err, &(run.SignalError{})):
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exec(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (err error) {
	rootConfig := &rootConfig{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rootFlags := ff.NewFlagSet("trice")
	rootConfig.registerFlags(rootFlags)

	rootCommand := &ff.Command{
		Name:      "trice",
		ShortHelp: "decode and render trace records from an instrumented target",
		Flags:     rootFlags,
	}

	// Config for `trice log`.
	logConfig := &logConfig{rootConfig: rootConfig}
	logFlags := ff.NewFlagSet("log").SetParent(rootFlags)
	logConfig.register(logFlags)
	logCommand := &ff.Command{
		Name:      "log",
		ShortHelp: "decode a raw trace byte stream and print rendered lines",
		Flags:     logFlags,
		Exec:      logConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, logCommand)

	// Config for `trice serve`.
	serveConfig := &serveConfig{rootConfig: rootConfig}
	serveFlags := ff.NewFlagSet("serve").SetParent(rootFlags)
	serveConfig.register(serveFlags)
	serveCommand := &ff.Command{
		Name:      "serve",
		ShortHelp: "decode a raw trace byte stream and republish lines over SSE",
		Flags:     serveFlags,
		Exec:      serveConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, serveCommand)

	// Config for `trice stream`.
	streamConfig := &streamConfig{rootConfig: rootConfig}
	streamFlags := ff.NewFlagSet("stream").SetParent(rootFlags)
	streamConfig.register(streamFlags)
	streamCommand := &ff.Command{
		Name:      "stream",
		ShortHelp: "follow the SSE line stream of a serve instance",
		Flags:     streamFlags,
		Exec:      streamConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, streamCommand)

	// Config for `trice ids`.
	idsConfig := &idsConfig{rootConfig: rootConfig}
	idsFlags := ff.NewFlagSet("ids").SetParent(rootFlags)
	idsConfig.register(idsFlags)
	idsCommand := &ff.Command{
		Name:      "ids",
		ShortHelp: "maintain the id-to-format table and assign fresh ids",
		LongHelp:  "Load and validate the JSON id table, report the free id space, and allocate ids for new format strings, reusing the id of any identical existing entry.",
		Flags:     idsFlags,
		Exec:      idsConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, idsCommand)

	// Config for `trice check`.
	checkConfig := &checkConfig{rootConfig: rootConfig}
	checkFlags := ff.NewFlagSet("check").SetParent(rootFlags)
	checkConfig.register(checkFlags)
	checkCommand := &ff.Command{
		Name:      "check",
		ShortHelp: "run a simulated target through the full pipeline",
		LongHelp:  "Emit a built-in dataset through the selected buffer strategy, a simulated clock and a loopback transport, then decode and render it.",
		Flags:     checkFlags,
		Exec:      checkConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, checkCommand)

	// Print help when appropriate.
	defer func() {
		errHelp := errors.Is(err, ff.ErrHelp) || errors.Is(err, ff.ErrNoExec)
		if errHelp {
			fmt.Fprintf(stderr, "\n%s\n", ffhelp.Command(rootCommand))
			err = nil
		}
	}()

	if err := rootCommand.Parse(args, ff.WithEnvVarPrefix("TRICE")); err != nil {
		return err
	}

	// Loggers per the --log flag.
	{
		var infodst, debugdst io.Writer
		switch rootConfig.logLevel {
		case "n", "none":
			infodst, debugdst = io.Discard, io.Discard
		case "i", "info":
			infodst, debugdst = stderr, io.Discard
		case "d", "debug":
			infodst, debugdst = stderr, stderr
		default:
			return fmt.Errorf("invalid log level %q", rootConfig.logLevel)
		}
		rootConfig.info = log.New(infodst, "", 0)
		rootConfig.debug = log.New(debugdst, "[DEBUG] ", log.Lmsgprefix)
	}

	return rootCommand.Run(ctx)
}
