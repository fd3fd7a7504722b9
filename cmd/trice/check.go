package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"

	"github.com/JannisKonradBecker/trice"
	"github.com/JannisKonradBecker/trice/internal/tricesim"
	"github.com/JannisKonradBecker/trice/internal/triceutil"
	"github.com/JannisKonradBecker/trice/tricehost"
)

type checkConfig struct {
	*rootConfig

	strategy string
	loops    int
	bufSize  int
}

func (cfg *checkConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'b',
		LongName:    "buffer",
		Value:       ffval.NewEnum(&cfg.strategy, "double", "ring", "static"),
		Usage:       "buffer strategy: static, double, ring",
		Placeholder: "STRATEGY",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName: 'n',
		LongName:  "loops",
		Value:     ffval.NewValueDefault(&cfg.loops, 10),
		Usage:     "simulated milliseconds to run",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName: "buffer-size",
		Value:    ffval.NewValueDefault(&cfg.bufSize, 4096),
		Usage:    "buffer bytes (per half for double)",
	})
}

// checkTable is the built-in id table for the simulated dataset, standing
// in for the one a real build would generate from its sources.
var checkTable = tricehost.Table{
	101: {Fmt: "sig:check run started\n"},
	102: {Fmt: "tst:int16 value %d\n", Args: []int{2}},
	103: {Fmt: "tst:byte value %x\n", Args: []int{1}},
	104: {Fmt: "rd:float value %f\n", Args: []int{4}},
	105: {Fmt: "msg:greeting %s\n", Args: []int{0}},
	106: {Fmt: "att:loop %u of %u\n", Args: []int{4, 4}},
	107: {Fmt: "sig:check run done, %u records\n", Args: []int{4}},
	110: {Fmt: "rx:received command\n"},
}

// simCyclesPerMs models a 48 MHz core clocking the tick counter directly.
const simCyclesPerMs = 48000

func (cfg *checkConfig) Exec(ctx context.Context, args []string) error {
	var (
		systick = tricesim.NewSysTick(simCyclesPerMs)
		uart    = tricesim.NewUART()
		guard   = &trice.MutexGuard{}
	)

	clock, err := trice.NewClock(trice.ClockConfig{
		ReadTick:    systick.Read,
		CyclesPerMs: simCyclesPerMs,
		Guard:       &trice.MutexGuard{},
	})
	if err != nil {
		return err
	}

	encoder := trice.NewEncoder(trice.EncoderConfig{
		Order: cfg.order(),
		Cycle: cfg.cycle,
	})

	var (
		buffer trice.Buffer
		double *trice.DoubleBuffer
	)
	switch cfg.strategy {
	case "static":
		buffer = trice.NewStaticBuffer(encoder.MaxRecord(), tricesim.UARTWriter{UART: uart})
	case "double":
		double = trice.NewDoubleBuffer(cfg.bufSize, guard)
		buffer = double
	case "ring":
		buffer = trice.NewRing(cfg.bufSize, guard)
	}

	writer, err := trice.NewWriter(trice.WriterConfig{
		Encoder: encoder,
		Buffer:  buffer,
		Clock:   clock,
	})
	if err != nil {
		return err
	}

	transport, err := trice.NewTransport(trice.TransportConfig{
		UART:   uart,
		Buffer: buffer,
		Diag:   writer,
		Dispatch: func(cmd []byte) {
			cfg.info.Printf("target dispatched command %q", cmd)
			writer.Emit16(110)
		},
	})
	if err != nil {
		return err
	}

	cfg.info.Printf("strategy %s, %d simulated ms", cfg.strategy, cfg.loops)

	// The simulated firmware: per-millisecond mainline emits, with the
	// tick handler and the UART service routines interleaved the way the
	// interrupt hardware would run them.
	writer.Emit32(101)
	uart.FeedRx(append([]byte("sim:hello"), 0))

	records := uint32(1)
	for i := 0; i < cfg.loops; i++ {
		writer.Emit16(102, trice.I16(-1*int16(i)))
		writer.Emit(103, trice.U8(0x55))
		writer.Emit32(104, trice.F32(3.14159))
		writer.Emit16(105, trice.String("hello"))
		writer.Emit32(106, trice.U32(uint32(i)), trice.U32(uint32(cfg.loops)))
		records += 5

		// Advance simulated time by a hair over one tick period.
		for wraps := systick.Advance(simCyclesPerMs + 17); wraps > 0; wraps-- {
			clock.Tick()
			if double != nil {
				double.Swap()
			}
			transport.TriggerTx()
		}

		for uart.RxAvailable() {
			transport.ServeRx()
		}
		for transport.State() == trice.TxDraining {
			transport.ServeTx()
		}
	}

	writer.Emit32(107, trice.U32(records))

	// Final drain: swap in whatever is still active and empty it.
	if double != nil {
		double.Swap()
	}
	transport.TriggerTx()
	for transport.State() == trice.TxDraining {
		transport.ServeTx()
	}

	// Host side: decode the loopback capture and render it.
	var (
		decoder  = cfg.newDecoder()
		renderer = tricehost.NewRenderer(checkTable, cfg.order())
	)
	composer := tricehost.NewLineComposer(func(ln tricehost.Line) {
		printLine(cfg.stdout, ln)
	}, nil)

	decoder.Write(uart.TakeTx())
	for {
		rec, ok := decoder.Next()
		if !ok {
			break
		}
		composer.WriteString(renderer.Render(rec))
	}
	composer.Flush()

	// Summary.
	{
		cur, max, submitted, drained, drops := buffer.Metrics().Values()
		truncations, corrections, overruns, cmdOverflows := trice.Degradations()
		fmt.Fprintf(cfg.stdout, "buffer: cur %s, max %s, submitted %s, drained %s, drops %d\n",
			triceutil.HumanizeBytes(cur), triceutil.HumanizeBytes(max),
			triceutil.HumanizeBytes(submitted), triceutil.HumanizeBytes(drained), drops)
		fmt.Fprintf(cfg.stdout, "degradations: truncations %d, clock corrections %d, overruns %d, command overflows %d\n",
			truncations, corrections, overruns, cmdOverflows)
		fmt.Fprintf(cfg.stdout, "decoder: missed %d, resyncs %d\n", decoder.Missed(), decoder.Resyncs())
	}

	return nil
}
