package trice

import (
	"errors"

	"github.com/JannisKonradBecker/trice/internal/tricedebug"
)

// UART is the abstract serial capability the transport consumes. A firmware
// port implements it over the peripheral registers; hosted builds and tests
// implement it in memory. All methods are called from interrupt service
// paths and must not block.
type UART interface {
	// TxReady reports whether the transmit register can accept a byte.
	TxReady() bool

	// WriteByte hands one byte to the transmit register.
	WriteByte(b byte)

	// RxAvailable reports whether a received byte is waiting.
	RxAvailable() bool

	// ReadByte takes the received byte, clearing the available flag.
	ReadByte() byte

	// Overrun reports, and clears, the hardware receive overrun flag.
	Overrun() bool

	// SetTxInterrupt enables or disables the transmit-ready interrupt
	// source. The transport disables it when it has nothing to send, so an
	// empty buffer does not generate busy interrupts.
	SetTxInterrupt(on bool)
}

// TxState is the transmit side of the transport state machine.
type TxState uint8

const (
	// TxIdle: no pending bytes, transmit interrupt disabled.
	TxIdle TxState = iota

	// TxDraining: buffered bytes remain, each transmit-ready interrupt
	// moves one of them to the wire.
	TxDraining
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxDraining:
		return "draining"
	default:
		return "invalid"
	}
}

// Reserved call site IDs for the transport's self-diagnostic records.
const (
	// DiagIDOverrun reports a hardware receive overrun.
	DiagIDOverrun ID = MaxID - 1

	// DiagIDCommandOverflow reports an inbound command exceeding the
	// accumulator capacity.
	DiagIDCommandOverflow ID = MaxID
)

// DefaultCommandSize is the default capacity of the inbound command
// accumulator, terminating zero excluded.
const DefaultCommandSize = 120

// TransportConfig configures a [Transport].
type TransportConfig struct {
	// UART is the serial capability. Required.
	UART UART

	// Buffer is the strategy the transmit side drains. Required.
	Buffer Buffer

	// Dispatch receives each completed inbound command. The slice is only
	// valid for the duration of the call; the dispatcher copies what it
	// keeps. Optional: without it, completed commands are discarded.
	Dispatch func(cmd []byte)

	// Diag, when set, is used to emit self-diagnostic trace records for
	// receive overruns and command overflows.
	Diag *Writer

	// CommandSize caps the inbound command accumulator. Default
	// [DefaultCommandSize].
	CommandSize int
}

// Transport drains a [Buffer] to the serial link under transmit-ready
// interrupt control, and assembles inbound bytes into zero-terminated
// command strings for an external dispatcher.
//
// The transmit path never blocks and never retries: when the link cannot
// accept a byte, it simply stays queued in the buffer until the next ready
// interrupt. Sustained backpressure therefore shows up as buffer occupancy
// and, eventually, submit drops, not as transport errors.
//
// ServeTx, ServeRx and TriggerTx are the interrupt entry points of the
// port. On a single-core target they serialize at interrupt priority;
// Transport adds no locking of its own.
type Transport struct {
	uart     UART
	buf      Buffer
	dispatch func([]byte)
	diag     *Writer

	state TxState
	out   [1]byte

	cmd      []byte // fixed accumulator, allocated once
	fill     int
	overflow bool // current command already reported as overflowing
}

func NewTransport(cfg TransportConfig) (*Transport, error) {
	if cfg.UART == nil {
		return nil, errors.New("transport: UART is required")
	}
	if cfg.Buffer == nil {
		return nil, errors.New("transport: Buffer is required")
	}
	if cfg.CommandSize <= 0 {
		cfg.CommandSize = DefaultCommandSize
	}
	return &Transport{
		uart:     cfg.UART,
		buf:      cfg.Buffer,
		dispatch: cfg.Dispatch,
		diag:     cfg.Diag,
		cmd:      make([]byte, cfg.CommandSize),
	}, nil
}

// State returns the transmit state, for diagnostics.
func (t *Transport) State() TxState { return t.state }

// TriggerTx is called from the periodic tick. If the buffer has pending
// bytes and the transmit side is idle, it arms the transmit-ready interrupt
// so draining resumes.
func (t *Transport) TriggerTx() {
	if t.state == TxIdle && t.buf.Pending() > 0 {
		t.state = TxDraining
		t.uart.SetTxInterrupt(true)
	}
}

// ServeTx is the transmit-ready interrupt service. It moves the next
// buffered byte to the wire, or, when nothing remains, goes idle and
// disarms the interrupt source.
func (t *Transport) ServeTx() {
	if !t.uart.TxReady() {
		return
	}
	if n := t.buf.Drain(t.out[:]); n == 0 {
		t.state = TxIdle
		t.uart.SetTxInterrupt(false)
		return
	}
	t.uart.WriteByte(t.out[0])
	t.state = TxDraining
}

// ServeRx is the byte-received interrupt service. Bytes accumulate until a
// zero byte terminates the command, which is handed to the dispatcher and
// the accumulator reset. A command longer than the accumulator keeps
// overwriting its last slot: degraded, but bounded and non-crashing.
//
// A hardware receive overrun is reported as a self-diagnostic trace record
// and reception continues.
func (t *Transport) ServeRx() {
	if t.uart.Overrun() {
		tricedebug.Core.Overruns.Add(1)
		if t.diag != nil {
			t.diag.Emit(DiagIDOverrun)
		}
	}
	if !t.uart.RxAvailable() {
		return
	}

	v := t.uart.ReadByte()
	if v == 0 {
		if t.dispatch != nil {
			t.dispatch(t.cmd[:t.fill])
		}
		t.fill = 0
		t.overflow = false
		return
	}

	if t.fill < len(t.cmd) {
		t.cmd[t.fill] = v
		t.fill++
		return
	}

	// Keep overwriting the last slot until a terminator arrives, reporting
	// the overflow once per command.
	t.cmd[len(t.cmd)-1] = v
	if !t.overflow {
		t.overflow = true
		tricedebug.Core.CommandOverflows.Add(1)
		if t.diag != nil {
			t.diag.Emit(DiagIDCommandOverflow)
		}
	}
}
