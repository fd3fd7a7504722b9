// Package tricesim provides in-memory stand-ins for the hardware
// capabilities the trace core consumes: a loopback UART and a simulated
// SysTick-style down counter. The check subcommand and the package tests
// run the full pipeline against these instead of peripheral registers.
package tricesim

import (
	"bytes"
	"sync"
)

// UART is an in-memory serial peripheral. Transmitted bytes accumulate in
// an output buffer; received bytes are fed by the test or simulation.
type UART struct {
	mtx     sync.Mutex
	out     bytes.Buffer
	in      []byte
	txIRQ   bool
	overrun bool
}

func NewUART() *UART { return &UART{} }

// TxReady is always true: the simulated transmit register never stalls.
func (u *UART) TxReady() bool { return true }

func (u *UART) WriteByte(b byte) {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	u.out.WriteByte(b)
}

func (u *UART) RxAvailable() bool {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	return len(u.in) > 0
}

func (u *UART) ReadByte() byte {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	if len(u.in) == 0 {
		return 0
	}
	b := u.in[0]
	u.in = u.in[1:]
	return b
}

// Overrun reports and clears the simulated overrun flag.
func (u *UART) Overrun() bool {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	v := u.overrun
	u.overrun = false
	return v
}

func (u *UART) SetTxInterrupt(on bool) {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	u.txIRQ = on
}

// TxInterruptEnabled reports the armed state of the simulated
// transmit-ready interrupt source.
func (u *UART) TxInterruptEnabled() bool {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	return u.txIRQ
}

// FeedRx queues bytes for the receive side.
func (u *UART) FeedRx(p []byte) {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	u.in = append(u.in, p...)
}

// RaiseOverrun sets the overrun flag, as dropped hardware bytes would.
func (u *UART) RaiseOverrun() {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	u.overrun = true
}

// UARTWriter adapts a UART's transmit register to io.Writer, byte by byte,
// the way a blocking firmware transmit loop would. It is the sink for the
// static buffer strategy.
type UARTWriter struct {
	UART *UART
}

func (w UARTWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		for !w.UART.TxReady() {
			// A real port spins on the ready flag here. The simulated
			// transmit register is always ready.
		}
		w.UART.WriteByte(b)
	}
	return len(p), nil
}

// TakeTx returns and clears everything transmitted so far.
func (u *UART) TakeTx() []byte {
	u.mtx.Lock()
	defer u.mtx.Unlock()
	p := append([]byte(nil), u.out.Bytes()...)
	u.out.Reset()
	return p
}
