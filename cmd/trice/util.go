package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/JannisKonradBecker/trice/tricehost"
)

// openSource connects to the raw byte stream of a target. Accepted forms:
// "-" for stdin, "tcp://host:port", "unix:///path/to.sock", or a bare
// host:port which is treated as TCP. Serial adapters are expected to be
// bridged to one of these by tools like socat.
func openSource(ctx context.Context, addr string, stdin io.Reader) (io.ReadCloser, error) {
	if addr == "-" {
		return io.NopCloser(stdin), nil
	}

	network, host := "tcp", addr
	if strings.Contains(addr, "://") {
		u, err := url.Parse(addr)
		if err != nil {
			return nil, fmt.Errorf("parse source address: %w", err)
		}
		switch u.Scheme {
		case "tcp":
			network, host = "tcp", u.Host
		case "unix":
			network, host = "unix", u.Path
		default:
			return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
		}
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, host)
	if err != nil {
		return nil, fmt.Errorf("dial source: %w", err)
	}
	return conn, nil
}

// printLine writes one rendered line with its host timestamp.
func printLine(w io.Writer, ln tricehost.Line) {
	fmt.Fprintf(w, "%s  %s\n", ln.When.Format("15:04:05.000000"), ln.Text)
}
