package tricehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bernerdschaefer/eventsource"
)

// StreamClient consumes a [StreamServer] endpoint, delivering lines to a
// channel until the context is canceled.
type StreamClient struct {
	// URI of the stream endpoint, e.g. "http://localhost:8080/stream".
	URI string

	// RetryInterval between reconnect attempts. Default 1s.
	RetryInterval time.Duration
}

// Stream reads server-sent events into ch. It blocks until ctx is canceled
// or the connection fails beyond recovery.
func (c *StreamClient) Stream(ctx context.Context, ch chan<- Line) error {
	retry := c.RetryInterval
	if retry <= 0 {
		retry = time.Second
	}

	req, err := http.NewRequest("GET", c.URI, nil)
	if err != nil {
		return fmt.Errorf("create stream request: %w", err)
	}

	es := eventsource.New(req, retry)
	go func() {
		<-ctx.Done()
		es.Close()
	}()

	for {
		ev, err := es.Read()
		if errors.Is(err, eventsource.ErrClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read server-sent event: %w", err)
		}

		if ev.Type != "line" {
			continue
		}

		var ln Line
		if err := json.Unmarshal(ev.Data, &ln); err != nil {
			return fmt.Errorf("decode line event: %w", err)
		}

		select {
		case ch <- ln:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
