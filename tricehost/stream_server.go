package tricehost

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/bernerdschaefer/eventsource"
	"github.com/oklog/ulid/v2"
)

// StreamServer exposes a [Broker] as a Server-Sent Events endpoint. Each
// rendered line becomes one "line" event carrying its JSON form.
type StreamServer struct {
	broker *Broker
	debug  *log.Logger
}

// NewStreamServer returns a stream server over the broker. The debug
// logger, if non-nil, records subscription lifecycles.
func NewStreamServer(b *Broker, debug *log.Logger) *StreamServer {
	return &StreamServer{broker: b, debug: debug}
}

func (s *StreamServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "only GET is supported", http.StatusMethodNotAllowed)
		return
	}

	var (
		ctx     = r.Context()
		session = ulid.Make().String()
		buf     = parseDefault(r.URL.Query().Get("buf"), strconv.Atoi, 100)
		c       = make(chan Line, buf)
	)

	s.debugf("session %s: subscribe, buf %d", session, buf)

	done := make(chan struct{})
	var stats Stats
	go func() {
		defer close(done)
		st, err := s.broker.Stream(ctx, c)
		stats = st
		if err != nil && ctx.Err() == nil {
			s.debugf("session %s: stream: %v", session, err)
		}
	}()

	eventsource.Handler(func(lastId string, encoder *eventsource.Encoder, stop <-chan bool) {
		for {
			select {
			case ln := <-c:
				data, err := json.Marshal(ln)
				if err != nil {
					s.debugf("session %s: marshal line: %v", session, err)
					continue
				}
				if err := encoder.Encode(eventsource.Event{
					Type: "line",
					ID:   strconv.FormatUint(ln.Seq, 10),
					Data: data,
				}); err != nil {
					s.debugf("session %s: encode line: %v", session, err)
					continue
				}

			case <-ctx.Done():
				return

			case <-stop:
				return
			}
		}
	}).ServeHTTP(w, r)

	<-done
	s.debugf("session %s: done: %s", session, stats)
}

func (s *StreamServer) debugf(format string, args ...any) {
	if s.debug != nil {
		s.debug.Printf(format, args...)
	}
}

func parseDefault[T any](s string, parse func(string) (T, error), def T) T {
	if v, err := parse(s); err == nil {
		return v
	}
	return def
}
