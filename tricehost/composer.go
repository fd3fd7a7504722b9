package tricehost

import (
	"strings"
	"time"
)

// LineComposer assembles rendered record fragments into complete output
// lines. Targets often emit a logical line across several records, and one
// record can carry several newlines, so fragments are buffered until a
// newline completes the line. A line keeps the host timestamp of its first
// fragment, which matters when a started line completes much later.
type LineComposer struct {
	emit    func(Line)
	now     func() time.Time
	seq     uint64
	started time.Time
	partial strings.Builder
}

// NewLineComposer returns a composer handing complete lines to emit. The
// now function stamps lines with host receive time; nil means time.Now.
func NewLineComposer(emit func(Line), now func() time.Time) *LineComposer {
	if now == nil {
		now = time.Now
	}
	return &LineComposer{emit: emit, now: now}
}

// Line is one complete rendered output line, stamped with host time.
type Line struct {
	Seq  uint64    `json:"seq"`
	When time.Time `json:"when"`
	Text string    `json:"text"`
}

// WriteString feeds one rendered fragment, flushing a line per contained
// newline. It implements io.StringWriter.
func (c *LineComposer) WriteString(s string) (int, error) {
	n := len(s)
	for len(s) > 0 {
		if c.partial.Len() == 0 {
			c.started = c.now()
		}
		nl := strings.IndexByte(s, '\n')
		if nl < 0 {
			c.partial.WriteString(s)
			break
		}
		c.partial.WriteString(s[:nl])
		c.flush()
		s = s[nl+1:]
	}
	return n, nil
}

// Flush emits any incomplete line, for end of stream.
func (c *LineComposer) Flush() {
	if c.partial.Len() > 0 {
		c.flush()
	}
}

func (c *LineComposer) flush() {
	c.seq++
	c.emit(Line{
		Seq:  c.seq,
		When: c.started,
		Text: c.partial.String(),
	})
	c.partial.Reset()
}
