package main

import (
	"context"
	"errors"
	"io"

	"github.com/JannisKonradBecker/trice"
	"github.com/JannisKonradBecker/trice/tricehost"
)

// decodeLoop pumps the raw byte stream through decoder, renderer and
// composer, handing complete lines to emit until the source ends or ctx is
// canceled.
func decodeLoop(ctx context.Context, src io.Reader, dec *trice.Decoder, ren *tricehost.Renderer, emit func(tricehost.Line)) error {
	composer := tricehost.NewLineComposer(emit, nil)
	defer composer.Flush()

	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := src.Read(buf)
		if n > 0 {
			dec.Write(buf[:n])
			for {
				rec, ok := dec.Next()
				if !ok {
					break
				}
				composer.WriteString(ren.Render(rec))
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
