package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes every message to all of its writers, e.g. stdout and a
// rotated log file. A failing writer does not stop the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: append([]io.Writer(nil), writers...)}
}

// Write reports len(p) if at least one writer took the whole message, and
// the combined errors of the writers that failed.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		err       error
		delivered bool
	)
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		delivered = true
	}
	if !delivered {
		return 0, err
	}
	return len(p), err
}
