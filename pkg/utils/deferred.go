// Package utils provides small shared helpers.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers writes so log lines produced while the TUI owns
// the terminal can be replayed after it exits.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p. It never fails.
func (w *DeferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// Flush replays the buffered lines to out, one write per line so line
// oriented writers like zerolog's console writer format each event.
func (w *DeferredWriter) Flush(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for {
		line, err := w.buf.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := out.Write(line); werr != nil {
				return werr
			}
		}
		if err != nil {
			return nil
		}
	}
}
