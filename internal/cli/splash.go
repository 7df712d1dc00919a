package cli

import (
	"fmt"
	"io"
	"sync"
)

const (
	splashText  = "Loading…"
	splashErase = "\r\x1b[2K"
)

// splash is the one-line notice shown on the primary screen until the TUI
// mounts.
type splash struct {
	w    io.Writer
	once sync.Once
}

func showSplash(w io.Writer) *splash {
	fmt.Fprint(w, splashText)
	return &splash{w: w}
}

// Clear erases the notice. Only the first call writes.
func (s *splash) Clear() {
	s.once.Do(func() { fmt.Fprint(s.w, splashErase) })
}
