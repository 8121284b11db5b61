package cli

import (
	"os"
	"time"
)

const (
	escapeByte        = byte(0x1b)
	interruptByte     = byte(0x03)
	escSequenceWindow = 25 * time.Millisecond
)

// escBackReader turns a lone Esc keypress into Ctrl+C so survey aborts the
// prompt, and remembers that it did. Esc bytes that start an arrow-key
// sequence are passed through.
type escBackReader struct {
	file        *os.File
	backPressed bool
}

func newEscBackReader(file *os.File) *escBackReader {
	return &escBackReader{file: file}
}

func (r *escBackReader) Read(p []byte) (int, error) {
	n, err := r.file.Read(p)
	if n <= 0 {
		return n, err
	}

	// Only a trailing Esc with nothing queued behind it is a keypress.
	last := n - 1
	if p[last] == escapeByte && !inputPending(r.file, escSequenceWindow) {
		p[last] = interruptByte
		r.backPressed = true
	}

	return n, err
}

func (r *escBackReader) Fd() uintptr {
	return r.file.Fd()
}

// ConsumeBackPressed reports and clears the Esc marker.
func (r *escBackReader) ConsumeBackPressed() bool {
	pressed := r.backPressed
	r.backPressed = false

	return pressed
}
