package embeditor

import "errors"

// ErrNotTerminal is returned when standard input is not a terminal.
var ErrNotTerminal = errors.New("not a tty")

// Terminal is what the editor needs from the screen it runs on.
type Terminal interface {
	// ReadKey blocks until one key event is available.
	ReadKey() (Key, error)
	// Write sends a composed frame to the terminal.
	Write(p []byte) (int, error)
	// Size returns the window size in rows and columns.
	Size() (rows, cols int, err error)
}
