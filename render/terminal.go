package render

import (
	"os"

	"golang.org/x/sys/unix"
)

// Terminal handles raw mode for a tty.
type Terminal struct {
	fd       int
	original unix.Termios
	raw      bool
}

// NewTerminal creates a terminal controller for the given file.
func NewTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, err
	}
	return &Terminal{fd: fd, original: *termios}, nil
}

// EnterRawMode turns off echo and line buffering. Reads block until at
// least one byte arrives.
func (t *Terminal) EnterRawMode() error {
	raw := t.original
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return err
	}
	t.raw = true
	return nil
}

// RestoreMode restores the original terminal mode.
func (t *Terminal) RestoreMode() error {
	if !t.raw {
		return nil
	}
	t.raw = false
	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, &t.original)
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (width, height int, err error) {
	return TerminalSize(t.fd)
}

const (
	ClearScreen    = "\033[2J"
	CursorHome     = "\033[H"
	CursorHide     = "\033[?25l"
	CursorShow     = "\033[?25h"
	AltScreenEnter = "\033[?1049h"
	AltScreenExit  = "\033[?1049l"
)
