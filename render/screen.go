package render

import (
	"fmt"
	"io"
	"os"
)

// Default dimensions when the output is not a terminal.
const (
	DefaultRows = 24
	DefaultCols = 80
)

// Screen is a full-screen drawing surface backed by a canvas. Writes land
// in the canvas and reach the output on Refresh.
type Screen struct {
	in     *KeyReader
	out    io.Writer
	term   *Terminal
	canvas *Canvas

	rows, cols int
	depth      int // nested raw mode acquisitions
}

// NewScreen creates a screen over arbitrary streams. Without a tty the size
// is fixed and raw mode only switches to the alternate screen.
func NewScreen(in io.Reader, out io.Writer) *Screen {
	return &Screen{
		in:     NewKeyReader(in),
		out:    out,
		canvas: NewCanvas(DefaultCols, DefaultRows),
		rows:   DefaultRows,
		cols:   DefaultCols,
	}
}

// OpenTTY creates a screen on the controlling terminal, falling back to
// stdin/stdout when /dev/tty cannot be opened.
func OpenTTY() (*Screen, func() error, error) {
	in, out := os.Stdin, os.Stdout
	closer := func() error { return nil }

	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		in, out = tty, tty
		closer = tty.Close
	}

	term, err := NewTerminal(in)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("initializing terminal: %w", err)
	}

	s := NewScreen(in, out)
	s.term = term
	s.Size()
	return s, closer, nil
}

// Size returns the current rows and columns. When the terminal has been
// resized the canvas is reallocated blank.
func (s *Screen) Size() (rows, cols int) {
	if s.term != nil {
		if w, h, err := s.term.Size(); err == nil && w > 0 && h > 0 {
			s.rows, s.cols = h, w
		}
	}
	if s.canvas.Width() != s.cols || s.canvas.Height() != s.rows {
		s.canvas.Resize(s.cols, s.rows)
	}
	return s.rows, s.cols
}

// WriteAt writes plain text at a cell.
func (s *Screen) WriteAt(row, col int, text string) {
	s.canvas.WriteString(col, row, text, Style{})
}

// WriteStyled writes styled text at a cell.
func (s *Screen) WriteStyled(row, col int, text string, style Style) {
	s.canvas.WriteString(col, row, text, style)
}

// Refresh writes the canvas to the output.
func (s *Screen) Refresh() error {
	return s.canvas.RenderTo(s.out)
}

// ReadKey blocks for the next key press.
func (s *Screen) ReadKey() (Key, error) {
	return s.in.ReadKey()
}

// EnterRawMode switches to raw input and the alternate screen. Calls
// nest: only the outermost pair touches the terminal.
func (s *Screen) EnterRawMode() error {
	s.depth++
	if s.depth > 1 {
		return nil
	}
	if s.term != nil {
		if err := s.term.EnterRawMode(); err != nil {
			s.depth--
			return fmt.Errorf("entering raw mode: %w", err)
		}
	}
	_, err := io.WriteString(s.out, AltScreenEnter+ClearScreen)
	return err
}

// ExitRawMode leaves the alternate screen and restores the terminal.
func (s *Screen) ExitRawMode() error {
	if s.depth == 0 {
		return nil
	}
	s.depth--
	if s.depth > 0 {
		return nil
	}
	_, werr := io.WriteString(s.out, AltScreenExit)
	if s.term != nil {
		if err := s.term.RestoreMode(); err != nil {
			return fmt.Errorf("restoring terminal: %w", err)
		}
	}
	return werr
}

// HideCursor hides the cursor.
func (s *Screen) HideCursor() {
	io.WriteString(s.out, CursorHide)
}

// ShowCursor shows the cursor.
func (s *Screen) ShowCursor() {
	io.WriteString(s.out, CursorShow)
}
