package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/sys/unix"
)

// continuation marks the second cell of a double-width rune.
const continuation rune = 0

// Canvas is a drawable buffer that can be rendered to the terminal.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// NewCanvas creates a new canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// TerminalSize returns the dimensions of the terminal on fd.
func TerminalSize(fd int) (width, height int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Resize reallocates the canvas, blanking every cell.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	c.width, c.height = width, height
	c.cells = make([][]Cell, height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, width)
	}
	c.Clear()
}

// Clear fills the entire canvas with spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a rune at the given position with the given style.
func (c *Canvas) Set(x, y int, r rune, style Style) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = Cell{Rune: r, Style: style}
}

// Get returns the cell at the given position.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

// WriteString writes a string starting at the given position.
// Returns the number of terminal cells used (not runes).
func (c *Canvas) WriteString(x, y int, s string, style Style) int {
	pos := 0
	for _, r := range s {
		w := UnicodeWidth(r)
		if w == 0 {
			continue
		}
		if x+pos+w > c.width {
			break
		}
		c.Set(x+pos, y, r, style)
		if w == 2 {
			c.Set(x+pos+1, y, continuation, style)
		}
		pos += w
	}
	return pos
}

// Render outputs the canvas as a string with ANSI escape codes.
func (c *Canvas) Render() string {
	var sb strings.Builder
	sb.WriteString(CursorHome)

	var currentStyle Style

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			if cell.Rune == continuation {
				continue
			}

			if cell.Style != currentStyle {
				sb.WriteString(styleSequence(cell.Style))
				currentStyle = cell.Style
			}

			sb.WriteRune(cell.Rune)
		}
		if y < c.height-1 {
			sb.WriteString("\r\n")
		}
	}

	sb.WriteString("\033[0m")
	return sb.String()
}

func styleSequence(s Style) string {
	codes := []string{"0"}
	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Reverse {
		codes = append(codes, "7")
	}
	if s.FgColor > 0 {
		codes = append(codes, fmt.Sprintf("%d", s.FgColor))
	}
	return fmt.Sprintf("\033[%sm", strings.Join(codes, ";"))
}

// RenderTo writes the canvas to w.
func (c *Canvas) RenderTo(w io.Writer) error {
	_, err := io.WriteString(w, c.Render())
	return err
}

// PlainText returns the canvas content as plain text without ANSI codes.
func (c *Canvas) PlainText() string {
	stripped := StripANSI(c.Render())
	stripped = strings.ReplaceAll(stripped, "\r\n", "\n")
	lines := strings.Split(stripped, "\n")
	var cleaned []string
	for _, line := range lines {
		cleaned = append(cleaned, strings.TrimRight(line, " \t"))
	}
	for len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return strings.Join(cleaned, "\n") + "\n"
}
