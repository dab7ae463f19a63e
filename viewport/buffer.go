// Package viewport scrolls a fixed block of text lines in two dimensions.
package viewport

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Buffer is an immutable block of lines. Its dimensions are measured once.
type Buffer struct {
	lines []string
	cols  int
}

// NewBuffer copies lines into a buffer.
func NewBuffer(lines []string) *Buffer {
	b := &Buffer{lines: append([]string(nil), lines...)}
	for _, line := range b.lines {
		if w := runewidth.StringWidth(line); w > b.cols {
			b.cols = w
		}
	}
	return b
}

// SplitLines builds a buffer from text, one line per newline.
func SplitLines(text string) *Buffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return NewBuffer(strings.Split(text, "\n"))
}

// Rows returns the number of lines.
func (b *Buffer) Rows() int { return len(b.lines) }

// Cols returns the widest line's display width.
func (b *Buffer) Cols() int { return b.cols }

// Line returns line i, or "" outside the buffer.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// Slice returns the part of line i covering display columns
// [left, left+width). Wide runes cut by either edge are dropped.
func (b *Buffer) Slice(i, left, width int) string {
	line := b.Line(i)
	if line == "" || width <= 0 {
		return ""
	}

	var sb strings.Builder
	col := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if col >= left && col+w <= left+width {
			sb.WriteRune(r)
		}
		col += w
		if col >= left+width {
			break
		}
	}
	return sb.String()
}
