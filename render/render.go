// Package render provides the terminal primitives the reader draws with:
// raw mode, a cell canvas, and key decoding.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell represents a single character cell in the terminal.
type Cell struct {
	Rune  rune
	Style Style
}

// Style represents text styling for a cell.
type Style struct {
	Bold    bool
	Dim     bool
	Reverse bool
	FgColor int // ANSI foreground color code (0 = default, 32 = green, 33 = yellow, etc.)
}

// UnicodeWidth returns the display width of a rune in terminal cells.
func UnicodeWidth(r rune) int {
	if r < 0x20 || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	width := 0
	for _, r := range s {
		width += UnicodeWidth(r)
	}
	return width
}

// TruncateToWidth cuts s to at most maxWidth cells.
func TruncateToWidth(s string, maxWidth int) string {
	var sb strings.Builder
	w := 0
	for _, r := range s {
		rw := UnicodeWidth(r)
		if w+rw > maxWidth {
			break
		}
		sb.WriteRune(r)
		w += rw
	}
	return sb.String()
}

// Truncate truncates a string adding ellipsis if needed.
func Truncate(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return TruncateToWidth(s, width)
	}
	return TruncateToWidth(s, width-3) + "..."
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	if pad := width - StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	var sb strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

// WrapText wraps text to fit within width terminal cells. Existing line
// breaks are kept; words longer than width are split.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		lineWidth := 0
		flush := func() {
			if lineWidth > 0 {
				lines = append(lines, line.String())
			}
			line.Reset()
			lineWidth = 0
		}

		for _, word := range words {
			wordWidth := StringWidth(word)
			switch {
			case lineWidth > 0 && lineWidth+1+wordWidth <= width:
				line.WriteByte(' ')
				line.WriteString(word)
				lineWidth += 1 + wordWidth
				continue
			case lineWidth > 0:
				flush()
			}

			if wordWidth > width {
				pieces := breakWord(word, width)
				lines = append(lines, pieces[:len(pieces)-1]...)
				word = pieces[len(pieces)-1]
				wordWidth = StringWidth(word)
			}
			line.WriteString(word)
			lineWidth = wordWidth
		}
		flush()
	}

	return lines
}

func breakWord(word string, maxWidth int) []string {
	var result []string
	var line strings.Builder
	lineWidth := 0

	for _, r := range word {
		w := UnicodeWidth(r)
		if lineWidth+w > maxWidth && lineWidth > 0 {
			result = append(result, line.String())
			line.Reset()
			lineWidth = 0
		}
		line.WriteRune(r)
		lineWidth += w
	}
	if line.Len() > 0 {
		result = append(result, line.String())
	}
	return result
}
