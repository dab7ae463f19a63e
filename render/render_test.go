package render

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{"fits", "hello", 10, "hello"},
		{"ellipsis", "hello world", 8, "hello..."},
		{"tiny width", "hello", 2, "he"},
		{"wide runes", "日本語テキスト", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.text, tt.width)
			if result != tt.expected {
				t.Errorf("got %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		text  string
		width int
	}{
		{"abc", 3},
		{"日本", 4},
		{"é", 1},
		{"tab\there", 7},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.text); got != tt.width {
			t.Errorf("StringWidth(%q) = %d, expected %d", tt.text, got, tt.width)
		}
	}
}

func TestCanvasWriteString(t *testing.T) {
	c := NewCanvas(6, 2)

	if n := c.WriteString(0, 0, "abcdefgh", Style{}); n != 6 {
		t.Errorf("expected 6 cells written, got %d", n)
	}
	c.WriteString(0, 1, "日本語", Style{})

	expected := "abcdef\n日本語\n"
	if got := c.PlainText(); got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	c := NewCanvas(3, 1)
	c.WriteString(-1, 0, "x", Style{})
	c.WriteString(0, 5, "x", Style{})
	c.Set(10, 10, 'x', Style{})

	if got := c.PlainText(); got != "\n" {
		t.Errorf("expected blank canvas, got %q", got)
	}
}

func TestCanvasRenderStyles(t *testing.T) {
	c := NewCanvas(3, 1)
	c.WriteString(0, 0, "ab", Style{Reverse: true})

	out := c.Render()
	if !strings.HasPrefix(out, CursorHome) {
		t.Errorf("render should start at home: %q", out)
	}
	if !strings.Contains(out, "\033[0;7mab") {
		t.Errorf("expected reverse video sequence, got %q", out)
	}
	if !strings.HasSuffix(out, "\033[0m") {
		t.Errorf("render should reset styles: %q", out)
	}
}

func TestKeyReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		keys  []Key
	}{
		{"letters", "qj", []Key{RuneKey('q'), RuneKey('j')}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []Key{{Kind: KeyUp}, {Kind: KeyDown}, {Kind: KeyRight}, {Kind: KeyLeft}}},
		{"ss3 arrows", "\x1bOA\x1bOH", []Key{{Kind: KeyUp}, {Kind: KeyHome}}},
		{"paging", "\x1b[5~\x1b[6~\x1b[1~\x1b[4~", []Key{{Kind: KeyPageUp}, {Kind: KeyPageDown}, {Kind: KeyHome}, {Kind: KeyEnd}}},
		{"enter and ctrl-c", "\r\n\x03", []Key{{Kind: KeyEnter}, {Kind: KeyEnter}, {Kind: KeyCtrlC}}},
		{"lone escape", "\x1b", []Key{{Kind: KeyEscape}}},
		{"utf-8", "é", []Key{RuneKey('é')}},
		{"unknown control", "\x01", []Key{{Kind: KeyUnknown}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kr := NewKeyReader(strings.NewReader(tt.input))
			for i, want := range tt.keys {
				got, err := kr.ReadKey()
				if err != nil {
					t.Fatalf("key %d: %v", i, err)
				}
				if got != want {
					t.Errorf("key %d: got %v, expected %v", i, got, want)
				}
			}
			if _, err := kr.ReadKey(); !errors.Is(err, io.EOF) {
				t.Errorf("expected EOF after input, got %v", err)
			}
		})
	}
}

func TestScreenRawModeNests(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(strings.NewReader(""), &out)

	s.EnterRawMode()
	s.EnterRawMode()
	s.ExitRawMode()
	if strings.Contains(out.String(), AltScreenExit) {
		t.Fatal("inner exit should not leave the alternate screen")
	}
	s.ExitRawMode()
	s.ExitRawMode()

	if got := strings.Count(out.String(), AltScreenEnter); got != 1 {
		t.Errorf("expected one alt screen enter, got %d", got)
	}
	if got := strings.Count(out.String(), AltScreenExit); got != 1 {
		t.Errorf("expected one alt screen exit, got %d", got)
	}
}

func TestScreenWriteAndRefresh(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(strings.NewReader(""), &out)
	s.rows, s.cols = 2, 5

	rows, cols := s.Size()
	if rows != 2 || cols != 5 {
		t.Fatalf("size %dx%d, expected 2x5", rows, cols)
	}
	s.WriteAt(1, 1, "hi")
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if got := StripANSI(out.String()); got != "     \r\n hi  " {
		t.Errorf("got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{"no wrap needed", "hello world", 20, []string{"hello world"}},
		{"simple wrap", "hello world foo bar", 11, []string{"hello world", "foo bar"}},
		{"multiple lines", "one two three four five six", 10, []string{"one two", "three four", "five six"}},
		{"preserves newlines", "first\n\nsecond", 20, []string{"first", "", "second"}},
		{"long word breaks", "supercalifragilisticexpialidocious", 10, []string{"supercalif", "ragilistic", "expialidoc", "ious"}},
		{"long word mid line", "ab supercalifragilistic cd", 10, []string{"ab", "supercalif", "ragilistic", "cd"}},
		{"zero width keeps lines", "a  b\nc", 0, []string{"a  b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapText(tt.text, tt.width)
			if len(result) != len(tt.expected) {
				t.Errorf("got %d lines, expected %d lines\ngot: %v\nexpected: %v",
					len(result), len(tt.expected), result, tt.expected)
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("line %d: got %q, expected %q", i, line, tt.expected[i])
				}
			}
		})
	}
}
