package viewport

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

// fakeSurface records writes into a grid.
type fakeSurface struct {
	rows, cols int
	grid       map[int]string
	refreshes  int
}

func newFakeSurface(rows, cols int) *fakeSurface {
	return &fakeSurface{rows: rows, cols: cols, grid: make(map[int]string)}
}

func (f *fakeSurface) Size() (int, int) { return f.rows, f.cols }
func (f *fakeSurface) Refresh() error   { f.refreshes++; return nil }

func (f *fakeSurface) WriteAt(row, col int, s string) {
	f.grid[row] = strings.Repeat(" ", col) + s
}

func TestBufferDimensions(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		rows  int
		cols  int
	}{
		{"empty", nil, 0, 0},
		{"single empty line", []string{""}, 1, 0},
		{"widest wins", []string{"ab", "abcdef", "abc"}, 3, 6},
		{"wide runes count double", []string{"日本語"}, 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.lines)
			if b.Rows() != tt.rows || b.Cols() != tt.cols {
				t.Errorf("got %dx%d, expected %dx%d", b.Rows(), b.Cols(), tt.rows, tt.cols)
			}
		})
	}
}

func TestBufferIsImmutable(t *testing.T) {
	lines := []string{"one", "two"}
	b := NewBuffer(lines)
	lines[0] = "changed"
	assert.Equal(t, "one", b.Line(0))
}

func TestSplitLines(t *testing.T) {
	b := SplitLines("a\r\nbb\n\nccc")
	assert.Equal(t, 4, b.Rows())
	assert.Equal(t, 3, b.Cols())
	assert.Equal(t, "", b.Line(2))
}

func TestBufferSlice(t *testing.T) {
	b := NewBuffer([]string{"hello world", "日本語"})
	tests := []struct {
		row, left, width int
		expected         string
	}{
		{0, 0, 5, "hello"},
		{0, 6, 20, "world"},
		{0, 11, 5, ""},
		{1, 0, 4, "日本"},
		{1, 1, 4, "本"},
		{5, 0, 4, ""},
	}
	for _, tt := range tests {
		if got := b.Slice(tt.row, tt.left, tt.width); got != tt.expected {
			t.Errorf("Slice(%d, %d, %d) = %q, expected %q", tt.row, tt.left, tt.width, got, tt.expected)
		}
	}
}

func TestMoveDownScenario(t *testing.T) {
	v := New(NewBuffer(numberedLines(10)), 0)

	for i := 0; i < 3; i++ {
		v.MoveDown(5)
	}
	assert.Equal(t, 3, v.Top())

	for i := 0; i < 10; i++ {
		v.MoveDown(5)
	}
	assert.Equal(t, 5, v.Top(), "clamped at rows-visibleRows")
}

func TestSmallContentNeverScrolls(t *testing.T) {
	v := New(NewBuffer(numberedLines(4)), 3)
	for i := 0; i < 20; i++ {
		v.MoveDown(10)
		if v.Top() != 0 {
			t.Fatalf("after MoveDown %d: top = %d, expected 0", i, v.Top())
		}
	}
}

func TestIdempotentBoundaries(t *testing.T) {
	v := New(NewBuffer([]string{"0123456789", "x"}), 0)

	v.MoveUp()
	assert.Equal(t, 0, v.Top())
	v.MoveLeft()
	assert.Equal(t, 0, v.Left())

	// cols 10, visible 4: max left = 10-4+1 = 7
	for i := 0; i < 20; i++ {
		v.MoveRight(4)
	}
	assert.Equal(t, 7, v.Left())
	v.MoveRight(4)
	assert.Equal(t, 7, v.Left())

	// rows 2, visible 1: max top = 1
	v.MoveDown(1)
	v.MoveDown(1)
	assert.Equal(t, 1, v.Top())
}

func TestMoveRightNarrowContent(t *testing.T) {
	v := New(NewBuffer([]string{"ab"}), 0)
	for i := 0; i < 5; i++ {
		v.MoveRight(80)
	}
	assert.Equal(t, 0, v.Left())
}

func TestPagingMoves(t *testing.T) {
	v := New(NewBuffer(numberedLines(100)), 0)

	v.PageDown(20)
	assert.Equal(t, 10, v.Top())
	v.End(20)
	assert.Equal(t, 80, v.Top())
	v.PageDown(20)
	assert.Equal(t, 80, v.Top())
	v.PageUp(20)
	assert.Equal(t, 70, v.Top())
	v.Home()
	assert.Equal(t, 0, v.Top())
	v.PageUp(1)
	assert.Equal(t, 0, v.Top())
}

func TestClampInvariantUnderRandomMoves(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		lines := make([]string, rng.Intn(40))
		for i := range lines {
			lines[i] = strings.Repeat("x", rng.Intn(120))
		}
		buf := NewBuffer(lines)
		v := New(buf, 0)

		for step := 0; step < 200; step++ {
			// The terminal may be resized between any two moves.
			visibleRows := 1 + rng.Intn(30)
			visibleCols := 1 + rng.Intn(100)
			maxTop := max(0, buf.Rows()-visibleRows)
			maxLeft := max(0, buf.Cols()-visibleCols+1)

			checkTop, checkLeft := false, false
			switch rng.Intn(8) {
			case 0:
				v.MoveUp()
			case 1:
				v.MoveDown(visibleRows)
				checkTop = true
			case 2:
				v.MoveLeft()
			case 3:
				v.MoveRight(visibleCols)
				checkLeft = true
			case 4:
				v.PageDown(visibleRows)
				checkTop = true
			case 5:
				v.PageUp(visibleRows)
			case 6:
				v.End(visibleRows)
				checkTop = true
			case 7:
				v.Clamp(visibleRows, visibleCols)
				checkTop, checkLeft = true, true
			}

			if v.Top() < 0 || v.Left() < 0 {
				t.Fatalf("trial %d step %d: negative offset top=%d left=%d", trial, step, v.Top(), v.Left())
			}
			if checkTop && v.Top() > maxTop {
				t.Fatalf("trial %d step %d: top %d > %d", trial, step, v.Top(), maxTop)
			}
			if checkLeft && v.Left() > maxLeft {
				t.Fatalf("trial %d step %d: left %d > %d", trial, step, v.Left(), maxLeft)
			}
		}
	}
}

func TestRenderVisibleRectangle(t *testing.T) {
	v := New(NewBuffer([]string{"abcdef", "ghijkl", "mn"}), 0)
	s := newFakeSurface(4, 4)

	v.MoveDown(4) // fits, stays at 0
	v.MoveRight(4)
	v.MoveRight(4)
	if err := v.Render(s); err != nil {
		t.Fatal(err)
	}

	expected := map[int]string{
		0: "cdef",
		1: "ijkl",
		2: "    ",
		3: "    ",
	}
	assert.Equal(t, expected, s.grid)
	assert.Equal(t, 1, s.refreshes)
}

func TestRenderReclampsAfterResize(t *testing.T) {
	v := New(NewBuffer(numberedLines(10)), 0)
	for i := 0; i < 10; i++ {
		v.MoveDown(2)
	}
	assert.Equal(t, 8, v.Top())

	s := newFakeSurface(6, 10)
	assert.NoError(t, v.Render(s))
	assert.Equal(t, 4, v.Top())
	assert.Equal(t, "line 4    ", s.grid[0])
	assert.Equal(t, "line 9    ", s.grid[5])
}
