package viewport

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Surface is the drawable area a viewport renders into.
type Surface interface {
	// Size returns the visible rows and columns.
	Size() (rows, cols int)
	// WriteAt writes text starting at the given cell.
	WriteAt(row, col int, text string)
	// Refresh flushes written cells to the display.
	Refresh() error
}

// Viewport holds the scroll offsets over a buffer.
// Every move clamps against the dimensions it is given:
//
//	0 <= top  <= max(0, rows-visibleRows)
//	0 <= left <= max(0, cols-visibleCols+1)
type Viewport struct {
	buf  *Buffer
	top  int
	left int
}

// New creates a viewport positioned at row top.
func New(buf *Buffer, top int) *Viewport {
	if buf == nil {
		buf = NewBuffer(nil)
	}
	return &Viewport{buf: buf, top: max(top, 0)}
}

// Buffer returns the text being viewed.
func (v *Viewport) Buffer() *Buffer { return v.buf }

// Top returns the first visible row.
func (v *Viewport) Top() int { return v.top }

// Left returns the first visible column.
func (v *Viewport) Left() int { return v.left }

func (v *Viewport) maxTop(visibleRows int) int {
	return max(0, v.buf.Rows()-visibleRows)
}

func (v *Viewport) maxLeft(visibleCols int) int {
	return max(0, v.buf.Cols()-visibleCols+1)
}

// MoveUp scrolls one row towards the start.
func (v *Viewport) MoveUp() {
	v.top = max(v.top-1, 0)
}

// MoveDown scrolls one row towards the end. Content that fits in
// visibleRows never scrolls.
func (v *Viewport) MoveDown(visibleRows int) {
	v.top = min(v.top+1, v.maxTop(visibleRows))
}

// MoveLeft scrolls one column left.
func (v *Viewport) MoveLeft() {
	v.left = max(v.left-1, 0)
}

// MoveRight scrolls one column right.
func (v *Viewport) MoveRight(visibleCols int) {
	v.left = min(v.left+1, v.maxLeft(visibleCols))
}

// PageDown scrolls half a screen towards the end.
func (v *Viewport) PageDown(visibleRows int) {
	v.top = min(v.top+halfPage(visibleRows), v.maxTop(visibleRows))
}

// PageUp scrolls half a screen towards the start.
func (v *Viewport) PageUp(visibleRows int) {
	v.top = max(v.top-halfPage(visibleRows), 0)
}

// Home jumps to the first row.
func (v *Viewport) Home() {
	v.top = 0
}

// End jumps to the last full screen.
func (v *Viewport) End(visibleRows int) {
	v.top = v.maxTop(visibleRows)
}

func halfPage(visibleRows int) int {
	return max(visibleRows/2, 1)
}

// Clamp pulls the offsets back inside the bounds for the given size.
// Used after a resize, when no move has re-clamped yet.
func (v *Viewport) Clamp(visibleRows, visibleCols int) {
	v.top = min(max(v.top, 0), v.maxTop(visibleRows))
	v.left = min(max(v.left, 0), v.maxLeft(visibleCols))
}

// Render draws the visible rectangle of the buffer and refreshes the surface.
// Cells past the end of the text are blanked.
func (v *Viewport) Render(s Surface) error {
	rows, cols := s.Size()
	if rows <= 0 || cols <= 0 {
		return s.Refresh()
	}
	v.Clamp(rows, cols)

	for y := 0; y < rows; y++ {
		text := v.buf.Slice(v.top+y, v.left, cols)
		if pad := cols - runewidth.StringWidth(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		s.WriteAt(y, 0, text)
	}
	return s.Refresh()
}
