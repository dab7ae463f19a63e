package pager

import (
	"log/slog"

	"ereader/config"
	"ereader/progress"
	"ereader/render"
	"ereader/viewport"
)

// Dispatcher applies key presses to a reading session.
type Dispatcher struct {
	sectionID string
	view      *viewport.Viewport
	surface   viewport.Surface
	store     *progress.Store
	keys      *config.KeyMatcher
	log       *slog.Logger

	// moved records whether the reader changed the top row at all, so
	// that scrolling back to row 0 can be told apart from never scrolling.
	moved bool
}

// NewDispatcher creates a dispatcher for one section.
func NewDispatcher(sectionID string, view *viewport.Viewport, surface viewport.Surface, store *progress.Store, keys *config.KeyMatcher, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sectionID: sectionID,
		view:      view,
		surface:   surface,
		store:     store,
		keys:      keys,
		log:       log,
	}
}

// Render redraws the viewport.
func (d *Dispatcher) Render() error {
	return d.view.Render(d.surface)
}

// Action resolves a key to the action it is bound to.
func (d *Dispatcher) Action(k render.Key) config.Action {
	if k.Kind == render.KeyRune {
		return d.keys.Match(k.Rune)
	}
	d.keys.ClearPending()

	switch k.Kind {
	case render.KeyUp:
		return config.ActionScrollUp
	case render.KeyDown:
		return config.ActionScrollDown
	case render.KeyLeft:
		return config.ActionScrollLeft
	case render.KeyRight:
		return config.ActionScrollRight
	case render.KeyPageUp:
		return config.ActionHalfPageUp
	case render.KeyPageDown:
		return config.ActionHalfPageDown
	case render.KeyHome:
		return config.ActionGoTop
	case render.KeyEnd:
		return config.ActionGoBottom
	case render.KeyCtrlC:
		return config.ActionQuit
	}
	return config.ActionNone
}

// Handle applies one key. It returns done once the session should end.
// Unbound keys are ignored.
func (d *Dispatcher) Handle(k render.Key) (done bool, err error) {
	action := d.Action(k)
	if action == config.ActionQuit {
		d.quit()
		return true, nil
	}

	rows, cols := d.surface.Size()
	top := d.view.Top()

	switch action {
	case config.ActionScrollUp:
		d.view.MoveUp()
	case config.ActionScrollDown:
		d.view.MoveDown(rows)
	case config.ActionScrollLeft:
		d.view.MoveLeft()
	case config.ActionScrollRight:
		d.view.MoveRight(cols)
	case config.ActionHalfPageUp:
		d.view.PageUp(rows)
	case config.ActionHalfPageDown:
		d.view.PageDown(rows)
	case config.ActionGoTop:
		d.view.Home()
	case config.ActionGoBottom:
		d.view.End(rows)
	default:
		return false, nil
	}

	if d.view.Top() != top {
		d.moved = true
	}
	return false, d.Render()
}

// quit saves the reader's position once the reader has scrolled. A section
// opened and closed untouched keeps its earlier progress, even when the
// first draw clamped a stored offset that no longer fits the screen.
func (d *Dispatcher) quit() {
	top, rows := d.view.Top(), d.view.Buffer().Rows()
	if !d.moved || top < 0 || top > rows {
		d.log.Debug("progress unchanged", "top", top)
		return
	}

	if err := d.store.SetCompletion(d.sectionID, top); err != nil {
		d.log.Warn("progress not saved", "top", top, "error", err)
		return
	}
	d.log.Info("progress saved", "top", top, "rows", rows)
}
