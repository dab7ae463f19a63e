// Package pager runs reading sessions: one section's lines in a scrolling
// viewport, driven by key presses, with the reached row saved on quit.
package pager

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"ereader/config"
	"ereader/logging"
	"ereader/progress"
	"ereader/render"
	"ereader/viewport"
)

// Terminal is the screen capability a session needs.
type Terminal interface {
	viewport.Surface
	ReadKey() (render.Key, error)
	EnterRawMode() error
	ExitRawMode() error
	HideCursor()
	ShowCursor()
}

// styledWriter is implemented by terminals that can draw attributes.
type styledWriter interface {
	WriteStyled(row, col int, text string, style render.Style)
}

// Pager opens sections for reading.
type Pager struct {
	term       Terminal
	store      *progress.Store
	bindings   config.Keybindings
	statusLine bool
	log        *slog.Logger
	notices    *logging.Notices
}

// Option configures a Pager.
type Option func(*Pager)

// WithKeybindings sets the letter bindings.
func WithKeybindings(kb config.Keybindings) Option {
	return func(p *Pager) { p.bindings = kb }
}

// WithStatusLine turns the bottom status line on or off.
func WithStatusLine(on bool) Option {
	return func(p *Pager) { p.statusLine = on }
}

// WithLogger sets the logger and the notices shown on the status line.
func WithLogger(log *slog.Logger, notices *logging.Notices) Option {
	return func(p *Pager) {
		p.log = log
		p.notices = notices
	}
}

// New creates a pager drawing on term and saving progress to store.
func New(term Terminal, store *progress.Store, opts ...Option) *Pager {
	p := &Pager{
		term:       term,
		store:      store,
		bindings:   config.Default().Keybindings,
		statusLine: true,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OpenSection runs a reading session over lines, starting at row prior,
// until the reader quits. The terminal is put back the way it was found
// however the session ends.
func (p *Pager) OpenSection(sectionID string, lines []string, prior int) (err error) {
	if err := p.term.EnterRawMode(); err != nil {
		return fmt.Errorf("opening %s: %w", sectionID, err)
	}
	p.term.HideCursor()
	defer func() {
		p.term.ShowCursor()
		if rerr := p.term.ExitRawMode(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	log := p.log.With("session", uuid.NewString(), "section", sectionID)
	log.Info("section opened", "rows", len(lines), "prior", prior)

	view := viewport.New(viewport.NewBuffer(lines), prior)
	surface := &frame{Terminal: p.term, view: view, title: sectionID, statusLine: p.statusLine, notices: p.notices}
	keys := config.NewKeyMatcher(p.bindings.Actions())
	d := NewDispatcher(sectionID, view, surface, p.store, keys, log)

	if err := d.Render(); err != nil {
		return fmt.Errorf("rendering %s: %w", sectionID, err)
	}
	for {
		key, err := p.term.ReadKey()
		if err != nil {
			log.Error("reading key", "error", err)
			return fmt.Errorf("reading key: %w", err)
		}
		done, err := d.Handle(key)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", sectionID, err)
		}
		if done {
			log.Info("section closed", "top", view.Top())
			return nil
		}
	}
}

// frame is the terminal minus the status line row. The status line is
// drawn on every refresh.
type frame struct {
	Terminal
	view       *viewport.Viewport
	title      string
	statusLine bool
	notices    *logging.Notices
}

func (f *frame) Size() (rows, cols int) {
	rows, cols = f.Terminal.Size()
	if f.statusLine && rows > 1 {
		rows--
	}
	return rows, cols
}

func (f *frame) Refresh() error {
	if f.statusLine {
		rows, cols := f.Terminal.Size()
		if rows > 1 {
			text := render.PadRight(render.Truncate(f.status(cols), cols), cols)
			if sw, ok := f.Terminal.(styledWriter); ok {
				sw.WriteStyled(rows-1, 0, text, render.Style{Reverse: true})
			} else {
				f.Terminal.WriteAt(rows-1, 0, text)
			}
		}
	}
	return f.Terminal.Refresh()
}

func (f *frame) status(cols int) string {
	pos := fmt.Sprintf("%d/%d", f.view.Top(), f.view.Buffer().Rows())
	left := " " + f.title
	if notice := f.notices.Last(); notice != "" {
		left += "  ! " + notice
	}
	room := cols - render.StringWidth(pos) - 2
	if room < 1 {
		return pos
	}
	return render.PadRight(render.Truncate(left, room), room) + " " + pos + " "
}
