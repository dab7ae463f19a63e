// Package catalog is the section menu: it lists a book's sections with how
// far each has been read and hands the chosen one to a reader.
package catalog

import (
	"fmt"
	"log/slog"

	"ereader/config"
	"ereader/logging"
	"ereader/render"
	"ereader/viewport"
)

const (
	Title    = "Epub reader"
	Subtitle = "Chapter selection"
	exitItem = "Exit"

	// rows used above and below the item list
	headerRows = 4
	footerRows = 1
)

// Entry is one selectable section.
type Entry struct {
	ID    string
	Lines []string
}

// Progress supplies the saved offset of a section.
type Progress interface {
	Completion(sectionID string) int
}

// Label formats the entry as "<id>: <completion>/<line count>".
func (e Entry) Label(p Progress) string {
	return fmt.Sprintf("%s: %d/%d", e.ID, p.Completion(e.ID), len(e.Lines))
}

// Labels formats every entry.
func Labels(entries []Entry, p Progress) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label(p)
	}
	return out
}

// Opener reads a section until the reader is done with it.
type Opener interface {
	OpenSection(sectionID string, lines []string, prior int) error
}

// Terminal is the screen capability the menu draws on.
type Terminal interface {
	viewport.Surface
	ReadKey() (render.Key, error)
	EnterRawMode() error
	ExitRawMode() error
	HideCursor()
	ShowCursor()
}

type styledWriter interface {
	WriteStyled(row, col int, text string, style render.Style)
}

// Menu is the interactive section list.
type Menu struct {
	term     Terminal
	entries  []Entry
	progress Progress
	opener   Opener
	keys     config.Keybindings
	log      *slog.Logger
	notices  *logging.Notices
	book     string

	cursor int // index into entries, len(entries) is the Exit item
	offset int // first item shown
}

// Option configures a Menu.
type Option func(*Menu)

// WithKeybindings sets the letter bindings.
func WithKeybindings(kb config.Keybindings) Option {
	return func(m *Menu) { m.keys = kb }
}

// WithBookTitle shows the book's title under the menu title.
func WithBookTitle(title string) Option {
	return func(m *Menu) { m.book = title }
}

// WithLogger sets the logger and the notices shown on the bottom row.
func WithLogger(log *slog.Logger, notices *logging.Notices) Option {
	return func(m *Menu) {
		m.log = log
		m.notices = notices
	}
}

// New creates a menu over entries.
func New(term Terminal, entries []Entry, progress Progress, opener Opener, opts ...Option) *Menu {
	m := &Menu{
		term:     term,
		entries:  entries,
		progress: progress,
		opener:   opener,
		keys:     config.Default().Keybindings,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cursor returns the index of the highlighted item.
func (m *Menu) Cursor() int {
	return m.cursor
}

func (m *Menu) items() int {
	return len(m.entries) + 1
}

// Run shows the menu until the reader picks Exit or quits.
func (m *Menu) Run() (err error) {
	if err := m.term.EnterRawMode(); err != nil {
		return fmt.Errorf("starting menu: %w", err)
	}
	m.term.HideCursor()
	defer func() {
		m.term.ShowCursor()
		if rerr := m.term.ExitRawMode(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	matcher := config.NewKeyMatcher(m.keys.Actions())
	for {
		if err := m.draw(); err != nil {
			return err
		}
		key, err := m.term.ReadKey()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}

		action := m.action(key, matcher)
		switch action {
		case config.ActionQuit:
			return nil
		case config.ActionSelect:
			if m.cursor == len(m.entries) {
				return nil
			}
			if err := m.open(m.entries[m.cursor]); err != nil {
				return err
			}
			// the reader shows the cursor on its way out
			m.term.HideCursor()
		default:
			m.move(action)
		}
	}
}

func (m *Menu) action(k render.Key, matcher *config.KeyMatcher) config.Action {
	if k.Kind == render.KeyRune {
		return matcher.Match(k.Rune)
	}
	matcher.ClearPending()

	switch k.Kind {
	case render.KeyUp:
		return config.ActionScrollUp
	case render.KeyDown:
		return config.ActionScrollDown
	case render.KeyPageUp:
		return config.ActionHalfPageUp
	case render.KeyPageDown:
		return config.ActionHalfPageDown
	case render.KeyHome:
		return config.ActionGoTop
	case render.KeyEnd:
		return config.ActionGoBottom
	case render.KeyEnter, render.KeyRight:
		return config.ActionSelect
	case render.KeyCtrlC:
		return config.ActionQuit
	}
	return config.ActionNone
}

func (m *Menu) move(action config.Action) {
	page := max(1, m.listRows()/2)
	switch action {
	case config.ActionScrollUp:
		m.cursor--
	case config.ActionScrollDown:
		m.cursor++
	case config.ActionHalfPageUp:
		m.cursor -= page
	case config.ActionHalfPageDown:
		m.cursor += page
	case config.ActionGoTop:
		m.cursor = 0
	case config.ActionGoBottom:
		m.cursor = m.items() - 1
	}
	m.cursor = max(0, min(m.cursor, m.items()-1))
}

func (m *Menu) open(e Entry) error {
	prior := m.progress.Completion(e.ID)
	m.log.Info("opening section", "section", e.ID, "prior", prior)
	if err := m.opener.OpenSection(e.ID, e.Lines, prior); err != nil {
		return fmt.Errorf("section %s: %w", e.ID, err)
	}
	return nil
}

func (m *Menu) listRows() int {
	rows, _ := m.term.Size()
	return max(1, rows-headerRows-footerRows)
}

// scroll keeps the cursor inside the visible window.
func (m *Menu) scroll() {
	visible := m.listRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(0, min(m.offset, m.items()-visible))
}

func (m *Menu) draw() error {
	rows, cols := m.term.Size()
	m.scroll()

	blank := render.PadRight("", cols)
	for r := 0; r < rows; r++ {
		m.term.WriteAt(r, 0, blank)
	}

	m.writeStyled(0, 1, render.Truncate(Title, cols-1), render.Style{Bold: true})
	if m.book != "" {
		m.writeStyled(1, 1, render.Truncate(m.book, cols-1), render.Style{Dim: true})
	}
	m.term.WriteAt(2, 1, render.Truncate(Subtitle, cols-1))

	labels := Labels(m.entries, m.progress)
	for i := 0; i < m.listRows() && m.offset+i < m.items(); i++ {
		idx := m.offset + i
		text := exitItem
		if idx < len(labels) {
			text = labels[idx]
		}
		line := render.PadRight(render.Truncate(fmt.Sprintf(" %d - %s", idx+1, text), cols), cols)
		if idx == m.cursor {
			m.writeStyled(headerRows+i, 0, line, render.Style{Reverse: true})
		} else {
			m.term.WriteAt(headerRows+i, 0, line)
		}
	}

	if rows > headerRows+footerRows {
		hint := " j/k move  enter open  q quit"
		style := render.Style{Dim: true}
		if notice := m.notices.Last(); notice != "" {
			hint = " ! " + notice
			style = render.Style{}
		}
		m.writeStyled(rows-1, 0, render.Truncate(hint, cols), style)
	}
	return m.term.Refresh()
}

func (m *Menu) writeStyled(row, col int, text string, style render.Style) {
	if sw, ok := m.term.(styledWriter); ok {
		sw.WriteStyled(row, col, text, style)
		return
	}
	m.term.WriteAt(row, col, text)
}
