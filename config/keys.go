package config

import "strings"

// Action names a bindable command.
type Action string

const (
	ActionNone         Action = ""
	ActionQuit         Action = "quit"
	ActionScrollUp     Action = "scrollUp"
	ActionScrollDown   Action = "scrollDown"
	ActionScrollLeft   Action = "scrollLeft"
	ActionScrollRight  Action = "scrollRight"
	ActionHalfPageDown Action = "halfPageDown"
	ActionHalfPageUp   Action = "halfPageUp"
	ActionGoTop        Action = "goTop"
	ActionGoBottom     Action = "goBottom"
	ActionSelect       Action = "select"
)

// Actions maps each configured key sequence to its action. Empty
// bindings are skipped; when two actions share a sequence the first
// listed here wins.
func (kb Keybindings) Actions() map[string]Action {
	m := make(map[string]Action)
	add := func(seq string, a Action) {
		if seq == "" {
			return
		}
		if _, taken := m[seq]; !taken {
			m[seq] = a
		}
	}
	add(kb.Quit, ActionQuit)
	add(kb.ScrollUp, ActionScrollUp)
	add(kb.ScrollDown, ActionScrollDown)
	add(kb.ScrollLeft, ActionScrollLeft)
	add(kb.ScrollRight, ActionScrollRight)
	add(kb.HalfPageDown, ActionHalfPageDown)
	add(kb.HalfPageUp, ActionHalfPageUp)
	add(kb.GoTop, ActionGoTop)
	add(kb.GoBottom, ActionGoBottom)
	add(kb.Select, ActionSelect)
	return m
}

// KeyMatcher helps match typed runes against configured keybindings.
type KeyMatcher struct {
	bindings map[string]Action
	pending  string // Accumulated prefix (e.g., "g" waiting for second key)
}

// NewKeyMatcher creates a matcher for the given bindings.
func NewKeyMatcher(bindings map[string]Action) *KeyMatcher {
	return &KeyMatcher{bindings: bindings}
}

// Match feeds one rune and returns the action once a full binding has
// been typed. A rune that starts a longer binding is held as pending.
func (km *KeyMatcher) Match(r rune) Action {
	seq := km.pending + string(r)
	if a, ok := km.bindings[seq]; ok {
		km.pending = ""
		return a
	}
	if km.startsBinding(seq) {
		km.pending = seq
		return ActionNone
	}
	if km.pending != "" {
		// Abandon the prefix and try the rune on its own.
		km.pending = ""
		return km.Match(r)
	}
	return ActionNone
}

func (km *KeyMatcher) startsBinding(prefix string) bool {
	for seq := range km.bindings {
		if len(seq) > len(prefix) && strings.HasPrefix(seq, prefix) {
			return true
		}
	}
	return false
}

// ClearPending clears any pending prefix.
func (km *KeyMatcher) ClearPending() {
	km.pending = ""
}
