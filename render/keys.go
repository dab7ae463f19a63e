package render

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"
)

// KeyKind identifies a decoded key press.
type KeyKind int

const (
	KeyUnknown KeyKind = iota
	KeyRune            // printable character, see Key.Rune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyCtrlC
)

var keyNames = map[KeyKind]string{
	KeyUnknown:   "unknown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeyBackspace: "backspace",
	KeyCtrlC:     "ctrl-c",
}

// Key is one input event.
type Key struct {
	Kind KeyKind
	Rune rune
}

// RuneKey returns the key for a printable character.
func RuneKey(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

func (k Key) String() string {
	if k.Kind == KeyRune {
		return string(k.Rune)
	}
	if name, ok := keyNames[k.Kind]; ok {
		return name
	}
	return fmt.Sprintf("KeyKind(%d)", int(k.Kind))
}

// KeyReader decodes key presses from a raw-mode byte stream.
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader wraps r.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until a full key has been read.
func (kr *KeyReader) ReadKey() (Key, error) {
	b, err := kr.r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch {
	case b == 0x1b:
		return kr.readEscape(), nil
	case b == '\r' || b == '\n':
		return Key{Kind: KeyEnter}, nil
	case b == 0x7f || b == 0x08:
		return Key{Kind: KeyBackspace}, nil
	case b == 0x03:
		return Key{Kind: KeyCtrlC}, nil
	case b < 0x20:
		return Key{Kind: KeyUnknown}, nil
	case b < utf8.RuneSelf:
		return RuneKey(rune(b)), nil
	}

	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		next, err := kr.r.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, next)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return Key{Kind: KeyUnknown}, nil
	}
	return RuneKey(r), nil
}

// readEscape decodes the rest of an escape sequence. A lone ESC with
// nothing buffered behind it is the Escape key.
func (kr *KeyReader) readEscape() Key {
	if kr.r.Buffered() == 0 {
		return Key{Kind: KeyEscape}
	}
	next, err := kr.r.ReadByte()
	if err != nil {
		return Key{Kind: KeyEscape}
	}

	switch next {
	case '[':
		return kr.readCSI()
	case 'O':
		final, err := kr.r.ReadByte()
		if err != nil {
			return Key{Kind: KeyEscape}
		}
		return finalKey(final)
	}
	return Key{Kind: KeyEscape}
}

func (kr *KeyReader) readCSI() Key {
	var seq []byte
	for {
		b, err := kr.r.ReadByte()
		if err != nil {
			return Key{Kind: KeyEscape}
		}
		seq = append(seq, b)
		if (b >= 'A' && b <= 'Z') || b == '~' {
			break
		}
		if len(seq) > 5 {
			return Key{Kind: KeyUnknown}
		}
	}

	final := seq[len(seq)-1]
	if final != '~' {
		return finalKey(final)
	}
	switch string(seq[:len(seq)-1]) {
	case "1", "7":
		return Key{Kind: KeyHome}
	case "4", "8":
		return Key{Kind: KeyEnd}
	case "5":
		return Key{Kind: KeyPageUp}
	case "6":
		return Key{Kind: KeyPageDown}
	}
	return Key{Kind: KeyUnknown}
}

func finalKey(b byte) Key {
	switch b {
	case 'A':
		return Key{Kind: KeyUp}
	case 'B':
		return Key{Kind: KeyDown}
	case 'C':
		return Key{Kind: KeyRight}
	case 'D':
		return Key{Kind: KeyLeft}
	case 'H':
		return Key{Kind: KeyHome}
	case 'F':
		return Key{Kind: KeyEnd}
	}
	return Key{Kind: KeyUnknown}
}
