package input

import (
	"fmt"
	"strings"
)

// Kind distinguishes input event categories
type Kind uint8

const (
	KindNone Kind = iota
	KindKeyboard
	KindMouse
	KindResize
)

// String returns human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindKeyboard:
		return "Keyboard"
	case KindMouse:
		return "Mouse"
	case KindResize:
		return "Resize"
	default:
		return "None"
	}
}

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// Has reports whether every flag in o is set
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// String renders modifiers as "Ctrl+Alt+Shift" order
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// Key names keys that have no printable character
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Character-bearing key (check Event.Char)

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyRune:      "Rune",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyInsert:    "Insert",
}

// String returns the key name
func (k Key) String() string {
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "None"
}

// keyForChar classifies a decoded character
func keyForChar(ch rune) Key {
	switch ch {
	case 0:
		return KeyNone
	case 8:
		return KeyBackspace
	case 9:
		return KeyTab
	case 13:
		return KeyEnter
	case 27:
		return KeyEscape
	case 127:
		return KeyDelete
	default:
		return KeyRune
	}
}

// Event is the normalized input event
// Kind selects which field group is meaningful
type Event struct {
	Kind Kind

	// Keyboard
	Char rune     // Decoded character, 0 for non-character keys
	Code int      // Backend-native code the event was decoded from
	Mods Modifier // Active modifiers
	Key  Key      // Named key, KeyRune for character keys

	// Mouse
	X, Y    int
	Buttons uint32 // Backend button state, 0 when not reported
	Pressed bool   // A button was down (click-style event)

	// Resize
	Width  int
	Height int

	// Handled is set by observers to stop further dispatch
	Handled bool
}

// KeyboardEvent builds a keyboard event, deriving the named key from the character
func KeyboardEvent(ch rune, code int, mods Modifier) Event {
	return Event{Kind: KindKeyboard, Char: ch, Code: code, Mods: mods, Key: keyForChar(ch)}
}

// NamedKeyEvent builds a keyboard event for a key without a character
func NamedKeyEvent(k Key, code int, mods Modifier) Event {
	return Event{Kind: KindKeyboard, Code: code, Mods: mods, Key: k}
}

// MouseEvent builds a mouse event
func MouseEvent(x, y int, buttons uint32) Event {
	return Event{Kind: KindMouse, X: x, Y: y, Buttons: buttons, Pressed: buttons != 0}
}

// ResizeEvent builds a resize event
func ResizeEvent(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// IsNull reports a keyboard event that decoded to nothing
func (e Event) IsNull() bool {
	return e.Kind == KindKeyboard && e.Char == 0 && e.Key == KeyNone
}

// String returns a compact description for logs
func (e Event) String() string {
	switch e.Kind {
	case KindKeyboard:
		name := e.Key.String()
		if e.Key == KeyRune {
			name = fmt.Sprintf("%q", e.Char)
		}
		if e.Mods != ModNone {
			name = e.Mods.String() + "+" + name
		}
		return fmt.Sprintf("Keyboard %s (code %d)", name, e.Code)
	case KindMouse:
		return fmt.Sprintf("Mouse %d,%d pressed=%v", e.X, e.Y, e.Pressed)
	case KindResize:
		return fmt.Sprintf("Resize %dx%d", e.Width, e.Height)
	default:
		return "None"
	}
}
