package input

// Role of a named code in the decode rule table
type role uint8

const (
	roleMouse role = iota
	roleBackspace
	roleDelete
	roleTab
	roleEnter
	roleNav
)

// namedCode lists the constant names a binding may publish for one key,
// and the ncurses value assumed when none of them is published
type namedCode struct {
	role     role
	key      Key
	names    []string
	fallback int
}

// ncurses key values
const (
	cursesKeyDown      = 258
	cursesKeyUp        = 259
	cursesKeyLeft      = 260
	cursesKeyRight     = 261
	cursesKeyHome      = 262
	cursesKeyBackspace = 263
	cursesKeyF0        = 264
	cursesKeyDC        = 330
	cursesKeyIC        = 331
	cursesKeyNPage     = 338
	cursesKeyPPage     = 339
	cursesKeyEnter     = 343
	cursesKeyBTab      = 353
	cursesKeyEnd       = 360
	cursesKeyMouse     = 409
)

var namedCodes = buildNamedCodes()

func buildNamedCodes() []namedCode {
	codes := []namedCode{
		{roleMouse, KeyNone, []string{"KEY_MOUSE", "KeyMouse", "Mouse"}, cursesKeyMouse},
		{roleBackspace, KeyBackspace, []string{"KEY_BACKSPACE", "KeyBackspace", "Backspace"}, cursesKeyBackspace},
		{roleDelete, KeyDelete, []string{"KEY_DC", "KeyDelete", "Delete"}, cursesKeyDC},
		{roleTab, KeyTab, []string{"KEY_TAB", "KeyTab", "Tab"}, 9},
		{roleEnter, KeyEnter, []string{"KEY_ENTER", "KeyEnter", "Enter"}, cursesKeyEnter},

		{roleNav, KeyUp, []string{"KEY_UP", "KeyUp", "Up"}, cursesKeyUp},
		{roleNav, KeyDown, []string{"KEY_DOWN", "KeyDown", "Down"}, cursesKeyDown},
		{roleNav, KeyLeft, []string{"KEY_LEFT", "KeyLeft", "Left"}, cursesKeyLeft},
		{roleNav, KeyRight, []string{"KEY_RIGHT", "KeyRight", "Right"}, cursesKeyRight},
		{roleNav, KeyHome, []string{"KEY_HOME", "KeyHome", "Home"}, cursesKeyHome},
		{roleNav, KeyEnd, []string{"KEY_END", "KeyEnd", "End"}, cursesKeyEnd},
		{roleNav, KeyPageUp, []string{"KEY_PPAGE", "KeyPgUp", "PageUp"}, cursesKeyPPage},
		{roleNav, KeyPageDown, []string{"KEY_NPAGE", "KeyPgDn", "PageDown"}, cursesKeyNPage},
		{roleNav, KeyInsert, []string{"KEY_IC", "KeyInsert", "Insert"}, cursesKeyIC},
		{roleNav, KeyBacktab, []string{"KEY_BTAB", "KeyBacktab", "Backtab"}, cursesKeyBTab},
	}
	for i := 0; i < 12; i++ {
		n := Key(i) + KeyF1
		name := n.String()
		codes = append(codes, namedCode{
			role:     roleNav,
			key:      n,
			names:    []string{"KEY_" + name, "Key" + name, name},
			fallback: cursesKeyF0 + i + 1,
		})
	}
	return codes
}

// KeyTable holds the named codes resolved for one binding
type KeyTable struct {
	Mouse     int
	Backspace int
	Delete    int
	Tab       int
	Enter     int

	nav map[int]Key

	// Fallbacks lists names for which no published constant was found
	Fallbacks []string
}

// ResolveKeyTable looks up each named code in the published constants,
// falling back to the ncurses value when no expected name is present
func ResolveKeyTable(consts map[string]int) KeyTable {
	t := KeyTable{nav: make(map[int]Key)}

	for _, nc := range namedCodes {
		code, found := nc.fallback, false
		for _, name := range nc.names {
			if v, ok := consts[name]; ok {
				code, found = v, true
				break
			}
		}
		if !found {
			t.Fallbacks = append(t.Fallbacks, nc.names[0])
		}

		switch nc.role {
		case roleMouse:
			t.Mouse = code
		case roleBackspace:
			t.Backspace = code
		case roleDelete:
			t.Delete = code
		case roleTab:
			t.Tab = code
		case roleEnter:
			t.Enter = code
		case roleNav:
			if _, dup := t.nav[code]; !dup {
				t.nav[code] = nc.key
			}
		}
	}
	return t
}

// Nav returns the navigation key bound to code
func (t KeyTable) Nav(code int) (Key, bool) {
	k, ok := t.nav[code]
	return k, ok
}

// shiftedPunct are the punctuation bytes that require Shift on a US layout
var shiftedPunct = [128]bool{':': true, '<': true, '>': true, '?': true, '@': true, '^': true, '_': true, '~': true}

// decode applies the rule table to one code
// paired marks the second half of an ESC-prefixed pair
func (t KeyTable) decode(code int, paired bool) Event {
	var alt Modifier
	if paired {
		alt = ModAlt
	}

	switch {
	case code == t.Backspace:
		return KeyboardEvent(8, code, alt)
	case code == t.Delete:
		return KeyboardEvent(127, code, alt)
	case code == t.Tab:
		return KeyboardEvent(9, code, alt)
	case code == t.Enter, code == 10, code == 13:
		return KeyboardEvent(13, code, alt)
	case code == 27 && paired:
		return KeyboardEvent(27, code, ModAlt)
	case (code >= 1 && code <= 8) || (code >= 11 && code <= 26):
		return KeyboardEvent(rune(code+96), code, ModCtrl|alt)
	case code >= 32 && code <= 126:
		ev := KeyboardEvent(rune(code), code, alt)
		if paired && ((code >= 'A' && code <= 'Z') || shiftedPunct[code]) {
			ev.Mods |= ModShift
		}
		return ev
	}

	if k, ok := t.nav[code]; ok {
		return NamedKeyEvent(k, code, alt)
	}
	return KeyboardEvent(0, code, ModNone)
}
