package input

// Keypad translation for the raw tty binding: escape sequences from the
// terminal become single ncurses-valued codes, the way curses keypad mode does

// keyCodes maps navigation keys onto ncurses values
var keyCodes = map[Key]int{
	KeyUp:        cursesKeyUp,
	KeyDown:      cursesKeyDown,
	KeyLeft:      cursesKeyLeft,
	KeyRight:     cursesKeyRight,
	KeyHome:      cursesKeyHome,
	KeyEnd:       cursesKeyEnd,
	KeyPageUp:    cursesKeyPPage,
	KeyPageDown:  cursesKeyNPage,
	KeyInsert:    cursesKeyIC,
	KeyDelete:    cursesKeyDC,
	KeyBacktab:   cursesKeyBTab,
	KeyEnter:     cursesKeyEnter,
	KeyBackspace: cursesKeyBackspace,
}

// CursesConstants are the names the raw binding publishes
var CursesConstants = buildCursesConstants()

func buildCursesConstants() map[string]int {
	m := map[string]int{
		"KEY_MOUSE":     cursesKeyMouse,
		"KEY_BACKSPACE": cursesKeyBackspace,
		"KEY_DC":        cursesKeyDC,
		"KEY_ENTER":     cursesKeyEnter,
		"KEY_UP":        cursesKeyUp,
		"KEY_DOWN":      cursesKeyDown,
		"KEY_LEFT":      cursesKeyLeft,
		"KEY_RIGHT":     cursesKeyRight,
		"KEY_HOME":      cursesKeyHome,
		"KEY_END":       cursesKeyEnd,
		"KEY_PPAGE":     cursesKeyPPage,
		"KEY_NPAGE":     cursesKeyNPage,
		"KEY_IC":        cursesKeyIC,
		"KEY_BTAB":      cursesKeyBTab,
	}
	for i := 0; i < 12; i++ {
		m["KEY_"+(KeyF1+Key(i)).String()] = cursesKeyF0 + i + 1
	}
	return m
}

// escapeSequence maps the bytes after the introducer to a key
type escapeSequence struct {
	seq string
	key Key
}

// CSI sequences (ESC [ ...); modified arrow forms collapse to the plain key
var csiSequences = []escapeSequence{
	{"A", KeyUp},
	{"B", KeyDown},
	{"C", KeyRight},
	{"D", KeyLeft},
	{"Z", KeyBacktab},

	{"1;2A", KeyUp},
	{"1;2B", KeyDown},
	{"1;2C", KeyRight},
	{"1;2D", KeyLeft},
	{"1;3A", KeyUp},
	{"1;3B", KeyDown},
	{"1;3C", KeyRight},
	{"1;3D", KeyLeft},
	{"1;5A", KeyUp},
	{"1;5B", KeyDown},
	{"1;5C", KeyRight},
	{"1;5D", KeyLeft},

	{"H", KeyHome},
	{"F", KeyEnd},
	{"1~", KeyHome},
	{"4~", KeyEnd},
	{"7~", KeyHome},
	{"8~", KeyEnd},
	{"5~", KeyPageUp},
	{"6~", KeyPageDown},
	{"2~", KeyInsert},
	{"3~", KeyDelete},

	{"11~", KeyF1},
	{"12~", KeyF2},
	{"13~", KeyF3},
	{"14~", KeyF4},
	{"15~", KeyF5},
	{"17~", KeyF6},
	{"18~", KeyF7},
	{"19~", KeyF8},
	{"20~", KeyF9},
	{"21~", KeyF10},
	{"23~", KeyF11},
	{"24~", KeyF12},

	{"[A", KeyF1},
	{"[B", KeyF2},
	{"[C", KeyF3},
	{"[D", KeyF4},
	{"[E", KeyF5},
}

// SS3 sequences (ESC O ...)
var ss3Sequences = []escapeSequence{
	{"A", KeyUp},
	{"B", KeyDown},
	{"C", KeyRight},
	{"D", KeyLeft},
	{"H", KeyHome},
	{"F", KeyEnd},
	{"M", KeyEnter},
	{"P", KeyF1},
	{"Q", KeyF2},
	{"R", KeyF3},
	{"S", KeyF4},
}

var (
	csiMap = buildSequenceMap(csiSequences)
	ss3Map = buildSequenceMap(ss3Sequences)
)

func buildSequenceMap(seqs []escapeSequence) map[string]int {
	m := make(map[string]int, len(seqs))
	for _, s := range seqs {
		if code, ok := keyCodes[s.key]; ok {
			m[s.seq] = code
			continue
		}
		if s.key >= KeyF1 && s.key <= KeyF12 {
			m[s.seq] = cursesKeyF0 + int(s.key-KeyF1) + 1
		}
	}
	return m
}

// keypad accumulates raw tty bytes and emits translated codes
type keypad struct {
	buf   []byte
	codes []int

	mouseX, mouseY int
	mouseOK        bool
}

// feed appends bytes and translates every complete sequence
func (k *keypad) feed(data []byte) {
	k.buf = append(k.buf, data...)
	consumed := k.parse(k.buf)
	if consumed >= len(k.buf) {
		k.buf = k.buf[:0]
		return
	}
	copy(k.buf, k.buf[consumed:])
	k.buf = k.buf[:len(k.buf)-consumed]
}

// flush releases bytes held as an incomplete sequence as plain codes
// Called when a poll reads nothing, so a lone ESC reaches the decoder
func (k *keypad) flush() {
	for _, b := range k.buf {
		k.push(int(b))
	}
	k.buf = k.buf[:0]
}

func (k *keypad) push(code int) {
	k.codes = append(k.codes, code)
}

// next pops one translated code
func (k *keypad) next() (int, bool) {
	if len(k.codes) == 0 {
		return 0, false
	}
	c := k.codes[0]
	k.codes = k.codes[1:]
	if len(k.codes) == 0 {
		k.codes = k.codes[:0:0]
	}
	return c, true
}

// parse translates data and returns bytes consumed, stopping on an incomplete sequence
func (k *keypad) parse(data []byte) int {
	i := 0
	n := len(data)
	for i < n {
		b := data[i]
		switch {
		case b == 0x1b:
			if i+1 >= n {
				return i
			}
			consumed := k.parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			i += consumed
		case b == 0x7f:
			k.push(cursesKeyBackspace)
			i++
		default:
			k.push(int(b))
			i++
		}
	}
	return i
}

// parseEscape handles ESC-led input; returns 0 when more bytes are needed
func (k *keypad) parseEscape(data []byte) int {
	switch data[1] {
	case '[':
		return k.parseCSI(data)
	case 'O':
		return k.parseSS3(data)
	}
	// ESC followed by any other byte is an Alt pair for the decoder
	k.push(escapeCode)
	return 1
}

func (k *keypad) parseCSI(data []byte) int {
	if len(data) < 3 {
		return 0
	}
	if data[2] == '<' {
		return k.parseSGRMouse(data)
	}

	end := 2
	maxScan := min(len(data), 16)
	terminated := false
	for end < maxScan {
		b := data[end]
		end++
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			terminated = true
			break
		}
		if b < 0x20 || b > 0x7e {
			// Not a CSI after all: hand the ESC to the decoder
			k.push(escapeCode)
			return 1
		}
	}
	if !terminated {
		if maxScan < 16 {
			return 0
		}
		k.push(escapeCode)
		return 1
	}

	if code, ok := csiMap[string(data[2:end])]; ok {
		k.push(code)
	}
	// Unknown sequences are swallowed
	return end
}

func (k *keypad) parseSS3(data []byte) int {
	if len(data) < 3 {
		return 0
	}
	if code, ok := ss3Map[string(data[2:3])]; ok {
		k.push(code)
	}
	return 3
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y M/m
// Presses and drags produce the mouse sentinel; releases only move the position
func (k *keypad) parseSGRMouse(data []byte) int {
	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		if end >= 32 {
			// Runaway report, drop the introducer
			return 3
		}
		return 0
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1
	}
	k.mouseX, k.mouseY, k.mouseOK = x-1, y-1, true
	if data[end] == 'M' && btn&3 != 3 {
		k.push(cursesKeyMouse)
	}
	return end + 1
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 9999 {
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	return btn, x, val, true
}
