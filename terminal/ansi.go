// @focus: #terminal { ansi }
package terminal

import (
	"bufio"

	"github.com/lixenwraith/cellterm/grid"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	// CSI sequences
	csi      = []byte("\x1b[")
	csiReset = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l keeps the cursor at the right edge so a bottom-right write never scrolls
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Mouse reporting: X10 click, button-event drag, SGR extended coordinates
	csiMouseClickOn  = []byte("\x1b[?1000h")
	csiMouseClickOff = []byte("\x1b[?1000l")
	csiMouseDragOn   = []byte("\x1b[?1002h")
	csiMouseDragOff  = []byte("\x1b[?1002l")
	csiMouseSGROn    = []byte("\x1b[?1006h")
	csiMouseSGROff   = []byte("\x1b[?1006l")

	// Color prefixes
	csiFgRGB = []byte("\x1b[38;2;") // followed by R;G;B;m
	csiBgRGB = []byte("\x1b[48;2;") // followed by R;G;B;m

	bel = []byte{0x07}
)

// attrSequences lists style sequences in emission order
var attrSequences = [...]struct {
	attr grid.Attr
	seq  []byte
}{
	{grid.AttrBold, []byte("\x1b[1m")},
	{grid.AttrFaint, []byte("\x1b[2m")},
	{grid.AttrItalic, []byte("\x1b[3m")},
	{grid.AttrUnderline, []byte("\x1b[4m")},
	{grid.AttrBlink, []byte("\x1b[5m")},
	{grid.AttrInverse, []byte("\x1b[7m")},
	{grid.AttrHidden, []byte("\x1b[8m")},
	{grid.AttrStrike, []byte("\x1b[9m")},
}

// CursorShape selects the DECSCUSR cursor style
type CursorShape uint8

const (
	CursorBlinkingBlock CursorShape = iota + 1
	CursorSteadyBlock
	CursorBlinkingUnderline
	CursorSteadyUnderline
	CursorBlinkingBar
	CursorSteadyBar
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [10]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeRGB writes a full truecolor sequence with the given prefix
func writeRGB(w *bufio.Writer, prefix []byte, c grid.RGB) {
	w.Write(prefix)
	writeInt(w, int(c.R))
	w.WriteByte(';')
	writeInt(w, int(c.G))
	w.WriteByte(';')
	writeInt(w, int(c.B))
	w.WriteByte('m')
}

// writeAttrs writes one sequence per set style bit
func writeAttrs(w *bufio.Writer, a grid.Attr) {
	if a == grid.AttrNormal {
		return
	}
	for _, s := range attrSequences {
		if a&s.attr != 0 {
			w.Write(s.seq)
		}
	}
}

// Valid reports whether s is one of the six cursor shapes
func (s CursorShape) Valid() bool {
	return s >= CursorBlinkingBlock && s <= CursorSteadyBar
}

// writeCursorShape writes the cursor shape sequence ESC[Nq
func writeCursorShape(w *bufio.Writer, s CursorShape) {
	w.Write(csi)
	writeInt(w, int(s))
	w.WriteByte('q')
}

// glyphByte maps a cell glyph onto the emitted byte
// Tab, LF and CR pass; other control bytes and anything outside 32-126 become a blank
func glyphByte(g byte) byte {
	switch {
	case g == '\t', g == '\n', g == '\r':
		return g
	case g >= 32 && g <= 126:
		return g
	default:
		return ' '
	}
}
