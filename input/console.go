package input

import (
	"encoding/binary"
)

// Console input record layout (INPUT_RECORD): a 16-bit event tag padded to 4 bytes,
// followed by a 16-byte event union
const (
	RecordSize = 20

	RecordKey        uint16 = 0x0001
	RecordMouse      uint16 = 0x0002
	RecordBufferSize uint16 = 0x0004
	RecordMenu       uint16 = 0x0008
	RecordFocus      uint16 = 0x0010
)

// Control key state bits
const (
	rightAltPressed  uint32 = 0x0001
	leftAltPressed   uint32 = 0x0002
	rightCtrlPressed uint32 = 0x0004
	leftCtrlPressed  uint32 = 0x0008
	shiftPressed     uint32 = 0x0010
)

// Virtual key codes for keys that carry no character
var virtualKeys = map[uint16]Key{
	0x21: KeyPageUp,
	0x22: KeyPageDown,
	0x23: KeyEnd,
	0x24: KeyHome,
	0x25: KeyLeft,
	0x26: KeyUp,
	0x27: KeyRight,
	0x28: KeyDown,
	0x2D: KeyInsert,
	0x2E: KeyDelete,
	0x70: KeyF1,
	0x71: KeyF2,
	0x72: KeyF3,
	0x73: KeyF4,
	0x74: KeyF5,
	0x75: KeyF6,
	0x76: KeyF7,
	0x77: KeyF8,
	0x78: KeyF9,
	0x79: KeyF10,
	0x7A: KeyF11,
	0x7B: KeyF12,
}

// ControlKeyModifiers maps a console control-key-state word onto modifiers
// Bits 0-1 are Alt, bits 2-3 are Ctrl, bit 4 is Shift
func ControlKeyModifiers(state uint32) Modifier {
	var m Modifier
	if state&(rightAltPressed|leftAltPressed) != 0 {
		m |= ModAlt
	}
	if state&(rightCtrlPressed|leftCtrlPressed) != 0 {
		m |= ModCtrl
	}
	if state&shiftPressed != 0 {
		m |= ModShift
	}
	return m
}

// DecodeConsoleRecord translates one raw console input record
// Returns false for records that produce no event: key releases, buffer-size,
// menu and focus records, unknown tags and short buffers
func DecodeConsoleRecord(rec []byte) (Event, bool) {
	if len(rec) < RecordSize {
		return Event{}, false
	}
	le := binary.LittleEndian
	body := rec[4:RecordSize]

	switch le.Uint16(rec[0:2]) {
	case RecordKey:
		// bKeyDown(4) wRepeatCount(2) wVirtualKeyCode(2) wVirtualScanCode(2) uChar(2) dwControlKeyState(4)
		if le.Uint32(body[0:4]) == 0 {
			return Event{}, false
		}
		vk := le.Uint16(body[6:8])
		ch := le.Uint16(body[10:12])
		mods := ControlKeyModifiers(le.Uint32(body[12:16]))

		if ch == 0 {
			if k, ok := virtualKeys[vk]; ok {
				return NamedKeyEvent(k, int(vk), mods), true
			}
		}
		return KeyboardEvent(rune(ch), int(ch), mods), true

	case RecordMouse:
		// dwMousePosition(2+2) dwButtonState(4) dwControlKeyState(4) dwEventFlags(4)
		x := int(int16(le.Uint16(body[0:2])))
		y := int(int16(le.Uint16(body[2:4])))
		ev := MouseEvent(x, y, le.Uint32(body[4:8]))
		ev.Mods = ControlKeyModifiers(le.Uint32(body[8:12]))
		return ev, true

	default:
		return Event{}, false
	}
}

// EncodeKeyRecord builds a raw key record, used to feed the decoder
func EncodeKeyRecord(down bool, vk, ch uint16, state uint32) []byte {
	rec := make([]byte, RecordSize)
	le := binary.LittleEndian
	le.PutUint16(rec[0:2], RecordKey)
	if down {
		le.PutUint32(rec[4:8], 1)
	}
	le.PutUint16(rec[8:10], 1)
	le.PutUint16(rec[10:12], vk)
	le.PutUint16(rec[14:16], ch)
	le.PutUint32(rec[16:20], state)
	return rec
}

// EncodeMouseRecord builds a raw mouse record
func EncodeMouseRecord(x, y int16, buttons, state uint32) []byte {
	rec := make([]byte, RecordSize)
	le := binary.LittleEndian
	le.PutUint16(rec[0:2], RecordMouse)
	le.PutUint16(rec[4:6], uint16(x))
	le.PutUint16(rec[6:8], uint16(y))
	le.PutUint32(rec[8:12], buttons)
	le.PutUint32(rec[12:16], state)
	return rec
}
