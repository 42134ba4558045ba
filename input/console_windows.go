//go:build windows

package input

import (
	"encoding/binary"
	"os"

	"github.com/erikgeiser/coninput"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// ConsoleBackend reads native console input records
type ConsoleBackend struct {
	handle windows.Handle
	mode   uint32
	saved  bool
	log    logrus.FieldLogger
}

// NewConsoleBackend creates a backend over the process console input handle
func NewConsoleBackend(log logrus.FieldLogger) *ConsoleBackend {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ConsoleBackend{log: log}
}

// Init switches the console to window and mouse input with quick-edit off
// A failing mode query proceeds with the console defaults
func (b *ConsoleBackend) Init() error {
	h, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return ErrNotTerminal
	}
	b.handle = h

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		b.log.WithError(err).Debug("input: console mode query failed, using defaults")
		return nil
	}
	b.mode = mode
	b.saved = true

	newMode := mode | windows.ENABLE_WINDOW_INPUT | windows.ENABLE_MOUSE_INPUT | windows.ENABLE_EXTENDED_FLAGS
	newMode &^= windows.ENABLE_QUICK_EDIT_MODE | windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT | windows.ENABLE_PROCESSED_INPUT
	if err := windows.SetConsoleMode(h, newMode); err != nil {
		b.log.WithError(err).Debug("input: console mode update failed")
	}
	return nil
}

func (b *ConsoleBackend) Fini() {
	if b.saved {
		_ = windows.SetConsoleMode(b.handle, b.mode)
		b.saved = false
	}
}

func (b *ConsoleBackend) Size() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24
	}
	return w, h
}

// Poll peeks for one record and consumes it only when present
func (b *ConsoleBackend) Poll() (Event, bool) {
	recs, err := coninput.PeekNConsoleInputs(b.handle, 1)
	if err != nil || len(recs) == 0 {
		return Event{}, false
	}
	recs, err = coninput.ReadNConsoleInputs(b.handle, 1)
	if err != nil || len(recs) == 0 {
		return Event{}, false
	}
	return DecodeConsoleRecord(packRecord(recs[0]))
}

// packRecord restores the native INPUT_RECORD byte layout
func packRecord(rec coninput.InputRecord) []byte {
	buf := make([]byte, RecordSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(rec.EventType))
	copy(buf[4:], rec.Event[:])
	return buf
}
