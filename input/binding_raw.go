package input

import (
	"maps"

	"github.com/sirupsen/logrus"
)

// ByteSource is a non-blocking byte stream from the terminal
type ByteSource interface {
	Open() error
	Close()

	// ReadAvailable returns whatever bytes are pending, nil when none
	ReadAvailable() ([]byte, error)

	Size() (width, height int)
}

// RawBinding translates raw tty bytes into ncurses-valued key codes
type RawBinding struct {
	src ByteSource
	pad keypad
	log logrus.FieldLogger

	failed bool
}

// NewRawBinding wraps a byte source
func NewRawBinding(src ByteSource, log logrus.FieldLogger) *RawBinding {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RawBinding{src: src, log: log}
}

func (b *RawBinding) Init() error {
	return b.src.Open()
}

func (b *RawBinding) Fini() {
	b.src.Close()
}

func (b *RawBinding) Size() (int, int) {
	return b.src.Size()
}

// Constants publishes the ncurses key names
func (b *RawBinding) Constants() map[string]int {
	return maps.Clone(CursesConstants)
}

// MousePosition returns the last SGR mouse report
func (b *RawBinding) MousePosition() (int, int, bool) {
	return b.pad.mouseX, b.pad.mouseY, b.pad.mouseOK
}

// ReadCode returns the next translated code, reading the source only when the queue is empty
func (b *RawBinding) ReadCode() (int, bool) {
	if code, ok := b.pad.next(); ok {
		return code, true
	}

	data, err := b.src.ReadAvailable()
	if err != nil {
		// Logged once; a dead source reads as idle
		if !b.failed {
			b.log.WithError(err).Warn("input: tty read failed")
			b.failed = true
		}
		return 0, false
	}

	if len(data) == 0 {
		b.pad.flush()
	} else {
		b.pad.feed(data)
	}
	return b.pad.next()
}
