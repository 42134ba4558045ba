package input

import (
	"time"

	"github.com/sirupsen/logrus"
)

// escapeCode is the ESC byte as delivered by a binding
const escapeCode = 27

// CursesDecoder turns a stream of binding codes into events
// A lone ESC is held in a single pending flag until the next code arrives
// or the escape timeout lapses on an empty poll
type CursesDecoder struct {
	keys    KeyTable
	timeout time.Duration
	now     func() time.Time

	pending bool
	since   time.Time
}

// NewCursesDecoder creates a decoder; timeout <= 0 holds a pending ESC indefinitely
func NewCursesDecoder(keys KeyTable, timeout time.Duration) *CursesDecoder {
	return &CursesDecoder{keys: keys, timeout: timeout, now: time.Now}
}

// Pending reports whether an ESC is being held
func (d *CursesDecoder) Pending() bool {
	return d.pending
}

// Keys returns the resolved key table
func (d *CursesDecoder) Keys() KeyTable {
	return d.keys
}

// hold marks an ESC as pending
func (d *CursesDecoder) hold() {
	d.pending = true
	d.since = d.now()
}

// expire delivers the held ESC once the timeout has lapsed
func (d *CursesDecoder) expire() (Event, bool) {
	if !d.pending || d.timeout <= 0 {
		return Event{}, false
	}
	if d.now().Sub(d.since) < d.timeout {
		return Event{}, false
	}
	d.pending = false
	return KeyboardEvent(escapeCode, escapeCode, ModNone), true
}

// pair decodes the code following a held ESC
func (d *CursesDecoder) pair(code int) Event {
	d.pending = false
	return d.keys.decode(code, true)
}

// Single decodes a code with no escape context
func (d *CursesDecoder) Single(code int) Event {
	return d.keys.decode(code, false)
}

// CursesBackend reads codes from a Binding and decodes them into events
type CursesBackend struct {
	binding Binding
	dec     *CursesDecoder
	log     logrus.FieldLogger
}

// NewCursesBackend resolves the binding's key table once and wraps it
func NewCursesBackend(b Binding, timeout time.Duration, log logrus.FieldLogger) *CursesBackend {
	if log == nil {
		log = logrus.StandardLogger()
	}
	keys := ResolveKeyTable(b.Constants())
	if len(keys.Fallbacks) > 0 {
		log.WithField("names", keys.Fallbacks).Debug("input: key constants not published, using ncurses defaults")
	}
	return &CursesBackend{
		binding: b,
		dec:     NewCursesDecoder(keys, timeout),
		log:     log,
	}
}

// Decoder exposes the decoder state
func (c *CursesBackend) Decoder() *CursesDecoder {
	return c.dec
}

func (c *CursesBackend) Init() error {
	return c.binding.Init()
}

func (c *CursesBackend) Fini() {
	c.binding.Fini()
}

func (c *CursesBackend) Size() (int, int) {
	return c.binding.Size()
}

// Poll reads at most one logical key from the binding
func (c *CursesBackend) Poll() (Event, bool) {
	code, ok := c.binding.ReadCode()
	if !ok {
		return c.dec.expire()
	}

	if code == c.dec.keys.Mouse {
		return c.mouse(), true
	}

	if c.dec.pending {
		return c.dec.pair(code), true
	}

	if code != escapeCode {
		return c.dec.Single(code), true
	}

	next, ok := c.binding.ReadCode()
	if !ok {
		c.dec.hold()
		return Event{}, false
	}
	if next == c.dec.keys.Mouse {
		c.dec.hold()
		return c.mouse(), true
	}
	return c.dec.pair(next), true
}

// mouse resolves the position of a mouse sentinel, (0,0) when unavailable
func (c *CursesBackend) mouse() Event {
	x, y, ok := c.binding.MousePosition()
	if !ok {
		x, y = 0, 0
	}
	ev := MouseEvent(x, y, 0)
	ev.Pressed = ok
	return ev
}
