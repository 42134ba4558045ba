package input

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNotTerminal is returned when input is not attached to a terminal
var ErrNotTerminal = errors.New("input: not a terminal")

// Binding is the narrow capability set a curses-style key source provides
type Binding interface {
	Init() error
	Fini()

	// ReadCode returns the next pending key code without blocking
	ReadCode() (code int, ok bool)

	// Constants returns the named key codes the binding publishes
	Constants() map[string]int

	// MousePosition returns the position of the last mouse report
	MousePosition() (x, y int, ok bool)

	Size() (width, height int)
}

// Backend produces normalized events for a session
type Backend interface {
	Init() error
	Fini()

	// Poll returns one event if any is available, never blocking
	Poll() (Event, bool)

	Size() (width, height int)
}

// Binding names accepted by NewBackend
const (
	BindingRaw   = "raw"
	BindingTcell = "tcell"
)

// DefaultEscapeTimeout is how long a lone ESC is held before delivery
const DefaultEscapeTimeout = 50 * time.Millisecond

// Options configures platform backend construction
type Options struct {
	Binding       string
	EscapeTimeout time.Duration
	Logger        logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}
