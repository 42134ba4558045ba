package input

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// tcellMouseCode sits above every tcell key value
const tcellMouseCode = 0x10000

// TcellBinding adapts a terminfo-driven tcell screen into the key code stream
// A reader goroutine forwards tcell events; ReadCode drains them without blocking
type TcellBinding struct {
	screen tcell.Screen
	owned  bool

	events chan tcell.Event
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	queue   []int
	mouseX  int
	mouseY  int
	mouseOK bool
}

// NewTcellBinding wraps screen; a nil screen is created from the environment at Init
func NewTcellBinding(screen tcell.Screen) *TcellBinding {
	return &TcellBinding{
		screen: screen,
		events: make(chan tcell.Event, 64),
	}
}

// Screen returns the underlying tcell screen, nil before Init when none was supplied
func (b *TcellBinding) Screen() tcell.Screen {
	return b.screen
}

func (b *TcellBinding) Init() error {
	if b.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("input: tcell screen: %w", err)
		}
		b.screen = s
		b.owned = true
	}
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("input: tcell init: %w", err)
	}
	b.screen.EnableMouse()

	b.stopCh = make(chan struct{})
	b.doneCh = make(chan struct{})
	go b.readLoop()
	return nil
}

func (b *TcellBinding) readLoop() {
	defer close(b.doneCh)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.stopCh:
			return
		}
	}
}

// Fini finalizes the screen, which unblocks the reader
func (b *TcellBinding) Fini() {
	if b.stopCh == nil {
		return
	}
	close(b.stopCh)
	b.screen.Fini()

	select {
	case <-b.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
	b.stopCh = nil
}

func (b *TcellBinding) Size() (int, int) {
	if b.screen == nil {
		return 80, 24
	}
	return b.screen.Size()
}

// Constants publishes tcell key values under Key* names
func (b *TcellBinding) Constants() map[string]int {
	m := map[string]int{
		"KeyMouse":     tcellMouseCode,
		"KeyBackspace": int(tcell.KeyBackspace2),
		"KeyDelete":    int(tcell.KeyDelete),
		"KeyTab":       int(tcell.KeyTab),
		"KeyEnter":     int(tcell.KeyEnter),
		"KeyUp":        int(tcell.KeyUp),
		"KeyDown":      int(tcell.KeyDown),
		"KeyLeft":      int(tcell.KeyLeft),
		"KeyRight":     int(tcell.KeyRight),
		"KeyHome":      int(tcell.KeyHome),
		"KeyEnd":       int(tcell.KeyEnd),
		"KeyPgUp":      int(tcell.KeyPgUp),
		"KeyPgDn":      int(tcell.KeyPgDn),
		"KeyInsert":    int(tcell.KeyInsert),
		"KeyBacktab":   int(tcell.KeyBacktab),
	}
	fkeys := []tcell.Key{
		tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6,
		tcell.KeyF7, tcell.KeyF8, tcell.KeyF9, tcell.KeyF10, tcell.KeyF11, tcell.KeyF12,
	}
	for i, k := range fkeys {
		m[fmt.Sprintf("KeyF%d", i+1)] = int(k)
	}
	return m
}

func (b *TcellBinding) MousePosition() (int, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouseX, b.mouseY, b.mouseOK
}

// ReadCode translates at most one pending tcell event per empty queue
func (b *TcellBinding) ReadCode() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		select {
		case ev := <-b.events:
			b.translate(ev)
		default:
		}
	}
	if len(b.queue) == 0 {
		return 0, false
	}
	code := b.queue[0]
	b.queue = b.queue[1:]
	return code, true
}

// translate converts one tcell event into codes; caller holds mu
func (b *TcellBinding) translate(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		mods := ev.Modifiers()
		k := ev.Key()
		code := int(k)
		if k == tcell.KeyRune {
			r := ev.Rune()
			if r >= 128 {
				return
			}
			code = int(r)
			if mods&tcell.ModCtrl != 0 && r >= 'a' && r <= 'z' {
				code = int(r - 'a' + 1)
			}
		} else if k == tcell.KeyBackspace {
			// Both backspace forms decode through the published KeyBackspace
			code = int(tcell.KeyBackspace2)
		}
		if mods&tcell.ModAlt != 0 {
			b.queue = append(b.queue, escapeCode)
		}
		b.queue = append(b.queue, code)

	case *tcell.EventMouse:
		x, y := ev.Position()
		b.mouseX, b.mouseY, b.mouseOK = x, y, true
		if ev.Buttons()&(tcell.Button1|tcell.Button2|tcell.Button3|tcell.WheelUp|tcell.WheelDown) != 0 {
			b.queue = append(b.queue, tcellMouseCode)
		}
	}
}
