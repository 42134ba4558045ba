package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lixenwraith/cellterm/grid"
	"github.com/lixenwraith/cellterm/input"
	"github.com/lixenwraith/cellterm/session"
	"github.com/lixenwraith/cellterm/terminal"
)

const (
	maxLog = 10
	marker = "[X]"
)

var (
	colorBg     = grid.RGB{R: 20, G: 20, B: 30}
	colorBar    = grid.RGB{R: 40, G: 40, B: 60}
	colorTitle  = grid.RGB{R: 200, G: 200, B: 200}
	colorText   = grid.RGB{R: 180, G: 180, B: 180}
	colorStatus = grid.RGB{R: 140, G: 140, B: 160}
	colorMarker = grid.RGB{R: 100, G: 255, B: 100}
	colorDrag   = grid.RGB{R: 255, G: 255, B: 100}
	colorRule   = grid.RGB{R: 60, G: 60, B: 80}
)

var cursorShapes = []terminal.CursorShape{
	terminal.CursorBlinkingBlock,
	terminal.CursorSteadyUnderline,
	terminal.CursorBlinkingBar,
}

// demo draws an event log, a draggable marker and a status bar
type demo struct {
	sess *session.Session
	back *grid.Grid // frame composed here, then copied so only changed cells go dirty

	eventLog []string
	markerX  int
	markerY  int
	dragging bool
	shape    int
	count    *grid.Value[int]
	quit     chan struct{}
	quitOnce sync.Once
	unsubs   []func()
}

// newDemo wires the demo into sess; in event mode it subscribes before the worker starts
func newDemo(sess *session.Session) *demo {
	w, h := sess.Size()
	d := &demo{
		sess:    sess,
		markerX: max(w/2-1, 0),
		markerY: h / 2,
		count:   grid.NewValue(0),
		quit:    make(chan struct{}),
	}

	// Title row shows the event count
	d.unsubs = append(d.unsubs, sess.Watch(d.count, grid.Rect{X: 0, Y: 0, W: w, H: 1}))

	if sess.Config().Mode == session.ModeEvent {
		d.unsubs = append(d.unsubs, sess.Subscribe(d.observe))
	}
	return d
}

func (d *demo) close() {
	for _, u := range d.unsubs {
		u()
	}
}

// run drives the demo in the configured input mode until quit or ctx ends
func (d *demo) run(ctx context.Context) error {
	defer d.close()
	d.render()

	cfg := d.sess.Config()
	switch cfg.Mode {
	case session.ModeDirect:
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		for {
			ev, ok, err := d.sess.Read()
			if err != nil {
				return err
			}
			if ok {
				if d.handle(ev) {
					return nil
				}
				d.render()
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

	case session.ModeFilter:
		for {
			ev, err := d.sess.WaitFor(ctx, input.KindKeyboard)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if d.handle(ev) {
				return nil
			}
			d.render()
		}

	default:
		select {
		case <-ctx.Done():
		case <-d.quit:
		}
		return nil
	}
}

// observe runs on the session worker, which is then the only grid writer
func (d *demo) observe(ev *input.Event) {
	if d.handle(*ev) {
		d.quitOnce.Do(func() { close(d.quit) })
		ev.Handled = true
		return
	}
	d.render()
}

// handle applies one event and reports whether the demo should quit
func (d *demo) handle(ev input.Event) bool {
	d.count.Set(d.count.Get() + 1)

	switch ev.Kind {
	case input.KindKeyboard:
		if ev.Key == input.KeyEscape && ev.Mods == input.ModNone {
			return true
		}
		if ev.Char == 'q' && ev.Mods == input.ModNone {
			return true
		}
		if ev.Char == 'c' && ev.Mods.Has(input.ModCtrl) {
			return true
		}
		switch ev.Key {
		case input.KeyUp:
			d.moveMarker(d.markerX, d.markerY-1)
		case input.KeyDown:
			d.moveMarker(d.markerX, d.markerY+1)
		case input.KeyLeft:
			d.moveMarker(d.markerX-1, d.markerY)
		case input.KeyRight:
			d.moveMarker(d.markerX+1, d.markerY)
		}
		switch ev.Char {
		case 'b':
			d.sess.Bell()
		case 's':
			d.shape = (d.shape + 1) % len(cursorShapes)
			d.sess.SetCursorShape(cursorShapes[d.shape])
			d.sess.ShowCursor(true)
		case 'h':
			d.sess.ShowCursor(false)
		}

	case input.KindMouse:
		if !ev.Pressed {
			d.dragging = false
			break
		}
		if !d.dragging && ev.Y == d.markerY && ev.X >= d.markerX && ev.X < d.markerX+len(marker) {
			d.dragging = true
		}
		if d.dragging {
			d.moveMarker(ev.X, ev.Y)
		}
		d.sess.SetCursor(ev.X, ev.Y)

	case input.KindResize:
		d.moveMarker(d.markerX, d.markerY)
	}

	d.addLog(ev.String())
	return false
}

func (d *demo) moveMarker(x, y int) {
	w, h := d.sess.Size()
	d.markerX = min(max(x, 0), max(w-len(marker), 0))
	d.markerY = min(max(y, 0), max(h-1, 0))
}

func (d *demo) addLog(s string) {
	if len(d.eventLog) >= maxLog {
		copy(d.eventLog, d.eventLog[1:])
		d.eventLog = d.eventLog[:maxLog-1]
	}
	d.eventLog = append(d.eventLog, s)
}

// render composes the whole scene and flushes what changed since the last frame
func (d *demo) render() {
	g := d.sess.Grid()
	w, h := d.sess.Size()
	if gw, gh := g.Size(); gw != w || gh != h {
		g.Resize(w, h)
	}
	if d.back == nil || d.back.Width() != w || d.back.Height() != h {
		d.back = grid.New(w, h)
	}
	d.back.SetDefaults(g.Defaults())

	screen := d.back.GetRegion(0, 0, w, h)
	screen.Fill(colorBg)

	title := screen.Sub(0, 0, w, 1)
	title.Fill(colorBar)
	title.TextCenter(0, fmt.Sprintf("cellterm %s mode | events: %d | q quits, b bell, s cursor", d.sess.Config().Mode, d.count.Get()),
		colorTitle, colorBar, grid.AttrBold)
	screen.HLine(1, '-', colorRule)

	for i, entry := range d.eventLog {
		y := 2 + i
		if y >= h-2 {
			break
		}
		screen.Text(1, y, entry, colorText, colorBg, grid.AttrNormal)
	}

	if h > 3 {
		screen.HLine(h-2, '-', colorRule)
	}
	if h > 1 {
		status := screen.Sub(0, h-1, w, 1)
		status.Fill(colorBar)
		status.Text(1, 0, fmt.Sprintf("Size: %dx%d | Marker: (%d,%d) | Dragging: %v", w, h, d.markerX, d.markerY, d.dragging),
			colorStatus, colorBar, grid.AttrNormal)
	}

	// Marker last so it stays on top
	fg := colorMarker
	if d.dragging {
		fg = colorDrag
	}
	screen.Text(d.markerX, d.markerY, marker, fg, colorBar, grid.AttrBold)

	for y := 0; y < h; y++ {
		for x, c := range d.back.Row(y) {
			g.SetCell(x, y, c)
		}
	}
	d.sess.Update()
}
