// Package session composes a cell grid, its renderer and one input backend
// into a terminal session with three mutually exclusive input modes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/cellterm/bell"
	"github.com/lixenwraith/cellterm/grid"
	"github.com/lixenwraith/cellterm/input"
	"github.com/lixenwraith/cellterm/service"
	"github.com/lixenwraith/cellterm/terminal"
)

var (
	// ErrModeConflict is returned when an input mode is used while another is active
	ErrModeConflict = errors.New("session: input mode conflict")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("session: closed")
)

// Observer receives dispatched events; setting ev.Handled stops further dispatch
type Observer func(ev *input.Event)

type observer struct {
	id int
	fn Observer
}

// Session owns the screen, the input backend and the bell
// Grid mutation and Update follow a single-writer model
type Session struct {
	cfg     Config
	screen  *terminal.Screen
	backend input.Backend
	bell    *bell.Bell
	log     logrus.FieldLogger

	mu        sync.Mutex
	observers []observer
	nextID    int
	watches   []func()
	opened    bool
	closed    atomic.Bool

	lastW, lastH int

	// Input mode guards
	running     atomic.Bool // event-driven worker active
	polling     atomic.Bool // Read or WaitFor in progress
	dispatching atomic.Bool // worker is inside observer dispatch

	cancel context.CancelFunc
	done   chan struct{}
}

// Option customizes session construction
type Option func(*Session)

// WithOutput replaces the stdout output backend
func WithOutput(out terminal.Output) Option {
	return func(s *Session) { s.screen = terminal.NewScreen(out) }
}

// WithBackend replaces the platform input backend
func WithBackend(b input.Backend) Option {
	return func(s *Session) { s.backend = b }
}

// WithLogger sets the logger; the standard logger is used otherwise
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// New builds a session from cfg. Terminal state is untouched until Open
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fg, bg, err := cfg.Colors()
	if err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.log = s.log.WithField("component", "session")

	if s.screen == nil {
		s.screen = terminal.NewScreen(terminal.NewOutput())
	}
	if s.backend == nil {
		b, err := input.NewBackend(input.Options{
			Binding:       cfg.Binding,
			EscapeTimeout: cfg.EscapeTimeout,
			Logger:        s.log,
		})
		if err != nil {
			return nil, fmt.Errorf("session: input backend: %w", err)
		}
		s.backend = b
	}

	s.screen.Grid().SetDefaults(fg, bg)
	s.screen.Grid().Clear()

	bellMode, _ := bell.ParseMode(cfg.Bell)
	s.bell = bell.New(bellMode, s.screen.Renderer().Bell, s.log)

	s.lastW, s.lastH = s.screen.Size()
	return s, nil
}

// Config returns the session configuration
func (s *Session) Config() Config {
	return s.cfg
}

// Grid returns the cell grid callers draw into
func (s *Session) Grid() *grid.Grid {
	return s.screen.Grid()
}

// Screen returns the terminal screen
func (s *Session) Screen() *terminal.Screen {
	return s.screen
}

// Size returns the last observed terminal size
func (s *Session) Size() (int, int) {
	return s.lastW, s.lastH
}

// Open puts the terminal into session mode and initializes input
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}
	if s.opened {
		return nil
	}

	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("session: screen init: %w", err)
	}
	if err := s.backend.Init(); err != nil {
		s.screen.Fini()
		return fmt.Errorf("session: input init: %w", err)
	}
	s.screen.EnableMouse(true)
	if err := s.bell.Start(context.Background()); err != nil {
		s.log.WithError(err).Warn("bell start failed")
	}

	s.lastW, s.lastH = s.screen.Size()
	s.opened = true
	s.log.WithFields(logrus.Fields{"width": s.lastW, "height": s.lastH}).Debug("session opened")
	return nil
}

// Close stops the worker and restores the terminal. Safe to call multiple times
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.stop()
	s.bell.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, unwatch := range s.watches {
		unwatch()
	}
	s.watches = nil

	if s.opened {
		s.backend.Fini()
		s.screen.Fini()
		s.opened = false
	}
	s.log.Debug("session closed")
}

// poll reads one native event; when there is none, or it is a dropped null key,
// the terminal size is checked and a resize event is synthesized on change
func (s *Session) poll() (input.Event, bool) {
	if ev, ok := s.backend.Poll(); ok && !ev.IsNull() {
		return ev, true
	}

	w, h := s.screen.Size()
	if w != s.lastW || h != s.lastH {
		s.lastW, s.lastH = w, h
		s.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("terminal resized")
		return input.ResizeEvent(w, h), true
	}
	return input.Event{}, false
}

// beginPoll claims the caller-driven modes
func (s *Session) beginPoll() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if s.running.Load() || !s.polling.CompareAndSwap(false, true) {
		return ErrModeConflict
	}
	if s.running.Load() {
		s.polling.Store(false)
		return ErrModeConflict
	}
	return nil
}

// Read returns one pending event without blocking
func (s *Session) Read() (input.Event, bool, error) {
	if err := s.beginPoll(); err != nil {
		return input.Event{}, false, err
	}
	defer s.polling.Store(false)

	ev, ok := s.poll()
	return ev, ok, nil
}

// WaitFor blocks until an event of kind arrives, discarding others
func (s *Session) WaitFor(ctx context.Context, kind input.Kind) (input.Event, error) {
	if err := s.beginPoll(); err != nil {
		return input.Event{}, err
	}
	defer s.polling.Store(false)

	timer := time.NewTimer(s.cfg.PollInterval)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return input.Event{}, err
		}

		ev, ok := s.poll()
		if ok {
			if ev.Kind == kind {
				return ev, nil
			}
			continue
		}

		timer.Reset(s.cfg.PollInterval)
		select {
		case <-ctx.Done():
			return input.Event{}, ctx.Err()
		case <-timer.C:
		}
	}
}

// Start launches the event-driven worker
func (s *Session) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if s.polling.Load() || !s.running.CompareAndSwap(false, true) {
		return ErrModeConflict
	}
	if s.polling.Load() {
		s.running.Store(false)
		return ErrModeConflict
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.pump(ctx, done)
	s.log.Debug("event-driven input started")
	return nil
}

// Stop cancels the worker and waits for it to exit
// Called from an observer, Stop only cancels: the worker exits once dispatch returns
func (s *Session) Stop() error {
	s.stop()
	return nil
}

func (s *Session) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if s.dispatching.Load() {
		s.log.Debug("event-driven input stop requested during dispatch")
		return
	}
	<-done
	s.log.Debug("event-driven input stopped")
}

// pump polls and dispatches until ctx ends; cancellation is checked on every iteration
// However the worker exits, the session returns to the caller-driven modes
func (s *Session) pump(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.release(done)
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("input worker crashed")
		}
	}()

	timer := time.NewTimer(s.cfg.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, ok := s.poll()
		if ok {
			s.dispatching.Store(true)
			s.dispatch(&ev)
			s.dispatching.Store(false)
			continue
		}

		timer.Reset(s.cfg.PollInterval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// release clears worker state on exit; a concurrent stop already owns cancel and done
func (s *Session) release(done chan struct{}) {
	s.dispatching.Store(false)

	s.mu.Lock()
	if s.done == done {
		s.cancel()
		s.cancel, s.done = nil, nil
	}
	s.mu.Unlock()

	s.running.Store(false)
}

// Subscribe registers an observer; observers run in registration order
func (s *Session) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// dispatch delivers ev to observers until one marks it handled
func (s *Session) dispatch(ev *input.Event) {
	s.mu.Lock()
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()

	for _, o := range obs {
		s.notify(o, ev)
		if ev.Handled {
			return
		}
	}
}

func (s *Session) notify(o observer, ev *input.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"observer": o.id, "panic": r, "event": ev.String()}).Error("observer panicked")
		}
	}()
	o.fn(ev)
}

// Watch marks rect dirty whenever o reports a change
func (s *Session) Watch(o grid.Observable, rect grid.Rect) (unwatch func()) {
	g := s.screen.Grid()
	unsub := o.OnChange(func() { g.SetDirty(rect) })

	s.mu.Lock()
	s.watches = append(s.watches, unsub)
	s.mu.Unlock()
	return unsub
}

// SetCursor moves the cursor, clamped to the grid
func (s *Session) SetCursor(x, y int) {
	s.screen.Renderer().MoveCursor(x, y)
}

// ShowCursor shows or hides the cursor
func (s *Session) ShowCursor(visible bool) {
	s.screen.Renderer().SetCursorVisible(visible)
}

// SetCursorShape changes the cursor shape; invalid shapes are ignored
func (s *Session) SetCursorShape(shape terminal.CursorShape) {
	s.screen.Renderer().SetCursorShape(shape)
}

// Update redraws dirty cells
func (s *Session) Update() {
	r := s.screen.Renderer()
	before := r.Stats().Frames
	r.Update()

	if st := r.Stats(); st.Frames != before {
		s.log.WithFields(logrus.Fields{
			"rows":  st.Rows,
			"runs":  st.Runs,
			"cells": st.Cells,
			"full":  st.FullRefresh,
		}).Trace("frame rendered")
	}
}

// Bell rings the configured bell
func (s *Session) Bell() {
	s.bell.Ring()
}

// Services returns the session's lifecycle parts for a service group:
// the screen, the bell and, in event mode, the input worker
func (s *Session) Services() []service.Service {
	svcs := []service.Service{screenService{s}, s.bell}
	if s.cfg.Mode == ModeEvent {
		svcs = append(svcs, pumpService{s})
	}
	return svcs
}

// screenService opens and closes the session
type screenService struct{ s *Session }

func (screenService) Name() string                  { return "screen" }
func (screenService) Dependencies() []string        { return nil }
func (p screenService) Start(context.Context) error { return p.s.Open() }

func (p screenService) Stop() error {
	p.s.Close()
	return nil
}

// pumpService runs the event-driven worker
type pumpService struct{ s *Session }

func (pumpService) Name() string                      { return "input" }
func (pumpService) Dependencies() []string            { return []string{"screen"} }
func (p pumpService) Start(ctx context.Context) error { return p.s.Start(ctx) }
func (p pumpService) Stop() error                     { return p.s.Stop() }
