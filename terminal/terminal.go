package terminal

import (
	"io"
	"os"
	"sync"

	"github.com/lixenwraith/cellterm/grid"
)

// Screen owns the output side of a session: terminal modes, the grid and its renderer
type Screen struct {
	out      Output
	grid     *grid.Grid
	renderer *Renderer

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouse       bool
}

// NewScreen creates a screen sized to the current terminal dimensions of out
func NewScreen(out Output) *Screen {
	w, h := out.Size()
	g := grid.New(w, h)
	return &Screen{
		out:      out,
		grid:     g,
		renderer: NewRenderer(g, out),
	}
}

// Grid returns the logical cell grid
func (s *Screen) Grid() *grid.Grid {
	return s.grid
}

// Renderer returns the renderer bound to the grid
func (s *Screen) Renderer() *Renderer {
	return s.renderer
}

// Size returns current terminal dimensions
func (s *Screen) Size() (int, int) {
	return s.out.Size()
}

// Init enters alternate screen, disables autowrap and hides the cursor
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.out.Init(); err != nil {
		return err
	}

	s.renderer.writeRaw(csiAltScreenEnter, csiAutoWrapOff, csiCursorHide)
	s.renderer.cursor.visible = false
	s.renderer.ForceRefresh()

	s.initialized = true
	return nil
}

// EnableMouse turns SGR click and drag reporting on or off
func (s *Screen) EnableMouse(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized || s.mouse == on {
		return
	}
	s.mouse = on
	if on {
		s.renderer.writeRaw(csiMouseSGROn, csiMouseClickOn, csiMouseDragOn)
	} else {
		s.renderer.writeRaw(csiMouseDragOff, csiMouseClickOff, csiMouseSGROff)
	}
}

// Fini restores terminal state. Safe to call multiple times
func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return
	}

	if s.mouse {
		s.renderer.writeRaw(csiMouseDragOff, csiMouseClickOff, csiMouseSGROff)
	}

	// Re-enable auto-wrap after leaving the alt screen so the main buffer wraps
	s.renderer.writeRaw(csiReset, csiCursorShow, csiAltScreenExit, csiAutoWrapOn)

	if r, ok := s.out.(interface{ restore() }); ok {
		r.restore()
	}
	s.finalized = true
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiReset)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
