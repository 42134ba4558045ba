// Package grid holds the logical cell array behind a terminal screen.
//
// A Grid is a row-major W×H slice of cells with per-cell dirty flags and a
// grid-wide full-refresh marker. The renderer in package terminal consumes
// that state; widgets address the grid through Region views, which synthesize
// default cells for any coordinate outside the grid.
//
// Grids are not safe for concurrent mutation; a session has a single writer.
package grid

// Grid is a W×H array of cells with dirty tracking
type Grid struct {
	width  int
	height int
	cells  []Cell

	fg RGB
	bg RGB

	fullRefresh bool
}

// New creates a grid filled with blank cells in the default colors
func New(width, height int) *Grid {
	g := &Grid{fg: DefaultFg, bg: DefaultBg}
	g.Resize(width, height)
	return g
}

// Width returns the grid width
func (g *Grid) Width() int {
	return g.width
}

// Height returns the grid height
func (g *Grid) Height() int {
	return g.height
}

// Size returns width and height
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Bounds returns the full grid rect
func (g *Grid) Bounds() Rect {
	return Rect{W: g.width, H: g.height}
}

// Defaults returns the current default foreground and background
func (g *Grid) Defaults() (fg, bg RGB) {
	return g.fg, g.bg
}

// SetDefaults changes the colors used for blank and synthesized cells
// Existing cells are not repainted
func (g *Grid) SetDefaults(fg, bg RGB) {
	g.fg = fg
	g.bg = bg
}

// inBounds returns true if in grid bounds
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Resize rebuilds the grid, preserving the overlapping top-left rectangle
// New cells take the default colors with a cleared dirty flag; the next render is a full refresh
func (g *Grid) Resize(newWidth, newHeight int) {
	if newWidth < 0 {
		newWidth = 0
	}
	if newHeight < 0 {
		newHeight = 0
	}
	if newWidth == 0 || newHeight == 0 {
		newWidth, newHeight = 0, 0
	}

	next := make([]Cell, newWidth*newHeight)
	fillBlank(next, Blank(g.fg, g.bg))

	copyW := min(g.width, newWidth)
	copyH := min(g.height, newHeight)
	for y := 0; y < copyH; y++ {
		copy(next[y*newWidth:y*newWidth+copyW], g.cells[y*g.width:y*g.width+copyW])
	}

	g.cells = next
	g.width = newWidth
	g.height = newHeight
	g.fullRefresh = true
}

// fillBlank initializes a slice using exponential copy
func fillBlank(cells []Cell, blank Cell) {
	if len(cells) == 0 {
		return
	}
	cells[0] = blank
	for filled := 1; filled < len(cells); filled *= 2 {
		copy(cells[filled:], cells[:filled])
	}
}

// Get returns the cell at the given position
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.inBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[y*g.width+x], true
}

// At returns the cell at the given position, or a default blank cell when out of bounds
func (g *Grid) At(x, y int) Cell {
	if !g.inBounds(x, y) {
		return Blank(g.fg, g.bg)
	}
	return g.cells[y*g.width+x]
}

// SetCell stores a cell, marking it dirty only when glyph or style changes
// A cell already dirty stays dirty until the renderer draws it
func (g *Grid) SetCell(x, y int, c Cell) bool {
	if !g.inBounds(x, y) {
		return false
	}
	i := y*g.width + x
	old := g.cells[i]
	c.Dirty = old.Dirty || old.Glyph != c.Glyph || !old.SameStyle(c)
	g.cells[i] = c
	return true
}

// Set writes glyph and style at a position; see SetCell for dirty semantics
func (g *Grid) Set(x, y int, ch rune, fg, bg RGB, attrs Attr) bool {
	return g.SetCell(x, y, Cell{Glyph: GlyphOf(ch), Fg: fg, Bg: bg, Attrs: attrs & AttrMask})
}

// Row returns the live cell slice of row y, nil when out of range
// Callers may clear dirty flags through it; the slice is invalidated by Resize
func (g *Grid) Row(y int) []Cell {
	if y < 0 || y >= g.height {
		return nil
	}
	return g.cells[y*g.width : (y+1)*g.width]
}

// RowDirty reports whether any cell in row y is dirty
func (g *Grid) RowDirty(y int) bool {
	for _, c := range g.Row(y) {
		if c.Dirty {
			return true
		}
	}
	return false
}

// SetDirty marks every cell in the rect dirty, clipped to the grid
func (g *Grid) SetDirty(r Rect) {
	g.setDirty(r, true)
}

// ClearDirty clears the dirty flag of every cell in the rect, clipped to the grid
func (g *Grid) ClearDirty(r Rect) {
	g.setDirty(r, false)
}

func (g *Grid) setDirty(r Rect, dirty bool) {
	r = r.Intersect(g.Bounds())
	for y := r.Y; y < r.Y+r.H; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x := r.X; x < r.X+r.W; x++ {
			row[x].Dirty = dirty
		}
	}
}

// ClearRect blanks a window of cells in the default colors and marks them dirty
func (g *Grid) ClearRect(r Rect) {
	r = r.Intersect(g.Bounds())
	blank := Blank(g.fg, g.bg)
	blank.Dirty = true
	for y := r.Y; y < r.Y+r.H; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x := r.X; x < r.X+r.W; x++ {
			row[x] = blank
		}
	}
}

// Clear blanks the whole grid
func (g *Grid) Clear() {
	g.ClearRect(g.Bounds())
}

// GetRegion returns a w×h view anchored at (x, y)
// The view may extend past the grid; such cells read as default blanks
func (g *Grid) GetRegion(x, y, w, h int) Region {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Region{grid: g, rect: Rect{X: x, Y: y, W: w, H: h}}
}

// MarkFullRefresh forces the next render to redraw every cell
func (g *Grid) MarkFullRefresh() {
	g.fullRefresh = true
}

// NeedsFullRefresh reports a pending full refresh without consuming it
func (g *Grid) NeedsFullRefresh() bool {
	return g.fullRefresh
}

// TakeFullRefresh returns and resets the full refresh marker
func (g *Grid) TakeFullRefresh() bool {
	f := g.fullRefresh
	g.fullRefresh = false
	return f
}
