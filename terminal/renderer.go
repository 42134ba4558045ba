// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

import (
	"bufio"
	"sync/atomic"

	"github.com/lixenwraith/cellterm/grid"
)

// Stats describes the last render pass
type Stats struct {
	Frames      uint64 // passes that emitted output
	Rows        int
	Runs        int
	Cells       int
	FullRefresh bool
}

// cursorState is the logical cursor the renderer restores after each pass
type cursorState struct {
	pos     grid.Position
	visible bool
	shape   CursorShape
}

// Renderer redraws dirty grid cells as run-length grouped escape sequences
// Update is guarded against re-entry but not against a second concurrent caller
type Renderer struct {
	grid   *grid.Grid
	out    Output
	writer *bufio.Writer

	busy atomic.Bool

	lastW int
	lastH int

	cursor cursorState
	stats  Stats
}

// NewRenderer creates a renderer drawing g onto out
func NewRenderer(g *grid.Grid, out Output) *Renderer {
	w, h := g.Size()
	return &Renderer{
		grid:   g,
		out:    out,
		writer: bufio.NewWriterSize(out, 131072), // 128KB buffer
		lastW:  w,
		lastH:  h,
	}
}

// Grid returns the grid being rendered
func (r *Renderer) Grid() *grid.Grid {
	return r.grid
}

// Stats returns counters for the most recent pass
func (r *Renderer) Stats() Stats {
	return r.stats
}

// ForceRefresh makes the next Update redraw every cell
func (r *Renderer) ForceRefresh() {
	r.grid.MarkFullRefresh()
}

// run is a contiguous same-style span of cells in one row
type run struct {
	x0, x1 int // half-open column range
}

// Update flushes dirty cells to the terminal
// A nested call made while a pass is in progress returns immediately
func (r *Renderer) Update() {
	if !r.busy.CompareAndSwap(false, true) {
		return
	}
	defer r.busy.Store(false)

	g := r.grid

	w, h := r.out.Size()
	if w != r.lastW || h != r.lastH {
		g.Resize(w, h)
		r.lastW, r.lastH = w, h
	}

	full := g.NeedsFullRefresh()
	rows := r.affectedRows(full)
	if len(rows) == 0 && !full {
		r.stats = Stats{Frames: r.stats.Frames}
		return
	}
	g.TakeFullRefresh()

	out := r.writer
	stats := Stats{Frames: r.stats.Frames + 1, FullRefresh: full}

	cursorVisible := r.cursor.visible
	if cursorVisible {
		out.Write(csiCursorHide)
	}
	if full {
		out.Write(csiReset)
		writeRGB(out, csiBgRGB, r.defaultBg())
		out.Write(csiClear)
	}

	var runs []run
	for _, y := range rows {
		row := g.Row(y)
		runs = buildRuns(row, full, runs[:0])
		for _, rn := range runs {
			r.writeRun(y, row, rn)
			stats.Runs++
			stats.Cells += rn.x1 - rn.x0
		}
		stats.Rows++
	}

	if cursorVisible {
		writeCursorPos(out, r.cursor.pos.X, r.cursor.pos.Y)
		out.Write(csiCursorShow)
	}

	out.Flush()
	r.stats = stats
}

func (r *Renderer) defaultBg() grid.RGB {
	_, bg := r.grid.Defaults()
	return bg
}

// affectedRows returns every row on full refresh, otherwise rows holding a dirty cell
func (r *Renderer) affectedRows(full bool) []int {
	h := r.grid.Height()
	rows := make([]int, 0, h)
	for y := 0; y < h; y++ {
		if full || r.grid.RowDirty(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// buildRuns splits a row into maximal runs of contiguous rendered cells sharing one style
// Outside a full refresh only dirty cells are rendered, so a clean cell always ends a run
func buildRuns(row []grid.Cell, full bool, runs []run) []run {
	x := 0
	for x < len(row) {
		if !full && !row[x].Dirty {
			x++
			continue
		}
		start := x
		x++
		for x < len(row) {
			c := row[x]
			if !full && !c.Dirty {
				break
			}
			if !c.SameStyle(row[start]) {
				break
			}
			x++
		}
		runs = append(runs, run{x0: start, x1: x})
	}
	return runs
}

// writeRun emits one run and clears the dirty flag of each cell it drew
func (r *Renderer) writeRun(y int, row []grid.Cell, rn run) {
	w := r.writer
	first := row[rn.x0]

	writeCursorPos(w, rn.x0, y)
	writeRGB(w, csiBgRGB, first.Bg)
	writeRGB(w, csiFgRGB, first.Fg)
	writeAttrs(w, first.Attrs)

	for x := rn.x0; x < rn.x1; x++ {
		w.WriteByte(glyphByte(row[x].Glyph))
		row[x].Dirty = false
	}

	w.Write(csiReset)
}

// CursorVisible reports the logical cursor visibility
func (r *Renderer) CursorVisible() bool {
	return r.cursor.visible
}

// CursorPosition returns the logical cursor position
func (r *Renderer) CursorPosition() grid.Position {
	return r.cursor.pos
}

// SetCursorVisible shows or hides the cursor immediately
func (r *Renderer) SetCursorVisible(visible bool) {
	if r.cursor.visible == visible {
		return
	}
	r.cursor.visible = visible
	if visible {
		writeCursorPos(r.writer, r.cursor.pos.X, r.cursor.pos.Y)
		r.writer.Write(csiCursorShow)
	} else {
		r.writer.Write(csiCursorHide)
	}
	r.writer.Flush()
}

// MoveCursor positions the cursor (0-indexed), clamped to the grid
func (r *Renderer) MoveCursor(x, y int) {
	w, h := r.grid.Size()
	x = min(max(x, 0), max(w-1, 0))
	y = min(max(y, 0), max(h-1, 0))
	r.cursor.pos = grid.Position{X: x, Y: y}
	if r.cursor.visible {
		writeCursorPos(r.writer, x, y)
		r.writer.Flush()
	}
}

// SetCursorShape changes the cursor shape; invalid shapes are ignored
func (r *Renderer) SetCursorShape(s CursorShape) {
	if !s.Valid() {
		return
	}
	r.cursor.shape = s
	writeCursorShape(r.writer, s)
	r.writer.Flush()
}

// Bell writes the terminal bell byte
func (r *Renderer) Bell() {
	r.writer.Write(bel)
	r.writer.Flush()
}

// writeRaw writes sequences outside a render pass
func (r *Renderer) writeRaw(seqs ...[]byte) {
	for _, s := range seqs {
		r.writer.Write(s)
	}
	r.writer.Flush()
}
