package grid

// Region is a rectangular view into a grid
// Coordinates are relative to the region origin; the region may extend past the grid
type Region struct {
	grid *Grid
	rect Rect
}

// Rect returns the absolute rect the region covers
func (r Region) Rect() Rect {
	return r.rect
}

// Width returns region width
func (r Region) Width() int {
	return r.rect.W
}

// Height returns region height
func (r Region) Height() int {
	return r.rect.H
}

// Sub returns a nested region relative to this one, clipped to this region's bounds
func (r Region) Sub(x, y, w, h int) Region {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.rect.W {
		w = r.rect.W - x
	}
	if y+h > r.rect.H {
		h = r.rect.H - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Region{grid: r.grid, rect: Rect{X: r.rect.X + x, Y: r.rect.Y + y, W: w, H: h}}
}

// At returns the cell at a region-relative position
// Positions outside the grid yield a default blank cell
func (r Region) At(x, y int) Cell {
	return r.grid.At(r.rect.X+x, r.rect.Y+y)
}

// Cells returns a copied h×w snapshot of the region
func (r Region) Cells() [][]Cell {
	out := make([][]Cell, r.rect.H)
	for y := range out {
		row := make([]Cell, r.rect.W)
		for x := range row {
			row[x] = r.At(x, y)
		}
		out[y] = row
	}
	return out
}

// Set writes a cell at a region-relative position, dropped if outside the region or grid
func (r Region) Set(x, y int, ch rune, fg, bg RGB, attrs Attr) {
	if x < 0 || x >= r.rect.W || y < 0 || y >= r.rect.H {
		return
	}
	r.grid.Set(r.rect.X+x, r.rect.Y+y, ch, fg, bg, attrs)
}

// Text writes a string starting at a region-relative position, clipped at the region edge
func (r Region) Text(x, y int, s string, fg, bg RGB, attrs Attr) int {
	n := 0
	for _, ch := range s {
		if x+n >= r.rect.W {
			break
		}
		r.Set(x+n, y, ch, fg, bg, attrs)
		n++
	}
	return n
}

// Fill fills the region with blanks in the given background
func (r Region) Fill(bg RGB) {
	fg, _ := r.grid.Defaults()
	for y := 0; y < r.rect.H; y++ {
		for x := 0; x < r.rect.W; x++ {
			r.Set(x, y, ' ', fg, bg, AttrNormal)
		}
	}
}

// Clear resets the region to default blank cells
func (r Region) Clear() {
	r.grid.ClearRect(r.rect)
}

// SetDirty forces the region to be redrawn
func (r Region) SetDirty() {
	r.grid.SetDirty(r.rect)
}

// TextCenter writes a string horizontally centered on row y
func (r Region) TextCenter(y int, s string, fg, bg RGB, attrs Attr) {
	x := (r.rect.W - len([]rune(s))) / 2
	r.Text(max(x, 0), y, s, fg, bg, attrs)
}

// HLine draws a horizontal rule across the region on row y, keeping each cell's background
func (r Region) HLine(y int, ch rune, fg RGB) {
	if y < 0 || y >= r.rect.H {
		return
	}
	for x := 0; x < r.rect.W; x++ {
		bg := r.At(x, y).Bg
		r.Set(x, y, ch, fg, bg, AttrNormal)
	}
}
