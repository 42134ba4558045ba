package grid

// Attr represents text style flags (bitmask)
type Attr uint16

const (
	AttrNormal    Attr = 0
	AttrBold      Attr = 1 << 0
	AttrFaint     Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrInverse   Attr = 1 << 5
	AttrHidden    Attr = 1 << 6
	AttrStrike    Attr = 1 << 7
)

// AttrMask covers every defined style bit
const AttrMask Attr = AttrBold | AttrFaint | AttrItalic | AttrUnderline | AttrBlink | AttrInverse | AttrHidden | AttrStrike

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// Default colors used when a grid has not been configured otherwise
var (
	DefaultFg = RGB{R: 192, G: 192, B: 192}
	DefaultBg = RGBBlack
)

// Cell represents a single grid position
// Glyph is a single code-page byte; wider runes are masked on write
type Cell struct {
	Glyph byte
	Fg    RGB
	Bg    RGB
	Attrs Attr
	Dirty bool
}

// Blank returns an empty cell in the given colors
func Blank(fg, bg RGB) Cell {
	return Cell{Glyph: ' ', Fg: fg, Bg: bg}
}

// SameStyle reports whether two cells share colors and style flags
func (c Cell) SameStyle(o Cell) bool {
	return c.Fg == o.Fg && c.Bg == o.Bg && c.Attrs == o.Attrs
}

// GlyphOf masks a rune to the single-byte glyph model
func GlyphOf(r rune) byte {
	return byte(r & 0xFF)
}

// Position is a mutable coordinate pair used for cursors and addressing
type Position struct {
	X, Y int
}

// Rect is a rectangular area in grid coordinates
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rect covers no cells
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether (x, y) lies inside the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of two rects, empty if disjoint
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
