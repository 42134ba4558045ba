package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marker gives every position a distinct glyph/color combination
func marker(x, y int) Cell {
	return Cell{Glyph: byte('A' + (x+y)%26), Fg: RGB{R: uint8(x), G: uint8(y), B: 7}, Bg: RGB{R: 1, G: 2, B: 3}}
}

func fillMarkers(g *Grid) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			g.SetCell(x, y, marker(x, y))
		}
	}
}

func TestNewGrid(t *testing.T) {
	g := New(80, 24)
	require.Equal(t, 80, g.Width())
	require.Equal(t, 24, g.Height())
	assert.True(t, g.NeedsFullRefresh())

	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			c, ok := g.Get(x, y)
			require.True(t, ok)
			assert.Equal(t, byte(' '), c.Glyph)
			assert.Equal(t, DefaultFg, c.Fg)
			assert.Equal(t, DefaultBg, c.Bg)
			assert.False(t, c.Dirty)
		}
	}
}

func TestResizeGrowPreservesMarkers(t *testing.T) {
	g := New(6, 4)
	fillMarkers(g)
	g.TakeFullRefresh()

	g.Resize(10, 7)
	require.Len(t, g.cells, 70)
	assert.True(t, g.NeedsFullRefresh())

	for y := 0; y < 7; y++ {
		for x := 0; x < 10; x++ {
			c := g.At(x, y)
			if x < 6 && y < 4 {
				want := marker(x, y)
				assert.Equal(t, want.Glyph, c.Glyph, "glyph at %d,%d", x, y)
				assert.Equal(t, want.Fg, c.Fg, "fg at %d,%d", x, y)
				continue
			}
			assert.Equal(t, Blank(DefaultFg, DefaultBg), c, "new cell at %d,%d", x, y)
		}
	}
}

func TestResizeShrinkKeepsInBoundsMarkers(t *testing.T) {
	g := New(10, 10)
	fillMarkers(g)

	g.Resize(4, 12)
	require.Equal(t, 4, g.Width())
	require.Equal(t, 12, g.Height())
	require.Len(t, g.cells, 48)

	for y := 0; y < 10; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, marker(x, y).Glyph, g.At(x, y).Glyph)
		}
	}
	for y := 10; y < 12; y++ {
		assert.Equal(t, byte(' '), g.At(0, y).Glyph)
		assert.False(t, g.At(0, y).Dirty)
	}
}

func TestResizeUsesCurrentDefaults(t *testing.T) {
	g := New(2, 2)
	fg := RGB{R: 10, G: 20, B: 30}
	bg := RGB{R: 40, G: 50, B: 60}
	g.SetDefaults(fg, bg)

	g.Resize(3, 3)
	c := g.At(2, 2)
	assert.Equal(t, fg, c.Fg)
	assert.Equal(t, bg, c.Bg)
}

func TestResizeZeroIsEmpty(t *testing.T) {
	g := New(5, 5)
	g.Resize(0, 9)
	assert.Equal(t, 0, g.Width())
	assert.Equal(t, 0, g.Height())
	assert.Empty(t, g.cells)

	// Queries on an empty grid still synthesize
	r := g.GetRegion(0, 0, 2, 2)
	assert.Equal(t, byte(' '), r.At(1, 1).Glyph)

	g.Resize(-3, 4)
	assert.Empty(t, g.cells)
}

func TestSetMarksDirtyAndMasksGlyph(t *testing.T) {
	g := New(4, 4)
	require.True(t, g.Set(1, 2, 0x141, RGB{R: 1}, RGB{B: 1}, AttrBold))
	c := g.At(1, 2)
	assert.True(t, c.Dirty)
	assert.Equal(t, byte(0x41), c.Glyph)
	assert.Equal(t, AttrBold, c.Attrs)

	assert.False(t, g.Set(4, 0, 'x', RGB{}, RGB{}, AttrNormal))
	assert.False(t, g.Set(-1, 0, 'x', RGB{}, RGB{}, AttrNormal))
	assert.True(t, g.RowDirty(2))
	assert.False(t, g.RowDirty(0))
}

func TestSetUnchangedContentStaysClean(t *testing.T) {
	g := New(4, 2)
	g.Set(1, 1, 'q', RGB{R: 1}, RGB{}, AttrNormal)
	g.ClearDirty(g.Bounds())

	g.Set(1, 1, 'q', RGB{R: 1}, RGB{}, AttrNormal)
	assert.False(t, g.At(1, 1).Dirty)

	// Each of glyph, fg, bg and attrs counts as a change
	g.Set(1, 1, 'q', RGB{R: 1}, RGB{}, AttrBold)
	assert.True(t, g.At(1, 1).Dirty)
	g.ClearDirty(g.Bounds())
	g.Set(1, 1, 'q', RGB{R: 1}, RGB{G: 1}, AttrBold)
	assert.True(t, g.At(1, 1).Dirty)
	g.ClearDirty(g.Bounds())
	g.Set(1, 1, 'r', RGB{R: 1}, RGB{G: 1}, AttrBold)
	assert.True(t, g.At(1, 1).Dirty)

	// Writing the original content back does not clear a pending change
	g.Set(1, 1, 'q', RGB{R: 1}, RGB{G: 1}, AttrBold)
	assert.True(t, g.At(1, 1).Dirty)

	// Blank over a blank cell is not a change
	g.Set(0, 0, ' ', DefaultFg, DefaultBg, AttrNormal)
	assert.False(t, g.At(0, 0).Dirty)
}

func TestGetRegionOutOfBounds(t *testing.T) {
	g := New(10, 10)
	fillMarkers(g)

	r := g.GetRegion(-2, -2, 4, 4)
	cells := r.Cells()
	require.Len(t, cells, 4)
	for y, row := range cells {
		require.Len(t, row, 4)
		for x, c := range row {
			gx, gy := x-2, y-2
			if gx < 0 || gy < 0 {
				assert.Equal(t, Blank(DefaultFg, DefaultBg), c, "synthesized at %d,%d", x, y)
			} else {
				assert.Equal(t, marker(gx, gy).Glyph, c.Glyph)
			}
		}
	}
}

func TestRegionWritesClipToGrid(t *testing.T) {
	g := New(5, 3)
	g.TakeFullRefresh()

	r := g.GetRegion(3, 1, 4, 4)
	n := r.Text(0, 0, "hello", RGB{R: 9}, RGB{}, AttrUnderline)
	assert.Equal(t, 4, n)
	assert.Equal(t, byte('h'), g.At(3, 1).Glyph)
	assert.Equal(t, byte('e'), g.At(4, 1).Glyph)

	sub := r.Sub(1, 1, 10, 10)
	assert.Equal(t, Rect{X: 4, Y: 2, W: 3, H: 3}, sub.Rect())
	sub.Set(0, 0, 'z', RGB{}, RGB{}, AttrNormal)
	assert.Equal(t, byte('z'), g.At(4, 2).Glyph)
}

func TestDirtyBulkOps(t *testing.T) {
	g := New(6, 6)
	g.SetDirty(Rect{X: 4, Y: 4, W: 10, H: 10})
	assert.True(t, g.At(5, 5).Dirty)
	assert.True(t, g.At(4, 4).Dirty)
	assert.False(t, g.At(3, 4).Dirty)

	g.ClearDirty(Rect{X: -1, Y: -1, W: 6, H: 6})
	assert.False(t, g.At(4, 4).Dirty)
	assert.True(t, g.At(5, 5).Dirty)
}

func TestClearRect(t *testing.T) {
	g := New(4, 4)
	fillMarkers(g)
	g.ClearDirty(g.Bounds())

	g.GetRegion(1, 1, 2, 2).Clear()
	c := g.At(1, 1)
	assert.Equal(t, byte(' '), c.Glyph)
	assert.Equal(t, DefaultBg, c.Bg)
	assert.True(t, c.Dirty)
	assert.False(t, g.At(0, 0).Dirty)
}

func TestValueNotifiesOnChange(t *testing.T) {
	v := NewValue(Position{X: 1, Y: 1})
	var calls []string
	unsubA := v.OnChange(func() { calls = append(calls, "a") })
	v.OnChange(func() { calls = append(calls, "b") })

	v.Set(Position{X: 1, Y: 1})
	assert.Empty(t, calls)
	assert.Equal(t, uint64(0), v.Version())

	v.Set(Position{X: 2, Y: 1})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, uint64(1), v.Version())

	unsubA()
	v.Set(Position{})
	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 5, H: 5}
	assert.Equal(t, Rect{X: 3, Y: 3, W: 2, H: 2}, a.Intersect(Rect{X: 3, Y: 3, W: 5, H: 5}))
	assert.True(t, a.Intersect(Rect{X: 6, Y: 6, W: 1, H: 1}).Empty())
	assert.True(t, a.Contains(4, 4))
	assert.False(t, a.Contains(5, 4))
}

func TestRegionTextCenterAndHLine(t *testing.T) {
	g := New(10, 3)
	g.SetDefaults(DefaultFg, RGB{B: 9})
	g.Clear()
	r := g.GetRegion(0, 0, 10, 3)

	r.TextCenter(0, "abcd", DefaultFg, RGB{}, AttrBold)
	assert.Equal(t, byte(' '), g.At(2, 0).Glyph)
	assert.Equal(t, byte('a'), g.At(3, 0).Glyph)
	assert.Equal(t, byte('d'), g.At(6, 0).Glyph)

	// Wider than the region starts at the left edge
	r.TextCenter(1, "0123456789ABC", DefaultFg, RGB{}, AttrNormal)
	assert.Equal(t, byte('0'), g.At(0, 1).Glyph)

	r.HLine(2, '-', RGB{R: 1})
	for x := 0; x < 10; x++ {
		c := g.At(x, 2)
		assert.Equal(t, byte('-'), c.Glyph)
		assert.Equal(t, RGB{B: 9}, c.Bg)
		assert.True(t, c.Dirty)
	}
	r.HLine(5, '-', RGB{})
}
