package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cellterm/grid"
)

type testOutput struct {
	bytes.Buffer
	w, h    int
	onWrite func()
}

func (o *testOutput) Init() error      { return nil }
func (o *testOutput) Size() (int, int) { return o.w, o.h }

func (o *testOutput) Write(p []byte) (int, error) {
	if o.onWrite != nil {
		o.onWrite()
	}
	return o.Buffer.Write(p)
}

// newClean returns a renderer whose initial full refresh has been flushed
func newClean(t *testing.T, w, h int) (*Renderer, *testOutput) {
	t.Helper()
	out := &testOutput{w: w, h: h}
	r := NewRenderer(grid.New(w, h), out)
	r.Update()
	require.True(t, r.Stats().FullRefresh)
	out.Reset()
	return r, out
}

var (
	red   = grid.RGB{R: 255}
	blue  = grid.RGB{B: 255}
	black = grid.RGB{}
)

func TestRunGroupingSplitsOnStyleChange(t *testing.T) {
	r, out := newClean(t, 10, 3)
	g := r.Grid()

	// A, A, B, A
	g.Set(0, 1, 'a', red, black, grid.AttrNormal)
	g.Set(1, 1, 'b', red, black, grid.AttrNormal)
	g.Set(2, 1, 'c', blue, black, grid.AttrNormal)
	g.Set(3, 1, 'd', red, black, grid.AttrNormal)

	r.Update()
	st := r.Stats()
	assert.Equal(t, 3, st.Runs)
	assert.Equal(t, 1, st.Rows)
	assert.Equal(t, 4, st.Cells)
	assert.Equal(t, 3, strings.Count(out.String(), "\x1b[0m"))
}

func TestRunGroupingBreaksOnGap(t *testing.T) {
	r, _ := newClean(t, 10, 1)
	g := r.Grid()

	g.Set(0, 0, 'x', red, black, grid.AttrBold)
	g.Set(2, 0, 'y', red, black, grid.AttrBold)

	r.Update()
	assert.Equal(t, 2, r.Stats().Runs)
}

func TestRunGroupingAttrsParticipate(t *testing.T) {
	r, _ := newClean(t, 4, 1)
	g := r.Grid()

	g.Set(0, 0, 'x', red, black, grid.AttrBold)
	g.Set(1, 0, 'y', red, black, grid.AttrBold|grid.AttrUnderline)

	r.Update()
	assert.Equal(t, 2, r.Stats().Runs)
}

func TestRunSequenceBytes(t *testing.T) {
	r, out := newClean(t, 5, 5)
	r.Grid().Set(2, 3, 'X', red, blue, grid.AttrBold|grid.AttrStrike)

	r.Update()
	want := "\x1b[4;3H" + "\x1b[48;2;0;0;255m" + "\x1b[38;2;255;0;0m" + "\x1b[1m\x1b[9m" + "X" + "\x1b[0m"
	assert.Equal(t, want, out.String())
}

func TestUpdateIsIdempotent(t *testing.T) {
	r, out := newClean(t, 8, 4)
	r.Grid().Set(1, 1, 'q', red, black, grid.AttrNormal)

	r.Update()
	assert.NotZero(t, out.Len())

	out.Reset()
	r.Update()
	assert.Zero(t, out.Len())
	assert.Equal(t, 0, r.Stats().Runs)
}

func TestRewritingSameContentEmitsNothing(t *testing.T) {
	r, out := newClean(t, 8, 4)
	g := r.Grid()
	g.Set(1, 1, 'q', red, black, grid.AttrNormal)
	r.Update()

	out.Reset()
	g.Set(1, 1, 'q', red, black, grid.AttrNormal)
	g.GetRegion(0, 3, 8, 1).Fill(black)
	g.GetRegion(0, 3, 8, 1).Text(0, 0, "        ", grid.DefaultFg, black, grid.AttrNormal)
	r.Update()
	assert.Zero(t, out.Len())
	assert.Equal(t, 0, r.Stats().Runs)
}

func TestOnlyRenderedCellsAreCleaned(t *testing.T) {
	r, _ := newClean(t, 6, 2)
	g := r.Grid()
	g.Set(0, 0, 'a', red, black, grid.AttrNormal)
	g.Set(5, 1, 'b', red, black, grid.AttrNormal)

	r.Update()
	for y := 0; y < 2; y++ {
		for x := 0; x < 6; x++ {
			assert.False(t, g.At(x, y).Dirty)
		}
	}
}

func TestGlyphFilter(t *testing.T) {
	r, out := newClean(t, 6, 1)
	g := r.Grid()
	for x, ch := range []rune{'\t', 0x07, 200, '~', 0x7f, '\r'} {
		g.Set(x, 0, ch, red, black, grid.AttrNormal)
	}

	r.Update()
	assert.Contains(t, out.String(), "\t  ~ \r")
}

func TestResizeForcesFullRefresh(t *testing.T) {
	r, out := newClean(t, 4, 2)
	r.Grid().Set(1, 1, 'm', red, black, grid.AttrNormal)
	r.Update()

	out.w, out.h = 6, 3
	out.Reset()
	r.Update()

	st := r.Stats()
	assert.True(t, st.FullRefresh)
	assert.Equal(t, 3, st.Rows)
	assert.Equal(t, 6, r.Grid().Width())
	assert.Equal(t, byte('m'), r.Grid().At(1, 1).Glyph)
	assert.True(t, strings.Contains(out.String(), "\x1b[2J"))
}

func TestFullRefreshDrawsWholeRowsAsRuns(t *testing.T) {
	out := &testOutput{w: 5, h: 2}
	r := NewRenderer(grid.New(5, 2), out)
	r.Update()

	st := r.Stats()
	assert.True(t, st.FullRefresh)
	assert.Equal(t, 2, st.Runs)
	assert.Equal(t, 10, st.Cells)
}

func TestReentrantUpdateIsSkipped(t *testing.T) {
	out := &testOutput{w: 3, h: 1}
	r := NewRenderer(grid.New(3, 1), out)

	nested := 0
	out.onWrite = func() {
		nested++
		r.Update()
	}

	assert.NotPanics(t, r.Update)
	assert.Equal(t, 1, nested)
	assert.Equal(t, uint64(1), r.Stats().Frames)
}

func TestVisibleCursorIsHiddenAndRestored(t *testing.T) {
	r, out := newClean(t, 10, 5)
	r.MoveCursor(4, 2)
	r.SetCursorVisible(true)
	out.Reset()

	r.Grid().Set(0, 0, 'z', red, black, grid.AttrNormal)
	r.Update()

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "\x1b[?25l"))
	assert.True(t, strings.HasSuffix(s, "\x1b[3;5H\x1b[?25h"))
}

func TestHiddenCursorUntouched(t *testing.T) {
	r, out := newClean(t, 10, 5)
	r.Grid().Set(0, 0, 'z', red, black, grid.AttrNormal)
	r.Update()
	assert.NotContains(t, out.String(), "\x1b[?25")
}

func TestCursorShapeAndClamp(t *testing.T) {
	r, out := newClean(t, 10, 5)
	r.SetCursorShape(CursorBlinkingUnderline)
	assert.Equal(t, "\x1b[3q", out.String())

	out.Reset()
	r.SetCursorShape(CursorShape(9))
	assert.Zero(t, out.Len())

	r.MoveCursor(40, -3)
	assert.Equal(t, grid.Position{X: 9, Y: 0}, r.CursorPosition())
}

func TestScreenLifecycle(t *testing.T) {
	out := &testOutput{w: 4, h: 2}
	s := NewScreen(out)
	require.NoError(t, s.Init())
	assert.Contains(t, out.String(), "\x1b[?1049h")

	s.EnableMouse(true)
	assert.Contains(t, out.String(), "\x1b[?1006h")

	out.Reset()
	s.Fini()
	s.Fini()
	assert.Equal(t, 1, strings.Count(out.String(), "\x1b[?1049l"))
	assert.Contains(t, out.String(), "\x1b[?1006l")
}
