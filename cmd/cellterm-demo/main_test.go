package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cellterm/input"
	"github.com/lixenwraith/cellterm/session"
	"github.com/lixenwraith/cellterm/terminal"
)

func resetLogrus(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	resetLogrus(t)

	f := setupLogging(false, filepath.Join(t.TempDir(), "logs", "cellterm.log"))
	assert.Nil(t, f)
	assert.Equal(t, io.Discard, logrus.StandardLogger().Out)
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	resetLogrus(t)
	path := filepath.Join(t.TempDir(), "logs", "cellterm.log")

	f := setupLogging(true, path)
	require.NotNil(t, f)
	defer f.Close()

	assert.Same(t, f, logrus.StandardLogger().Out)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.Debug("test log message")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestSetupLogging_Rotation(t *testing.T) {
	resetLogrus(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "cellterm.log")
	require.NoError(t, os.WriteFile(path, make([]byte, maxLogSize+1), 0644))

	f := setupLogging(true, path)
	require.NotNil(t, f)
	defer f.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

func TestLoadConfigFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CELLTERM_MODE", "filter")
	t.Setenv("CELLTERM_BELL", "off")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlags(fs)
	require.NoError(t, fs.Parse([]string{"--mode", "event", "-d"}))

	cfg, err := loadConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, session.ModeEvent, cfg.Mode)
	assert.Equal(t, "off", cfg.Bell)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlags(fs)
	require.NoError(t, fs.Parse([]string{"--binding", "sdl"}))

	_, err := loadConfig(fs)
	assert.Error(t, err)
}

type idleBackend struct{}

func (idleBackend) Init() error               { return nil }
func (idleBackend) Fini()                     {}
func (idleBackend) Poll() (input.Event, bool) { return input.Event{}, false }
func (idleBackend) Size() (int, int)          { return 40, 12 }

func newTestDemo(t *testing.T) (*demo, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	out := terminal.NewWriterOutput(&buf, func() (int, int) { return 40, 12 })
	log := logrus.New()
	log.SetOutput(io.Discard)
	sess, err := session.New(session.DefaultConfig(), session.WithOutput(out), session.WithBackend(idleBackend{}), session.WithLogger(log))
	require.NoError(t, err)
	return newDemo(sess), &buf
}

func TestDemoQuitKeys(t *testing.T) {
	d, _ := newTestDemo(t)

	assert.True(t, d.handle(input.KeyboardEvent('q', 'q', input.ModNone)))
	assert.True(t, d.handle(input.KeyboardEvent('c', 3, input.ModCtrl)))
	assert.True(t, d.handle(input.KeyboardEvent(27, 27, input.ModNone)))
	assert.False(t, d.handle(input.KeyboardEvent('q', 'q', input.ModAlt)))
	assert.False(t, d.handle(input.KeyboardEvent(27, 27, input.ModAlt)))
}

func TestDemoDragsMarker(t *testing.T) {
	d, _ := newTestDemo(t)
	x, y := d.markerX, d.markerY

	// Press away from the marker does not grab it
	d.handle(input.MouseEvent(0, 0, 1))
	assert.False(t, d.dragging)

	d.handle(input.MouseEvent(x+1, y, 1))
	require.True(t, d.dragging)

	d.handle(input.MouseEvent(5, 3, 1))
	assert.Equal(t, 5, d.markerX)
	assert.Equal(t, 3, d.markerY)

	// Clamped so the whole marker stays on screen
	d.handle(input.MouseEvent(39, 20, 1))
	assert.Equal(t, 37, d.markerX)
	assert.Equal(t, 11, d.markerY)

	d.handle(input.MouseEvent(10, 10, 0))
	assert.False(t, d.dragging)
	assert.Equal(t, 37, d.markerX)
}

func TestDemoArrowKeysMoveMarker(t *testing.T) {
	d, _ := newTestDemo(t)
	x, y := d.markerX, d.markerY

	d.handle(input.NamedKeyEvent(input.KeyUp, 259, input.ModNone))
	d.handle(input.NamedKeyEvent(input.KeyRight, 261, input.ModNone))
	assert.Equal(t, x+1, d.markerX)
	assert.Equal(t, y-1, d.markerY)
}

func TestDemoLogIsBounded(t *testing.T) {
	d, _ := newTestDemo(t)
	for i := 0; i < maxLog+5; i++ {
		d.handle(input.KeyboardEvent('a', 'a', input.ModNone))
	}
	assert.Len(t, d.eventLog, maxLog)
	assert.Equal(t, maxLog+5, d.count.Get())
}

func TestDemoRenderDrawsScene(t *testing.T) {
	d, buf := newTestDemo(t)
	d.handle(input.KeyboardEvent('z', 'z', input.ModNone))
	d.render()

	g := d.sess.Grid()
	assert.Equal(t, byte('X'), g.At(d.markerX+1, d.markerY).Glyph)
	assert.Equal(t, colorBar, g.At(0, 11).Bg)
	assert.Contains(t, buf.String(), "Size: 40x12")
	assert.False(t, g.RowDirty(0))
}

func TestDemoUnchangedFrameWritesNothing(t *testing.T) {
	d, buf := newTestDemo(t)
	d.render()
	require.NotZero(t, buf.Len())

	buf.Reset()
	d.render()
	assert.Zero(t, buf.Len())

	// Moving the marker redraws only the affected cells
	d.handle(input.NamedKeyEvent(input.KeyLeft, 260, input.ModNone))
	d.render()
	assert.NotZero(t, buf.Len())
	assert.Less(t, d.sess.Screen().Renderer().Stats().Rows, 12)
}

func TestDemoBellKey(t *testing.T) {
	d, buf := newTestDemo(t)
	d.handle(input.KeyboardEvent('b', 'b', input.ModNone))
	assert.Contains(t, buf.String(), "\x07")
}
