package terminal

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/byteoxo/backdrop/internal/backdrop"
	"github.com/byteoxo/backdrop/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	return screen
}

func countRunes(screen tcell.Screen, want rune) int {
	cols, rows := screen.Size()
	n := 0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r == want {
				n++
			}
		}
	}
	return n
}

func TestSurfaceDotsAndLines(t *testing.T) {
	screen := newScreen(t, 20, 10)
	defer screen.Fini()
	s := NewSurface(screen, 8, 16, 4, color.Black)

	s.Clear()
	s.FillCircle(4, 8, 2, color.NRGBA{0, 212, 255, 128})
	s.FillCircle(80, 8, 2, color.NRGBA{0, 212, 255, 128})
	s.StrokeLine(4, 8, 80, 8, color.NRGBA{0, 212, 255, 25})

	r, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, dotRune, r)
	r, _, _, _ = screen.GetContent(10, 0)
	assert.Equal(t, dotRune, r, "line must not overwrite dots")
	assert.Equal(t, 9, countRunes(screen, lineRune))

	s.Clear()
	assert.Equal(t, 0, countRunes(screen, dotRune))
}

func TestSurfaceClipsOutside(t *testing.T) {
	screen := newScreen(t, 10, 5)
	defer screen.Fini()
	s := NewSurface(screen, 8, 16, 1, color.Black)
	s.Clear()

	assert.NotPanics(t, func() {
		s.FillCircle(-1, -1, 1, color.White)
		s.FillCircle(1000, 1000, 1, color.White)
		s.StrokeLine(-50, 8, 500, 8, color.White)
	})
	assert.Equal(t, 0, countRunes(screen, dotRune))
	assert.Equal(t, 10, countRunes(screen, lineRune))
}

func TestSurfaceExtent(t *testing.T) {
	screen := newScreen(t, 80, 24)
	defer screen.Fini()
	s := NewSurface(screen, 8, 16, 1, color.Black)

	w, h := s.Extent()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)
	col, row := s.Cell(639.9, 383.9)
	assert.Equal(t, 79, col)
	assert.Equal(t, 23, row)
}

func newTestHost(t *testing.T, screen tcell.Screen) *Host {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Particles.Seed = 3
	h, err := New(screen, cfg, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	return h
}

func TestHostFrame(t *testing.T) {
	screen := newScreen(t, 120, 40)
	defer screen.Fini()
	h := newTestHost(t, screen)
	require.True(t, h.Effect().Mounted())

	h.frame(100 * time.Millisecond)
	assert.Greater(t, countRunes(screen, dotRune), 0)
	assert.Equal(t, uint64(1), h.Effect().Loop().Frames())

	// "F_" centred on a 120 column screen.
	r, _, _, _ := screen.GetContent(59, 20)
	assert.Equal(t, 'F', r, "first typed rune of the first phrase")
}

func TestHostFrameClearsWithoutField(t *testing.T) {
	screen := newScreen(t, 40, 12)
	defer screen.Fini()
	h := newTestHost(t, screen)
	h.Effect().Unmount()

	screen.SetContent(0, 6, 'Z', nil, tcell.StyleDefault)
	screen.SetContent(3, 2, dotRune, nil, tcell.StyleDefault)
	h.frame(10 * time.Millisecond)

	r, _, _, _ := screen.GetContent(0, 6)
	assert.Equal(t, ' ', r, "stale text is erased")
	assert.Equal(t, 0, countRunes(screen, dotRune))
	r, _, _, _ = screen.GetContent(19, 6)
	assert.Equal(t, '_', r, "cursor still drawn")
}

func TestHostResize(t *testing.T) {
	screen := newScreen(t, 80, 24)
	defer screen.Fini()
	h := newTestHost(t, screen)
	before := append([]backdrop.Particle(nil), h.Effect().Field().Particles...)

	screen.SetSize(40, 12)
	h.handle(tcell.NewEventResize(40, 12))
	h.handle(tcell.NewEventResize(40, 12))

	f := h.Effect().Field()
	assert.Equal(t, 320.0, f.Width)
	assert.Equal(t, 192.0, f.Height)
	assert.Equal(t, before, f.Particles)
}

func TestHostQuitKey(t *testing.T) {
	screen := newScreen(t, 40, 12)
	h := newTestHost(t, screen)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("host did not stop on q")
	}
	assert.False(t, h.Effect().Mounted())
}

func TestHostContextCancel(t *testing.T) {
	screen := newScreen(t, 40, 12)
	h := newTestHost(t, screen)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Run(ctx), context.DeadlineExceeded)
	assert.Greater(t, h.Effect().Loop().Frames(), uint64(0))
}
