package backdrop

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedLine struct {
	x0, y0, x1, y1 float64
	c              color.NRGBA
}

// recorder is a Surface that keeps what was drawn since the last Clear.
type recorder struct {
	clears  int
	circles []Particle
	colors  []color.NRGBA
	lines   []recordedLine
}

func (r *recorder) Clear() {
	r.clears++
	r.circles = r.circles[:0]
	r.colors = r.colors[:0]
	r.lines = r.lines[:0]
}

func (r *recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.circles = append(r.circles, Particle{X: x, Y: y, Radius: rad})
	r.colors = append(r.colors, color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (r *recorder) StrokeLine(x0, y0, x1, y1 float64, c color.Color) {
	r.lines = append(r.lines, recordedLine{x0, y0, x1, y1, color.NRGBAModel.Convert(c).(color.NRGBA)})
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestNewFieldRanges(t *testing.T) {
	cfg := DefaultConfig()
	f := NewField(800, 600, cfg, seeded())

	require.Len(t, f.Particles, DefaultCount)
	for i, p := range f.Particles {
		assert.GreaterOrEqual(t, p.X, 0.0, "particle %d x", i)
		assert.LessOrEqual(t, p.X, 800.0, "particle %d x", i)
		assert.GreaterOrEqual(t, p.Y, 0.0, "particle %d y", i)
		assert.LessOrEqual(t, p.Y, 600.0, "particle %d y", i)
		assert.LessOrEqual(t, math.Abs(p.VX), cfg.MaxSpeed)
		assert.LessOrEqual(t, math.Abs(p.VY), cfg.MaxSpeed)
		assert.GreaterOrEqual(t, p.Radius, cfg.MinRadius)
		assert.Less(t, p.Radius, cfg.MaxRadius)
		assert.GreaterOrEqual(t, p.Opacity, cfg.MinOpacity)
		assert.Less(t, p.Opacity, cfg.MaxOpacity)
	}
}

func TestStepReflectsAtBounds(t *testing.T) {
	f := &Field{
		Width:  100,
		Height: 50,
		cfg:    DefaultConfig(),
		Particles: []Particle{
			{X: 99.9, Y: 10, VX: 0.25, VY: 0.1}, // crosses right edge
			{X: 0.1, Y: 10, VX: -0.25, VY: 0.1}, // crosses left edge
			{X: 10, Y: 49.95, VX: 0.1, VY: 0.2}, // crosses bottom edge
			{X: 10, Y: 0.05, VX: 0.1, VY: -0.2}, // crosses top edge
			{X: 50, Y: 25, VX: 0.25, VY: -0.25}, // stays inside
		},
	}
	f.Step()

	assert.Equal(t, -0.25, f.Particles[0].VX)
	assert.Equal(t, 0.1, f.Particles[0].VY)
	assert.Equal(t, 0.25, f.Particles[1].VX)
	assert.Equal(t, -0.2, f.Particles[2].VY)
	assert.Equal(t, 0.2, f.Particles[3].VY)
	assert.Equal(t, 0.25, f.Particles[4].VX)
	assert.Equal(t, -0.25, f.Particles[4].VY)

	// Not clamped: the particle sits just past the edge for this frame.
	assert.Greater(t, f.Particles[0].X, 100.0)

	f.Step()
	assert.Less(t, f.Particles[0].X, 100.0)
}

func TestStepPreservesCountAndSpeed(t *testing.T) {
	f := NewField(320, 240, DefaultConfig(), seeded())
	speeds := make([][2]float64, len(f.Particles))
	for i, p := range f.Particles {
		speeds[i] = [2]float64{math.Abs(p.VX), math.Abs(p.VY)}
	}

	for n := 0; n < 5000; n++ {
		f.Step()
		require.Len(t, f.Particles, DefaultCount)
	}

	for i, p := range f.Particles {
		assert.Equal(t, speeds[i][0], math.Abs(p.VX), "particle %d vx magnitude", i)
		assert.Equal(t, speeds[i][1], math.Abs(p.VY), "particle %d vy magnitude", i)
		assert.GreaterOrEqual(t, p.X, -DefaultMaxSpeed)
		assert.LessOrEqual(t, p.X, 320+DefaultMaxSpeed)
		assert.GreaterOrEqual(t, p.Y, -DefaultMaxSpeed)
		assert.LessOrEqual(t, p.Y, 240+DefaultMaxSpeed)
	}
}

func TestLinkOpacity(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		a, b   Particle
		want   float64
		linked bool
	}{
		{"coincident", Particle{X: 10, Y: 10}, Particle{X: 10, Y: 10}, 0.1, true},
		{"half distance", Particle{X: 0, Y: 0}, Particle{X: 75, Y: 0}, 0.05, true},
		{"diagonal", Particle{X: 0, Y: 0}, Particle{X: 90, Y: 120}, 0.0, false},
		{"just inside", Particle{X: 0, Y: 0}, Particle{X: 0, Y: 149}, 0.1 / 150, true},
		{"beyond", Particle{X: 0, Y: 0}, Particle{X: 300, Y: 0}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LinkOpacity(tt.a, tt.b, cfg)
			assert.Equal(t, tt.linked, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestLinkOpacitySymmetric(t *testing.T) {
	cfg := DefaultConfig()
	f := NewField(400, 400, cfg, seeded())
	for i, a := range f.Particles {
		for j, b := range f.Particles {
			ab, okAB := LinkOpacity(a, b, cfg)
			ba, okBA := LinkOpacity(b, a, cfg)
			require.Equal(t, okAB, okBA, "pair (%d,%d)", i, j)
			require.Equal(t, ab, ba, "pair (%d,%d)", i, j)
		}
	}
}

func TestLinksEnumeratesUnorderedPairs(t *testing.T) {
	cfg := DefaultConfig()
	ps := []Particle{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 1000, Y: 0}}

	links := Links(ps, cfg)
	require.Len(t, links, 3)
	for _, l := range links {
		assert.Less(t, l.I, l.J)
		assert.NotEqual(t, 3, l.J)
	}
}

func TestRenderOrder(t *testing.T) {
	cfg := DefaultConfig()
	f := &Field{
		Width:     200,
		Height:    200,
		cfg:       cfg,
		Particles: []Particle{{X: 10, Y: 10, Radius: 2, Opacity: 0.5}, {X: 85, Y: 10, Radius: 1, Opacity: 0.2}},
	}
	r := &recorder{}
	Render(r, f)

	assert.Equal(t, 1, r.clears)
	require.Len(t, r.circles, 2)
	assert.Equal(t, 2.0, r.circles[0].Radius)
	assert.Equal(t, uint8(128), r.colors[0].A)
	assert.Equal(t, uint8(212), r.colors[0].G)

	require.Len(t, r.lines, 1)
	assert.Equal(t, recordedLine{10, 10, 85, 10, withAlpha(cfg.Color, 0.05)}, r.lines[0])
}

func TestRenderNilSurface(t *testing.T) {
	f := NewField(100, 100, DefaultConfig(), seeded())
	assert.NotPanics(t, func() { Render(nil, f) })
}

func TestEffectLifecycle(t *testing.T) {
	e := NewEffect(DefaultConfig(), seeded())
	r := &recorder{}

	assert.False(t, e.Frame(r), "frame before mount")
	assert.Equal(t, 0, r.clears)

	require.True(t, e.Mount(640, 480))
	require.True(t, e.Frame(r))
	assert.Equal(t, 1, r.clears)
	assert.Len(t, r.circles, DefaultCount)
	assert.Equal(t, uint64(1), e.Loop().Frames())

	first := e.Field()
	require.True(t, e.Mount(10, 10), "second mount keeps the field")
	assert.Same(t, first, e.Field())

	e.Unmount()
	assert.False(t, e.Mounted())
	assert.False(t, e.Frame(r))
	assert.False(t, e.Update())
	assert.Equal(t, 1, r.clears)
	assert.Equal(t, uint64(1), e.Loop().Frames())

	require.True(t, e.Mount(320, 240), "remount after unmount")
	assert.True(t, e.Mounted())
	assert.NotSame(t, first, e.Field())
	assert.Equal(t, 320.0, e.Field().Width)
	assert.Equal(t, uint64(0), e.Loop().Frames())
	assert.True(t, e.Frame(r))
	assert.Equal(t, 2, r.clears)
}

func TestEffectWithoutSurfaceIsNoop(t *testing.T) {
	e := NewEffect(DefaultConfig(), seeded())
	assert.False(t, e.Mount(0, 480))
	assert.Nil(t, e.Field())

	r := &recorder{}
	assert.NotPanics(t, func() {
		e.Resize(100, 100)
		e.Draw(r)
		e.Unmount()
	})
	assert.False(t, e.Update())
	assert.Equal(t, 0, r.clears)
}

func TestResizeIdempotentWithoutReseed(t *testing.T) {
	e := NewEffect(DefaultConfig(), seeded())
	require.True(t, e.Mount(800, 600))
	before := append([]Particle(nil), e.Field().Particles...)

	e.Resize(300, 200)
	w1, h1 := e.Field().Width, e.Field().Height
	e.Resize(300, 200)

	assert.Equal(t, w1, e.Field().Width)
	assert.Equal(t, h1, e.Field().Height)
	assert.Equal(t, 300.0, e.Field().Width)
	assert.Equal(t, 200.0, e.Field().Height)
	assert.Equal(t, before, e.Field().Particles)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.Count = 0 },
		func(c *Config) { c.MaxSpeed = -1 },
		func(c *Config) { c.MinRadius, c.MaxRadius = 3, 1 },
		func(c *Config) { c.MaxOpacity = 1.5 },
		func(c *Config) { c.LinkDistance = 0 },
		func(c *Config) { c.LinkOpacity = 2 },
		func(c *Config) { c.LayerOpacity = -0.1 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}
