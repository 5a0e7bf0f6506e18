package effects

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"
)

// Background grid and orb constants
const (
	GridSpacing   = 60.0
	GridOpacity   = 0.02
	DefaultWobble = 12.0

	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
	wobbleRate  = 0.15 // noise units per second
)

// Orb is one blurred colour blob of the grid background. It oscillates from
// its rest state to the peak values and back once per Period.
type Orb struct {
	AnchorX, AnchorY float64 // Rest centre as a fraction of the viewport
	Radius           float64
	Opacity          float64
	Secondary        bool // Painted with the secondary accent
	Period           time.Duration
	DX, DY           float64 // Peak translation
	ScalePeak        float64 // Peak scale, 1 for none
	OpacityPeak      float64 // Peak opacity, equal to Opacity for none
	Eased            bool    // Ease in and out instead of linear
}

// OrbState is an orb resolved for one frame in viewport coordinates.
type OrbState struct {
	X, Y      float64
	Radius    float64
	Opacity   float64
	Secondary bool
}

// DefaultOrbs returns the three orbs of the site background.
func DefaultOrbs() []Orb {
	return []Orb{
		{AnchorX: 0, AnchorY: 0, Radius: 160, Opacity: 0.2, Period: 20 * time.Second, DX: 100, DY: 50, ScalePeak: 1, OpacityPeak: 0.2},
		{AnchorX: 1, AnchorY: 1, Radius: 160, Opacity: 0.2, Secondary: true, Period: 25 * time.Second, DX: -100, DY: -50, ScalePeak: 1, OpacityPeak: 0.2},
		{AnchorX: 0.5, AnchorY: 0.5, Radius: 192, Opacity: 0.3, Period: 15 * time.Second, ScalePeak: 1.2, OpacityPeak: 0.5, Eased: true},
	}
}

// Orbs animates a set of orbs with a slow Perlin wobble on their centres.
type Orbs struct {
	Wobble  float64
	orbs    []Orb
	elapsed time.Duration
	noise   *perlin.Perlin
}

// NewOrbs returns the orb animation at time zero.
func NewOrbs(orbs []Orb, seed int64) *Orbs {
	return &Orbs{
		Wobble: DefaultWobble,
		orbs:   orbs,
		noise:  perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
	}
}

// Advance moves the animation clock forward.
func (o *Orbs) Advance(dt time.Duration) {
	o.elapsed += dt
}

// States resolves every orb for a width x height viewport.
func (o *Orbs) States(width, height float64) []OrbState {
	states := make([]OrbState, len(o.orbs))
	t := o.elapsed.Seconds()
	for i, orb := range o.orbs {
		k := triangle(o.elapsed, orb.Period)
		if orb.Eased {
			k = 0.5 - 0.5*math.Cos(math.Pi*k)
		}
		wx := o.noise.Noise2D(t*wobbleRate, float64(i)) * o.Wobble
		wy := o.noise.Noise2D(float64(i), t*wobbleRate) * o.Wobble

		states[i] = OrbState{
			X:         orb.AnchorX*width + orb.DX*k + wx,
			Y:         orb.AnchorY*height + orb.DY*k + wy,
			Radius:    orb.Radius * lerp(1, orb.ScalePeak, k),
			Opacity:   lerp(orb.Opacity, orb.OpacityPeak, k),
			Secondary: orb.Secondary,
		}
	}
	return states
}

// triangle maps elapsed time to 0 -> 1 -> 0 over one period.
func triangle(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	phase := float64(elapsed%period) / float64(period)
	return 1 - math.Abs(2*phase-1)
}

func lerp(a, b, k float64) float64 {
	return a + (b-a)*k
}
