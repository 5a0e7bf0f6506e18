package backdrop

import "math/rand"

// Field is the particle state of one mounted effect.
type Field struct {
	Width, Height float64
	Particles     []Particle
	cfg           Config
}

// NewField seeds cfg.Count particles uniformly inside a width x height viewport.
func NewField(width, height float64, cfg Config, rng *rand.Rand) *Field {
	f := &Field{
		Width:     width,
		Height:    height,
		Particles: make([]Particle, cfg.Count),
		cfg:       cfg,
	}
	for i := range f.Particles {
		f.Particles[i] = Particle{
			X:       rng.Float64() * width,
			Y:       rng.Float64() * height,
			VX:      (rng.Float64()*2 - 1) * cfg.MaxSpeed,
			VY:      (rng.Float64()*2 - 1) * cfg.MaxSpeed,
			Radius:  cfg.MinRadius + rng.Float64()*(cfg.MaxRadius-cfg.MinRadius),
			Opacity: cfg.MinOpacity + rng.Float64()*(cfg.MaxOpacity-cfg.MinOpacity),
		}
	}
	return f
}

// Config returns the configuration the field was seeded with.
func (f *Field) Config() Config {
	return f.cfg
}

// Step advances every particle by one frame. A particle that lands outside
// the viewport has that axis' velocity negated; its position is not clamped,
// so it may sit just outside the edge for a frame.
func (f *Field) Step() {
	for i := range f.Particles {
		p := &f.Particles[i]
		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 || p.X > f.Width {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > f.Height {
			p.VY = -p.VY
		}
	}
}

// Resize changes the viewport bounds. Existing particles keep their positions.
func (f *Field) Resize(width, height float64) {
	f.Width = width
	f.Height = height
}
