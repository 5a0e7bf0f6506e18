package backdrop

import (
	"image/color"
	"math"
)

// Surface is anything the field can be painted on.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	StrokeLine(x0, y0, x1, y1 float64, c color.Color)
}

// Link is a proximity line between particles I and J, I < J.
type Link struct {
	I, J    int
	Opacity float64
}

// LinkOpacity returns the opacity of the line between a and b and whether it
// is drawn at all. The result does not depend on argument order.
func LinkOpacity(a, b Particle, cfg Config) (float64, bool) {
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	if d >= cfg.LinkDistance {
		return 0, false
	}
	return cfg.LinkOpacity * (1 - d/cfg.LinkDistance), true
}

// Links enumerates every unordered pair and returns the ones close enough to
// connect. Quadratic in the particle count.
func Links(particles []Particle, cfg Config) []Link {
	var links []Link
	for i := range particles {
		for j := i + 1; j < len(particles); j++ {
			if o, ok := LinkOpacity(particles[i], particles[j], cfg); ok {
				links = append(links, Link{I: i, J: j, Opacity: o})
			}
		}
	}
	return links
}

// Render paints one frame of f: clear, dots, then links.
func Render(s Surface, f *Field) {
	if s == nil || f == nil {
		return
	}
	s.Clear()

	for _, p := range f.Particles {
		s.FillCircle(p.X, p.Y, p.Radius, withAlpha(f.cfg.Color, p.Opacity))
	}

	for _, l := range Links(f.Particles, f.cfg) {
		a, b := f.Particles[l.I], f.Particles[l.J]
		s.StrokeLine(a.X, a.Y, b.X, b.Y, withAlpha(f.cfg.Color, l.Opacity))
	}
}
