package effects

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Follower spring parameters
const (
	DefaultStiffness = 150.0
	DefaultDamping   = 25.0
	DefaultMass      = 1.0
)

// Spring pulls a point towards a target, used for the glow that trails the
// mouse cursor. Stiffness, Damping and Mass describe the oscillator; the
// motion itself is solved by harmonica at the step size the host ticks at.
type Spring struct {
	X, Y      float64
	vx, vy    float64
	tx, ty    float64
	Stiffness float64
	Damping   float64
	Mass      float64

	motion harmonica.Spring
	dt     time.Duration
	params [3]float64
}

// NewSpring returns a spring at rest at (x, y).
func NewSpring(x, y float64) *Spring {
	return &Spring{
		X: x, Y: y, tx: x, ty: y,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
		Mass:      DefaultMass,
	}
}

// AngularFrequency is sqrt(k/m).
func (s *Spring) AngularFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.Mass)
}

// DampingRatio is c / (2 sqrt(k m)).
func (s *Spring) DampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
}

// SetTarget moves the point the spring is pulled towards.
func (s *Spring) SetTarget(x, y float64) {
	s.tx, s.ty = x, y
}

// Step advances the spring by dt. The harmonica coefficients are rebuilt only
// when dt or the parameters change.
func (s *Spring) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	params := [3]float64{s.Stiffness, s.Damping, s.Mass}
	if dt != s.dt || params != s.params {
		s.motion = harmonica.NewSpring(dt.Seconds(), s.AngularFrequency(), s.DampingRatio())
		s.dt, s.params = dt, params
	}
	s.X, s.vx = s.motion.Update(s.X, s.vx, s.tx)
	s.Y, s.vy = s.motion.Update(s.Y, s.vy, s.ty)
}

// Settled reports whether the spring is within eps of its target and nearly
// at rest.
func (s *Spring) Settled(eps float64) bool {
	return math.Hypot(s.X-s.tx, s.Y-s.ty) < eps && math.Hypot(s.vx, s.vy) < eps
}
