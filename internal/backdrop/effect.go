package backdrop

import (
	"math/rand"

	"github.com/byteoxo/backdrop/internal/loop"
)

// Effect binds a particle field to a viewport. It is created unmounted;
// Mount seeds the field and starts the frame loop, Unmount stops it.
//
// If the viewport has no area when mounting (no drawing surface), the
// effect stays unmounted and every later call is a silent no-op.
type Effect struct {
	cfg   Config
	rng   *rand.Rand
	field *Field
	loop  *loop.Loop
}

// NewEffect returns an unmounted effect.
func NewEffect(cfg Config, rng *rand.Rand) *Effect {
	return &Effect{cfg: cfg, rng: rng}
}

// Mount seeds the field at the given viewport size. Mounting an effect that is
// already mounted does nothing; mounting after Unmount seeds a fresh field and
// loop. It reports whether the effect is mounted.
func (e *Effect) Mount(width, height float64) bool {
	if e.Mounted() {
		return true
	}
	if width <= 0 || height <= 0 {
		return false
	}
	e.field = NewField(width, height, e.cfg, e.rng)
	e.loop = loop.New(e.field.Step)
	return true
}

// Mounted reports whether Mount succeeded and Unmount has not been called.
func (e *Effect) Mounted() bool {
	return e.field != nil && !e.loop.Stopped()
}

// Resize updates the surface dimensions only. Particles are neither
// re-seeded nor moved back inside smaller bounds.
func (e *Effect) Resize(width, height float64) {
	if e.field == nil {
		return
	}
	e.field.Resize(width, height)
}

// Update advances the simulation by one frame. It reports false once the
// effect is unmounted or was never mounted.
func (e *Effect) Update() bool {
	if e.loop == nil {
		return false
	}
	return e.loop.Tick()
}

// Draw renders the current state onto s.
func (e *Effect) Draw(s Surface) {
	if !e.Mounted() {
		return
	}
	Render(s, e.field)
}

// Frame is Update followed by Draw.
func (e *Effect) Frame(s Surface) bool {
	if !e.Update() {
		return false
	}
	Render(s, e.field)
	return true
}

// Unmount stops the frame loop. The field is kept for inspection but is no
// longer advanced or drawn.
func (e *Effect) Unmount() {
	if e.loop != nil {
		e.loop.Stop()
	}
}

// Field returns the particle state, nil before a successful Mount.
func (e *Effect) Field() *Field {
	return e.field
}

// Loop returns the frame loop, nil before a successful Mount.
func (e *Effect) Loop() *loop.Loop {
	return e.loop
}

// Config returns the effect's field configuration.
func (e *Effect) Config() Config {
	return e.cfg
}
