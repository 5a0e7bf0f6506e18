// Package backdrop implements the decorative particle field drawn behind page
// content: drifting points that bounce off the viewport edges and connect to
// their near neighbours with faint lines.
package backdrop

import (
	"fmt"
	"image/color"
)

// Field constants
const (
	DefaultCount        = 50
	DefaultMaxSpeed     = 0.25
	DefaultMinRadius    = 1.0
	DefaultMaxRadius    = 3.0
	DefaultMinOpacity   = 0.2
	DefaultMaxOpacity   = 0.7
	DefaultLinkDistance = 150.0
	DefaultLinkOpacity  = 0.1
	DefaultLayerOpacity = 0.6
)

// DefaultColor is the accent cyan, rgb(0, 212, 255).
var DefaultColor = color.NRGBA{R: 0, G: 212, B: 255, A: 255}

// Particle is a single animated point. It has no identity beyond its index.
type Particle struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity, units per frame
	Radius  float64
	Opacity float64
}

// Config holds the tunables of one particle field.
type Config struct {
	Count        int
	MaxSpeed     float64 // Each velocity axis is uniform in [-MaxSpeed, MaxSpeed)
	MinRadius    float64
	MaxRadius    float64
	MinOpacity   float64
	MaxOpacity   float64
	LinkDistance float64 // Pairs closer than this are connected
	LinkOpacity  float64 // Opacity of a link between coincident particles
	LayerOpacity float64 // Opacity the whole layer is composited at
	Color        color.NRGBA
}

// DefaultConfig returns the field configuration used on every page.
func DefaultConfig() Config {
	return Config{
		Count:        DefaultCount,
		MaxSpeed:     DefaultMaxSpeed,
		MinRadius:    DefaultMinRadius,
		MaxRadius:    DefaultMaxRadius,
		MinOpacity:   DefaultMinOpacity,
		MaxOpacity:   DefaultMaxOpacity,
		LinkDistance: DefaultLinkDistance,
		LinkOpacity:  DefaultLinkOpacity,
		LayerOpacity: DefaultLayerOpacity,
		Color:        DefaultColor,
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("particle count must be positive, got %d", c.Count)
	case c.MaxSpeed < 0:
		return fmt.Errorf("max speed must not be negative, got %g", c.MaxSpeed)
	case c.MinRadius <= 0 || c.MaxRadius < c.MinRadius:
		return fmt.Errorf("invalid radius range [%g, %g]", c.MinRadius, c.MaxRadius)
	case c.MinOpacity < 0 || c.MaxOpacity > 1 || c.MaxOpacity < c.MinOpacity:
		return fmt.Errorf("invalid opacity range [%g, %g]", c.MinOpacity, c.MaxOpacity)
	case c.LinkDistance <= 0:
		return fmt.Errorf("link distance must be positive, got %g", c.LinkDistance)
	case c.LinkOpacity < 0 || c.LinkOpacity > 1:
		return fmt.Errorf("link opacity out of [0, 1]: %g", c.LinkOpacity)
	case c.LayerOpacity < 0 || c.LayerOpacity > 1:
		return fmt.Errorf("layer opacity out of [0, 1]: %g", c.LayerOpacity)
	}
	return nil
}

// withAlpha returns c with its alpha replaced by opacity in [0, 1].
func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}
