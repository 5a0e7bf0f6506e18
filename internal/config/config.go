// Package config loads the backdrop configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/byteoxo/backdrop/internal/backdrop"
	"github.com/byteoxo/backdrop/internal/effects"
)

// Config holds all backdrop configuration.
type Config struct {
	// Window settings
	Window WindowConfig `yaml:"window"`

	// Particle field
	Particles ParticlesConfig `yaml:"particles"`

	// Colours
	Theme ThemeConfig `yaml:"theme"`

	// Hero taglines
	Phrases []string `yaml:"phrases"`

	// 404 redirect
	Countdown CountdownConfig `yaml:"countdown"`

	// Terminal renderer
	Terminal TerminalConfig `yaml:"terminal"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Title      string  `yaml:"title"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TPS        int     `yaml:"tps"`
	PageHeight float64 `yaml:"page_height"` // Virtual page height for the scroll bar
}

// ParticlesConfig configures the particle field.
type ParticlesConfig struct {
	Count        int     `yaml:"count"`
	MaxSpeed     float64 `yaml:"max_speed"`
	MinRadius    float64 `yaml:"min_radius"`
	MaxRadius    float64 `yaml:"max_radius"`
	MinOpacity   float64 `yaml:"min_opacity"`
	MaxOpacity   float64 `yaml:"max_opacity"`
	LinkDistance float64 `yaml:"link_distance"`
	LinkOpacity  float64 `yaml:"link_opacity"`
	LayerOpacity float64 `yaml:"layer_opacity"`
	Seed         int64   `yaml:"seed"` // 0 seeds from the clock
}

// ThemeConfig holds hex colours.
type ThemeConfig struct {
	Background      string `yaml:"background"`
	Accent          string `yaml:"accent"`
	AccentSecondary string `yaml:"accent_secondary"`
	Foreground      string `yaml:"foreground"`
}

// CountdownConfig configures the 404 redirect.
type CountdownConfig struct {
	Seconds int `yaml:"seconds"`
}

// TerminalConfig configures the tcell renderer.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`  // Field units per column
	CellHeight float64 `yaml:"cell_height"` // Field units per row
	FPS        int     `yaml:"fps"`
	LineGain   float64 `yaml:"line_gain"` // Alpha boost for links on coarse cells
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	p := backdrop.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Title:      "byteoxo",
			Width:      1280,
			Height:     800,
			TPS:        60,
			PageHeight: 4000,
		},
		Particles: ParticlesConfig{
			Count:        p.Count,
			MaxSpeed:     p.MaxSpeed,
			MinRadius:    p.MinRadius,
			MaxRadius:    p.MaxRadius,
			MinOpacity:   p.MinOpacity,
			MaxOpacity:   p.MaxOpacity,
			LinkDistance: p.LinkDistance,
			LinkOpacity:  p.LinkOpacity,
			LayerOpacity: p.LayerOpacity,
		},
		Theme: ThemeConfig{
			Background:      "#0a0a0f",
			Accent:          "#00d4ff",
			AccentSecondary: "#7c3aed",
			Foreground:      "#f5f5f7",
		},
		Phrases:   append([]string(nil), effects.DefaultPhrases...),
		Countdown: CountdownConfig{Seconds: effects.DefaultCountdownSeconds},
		Terminal: TerminalConfig{
			CellWidth:  8,
			CellHeight: 16,
			FPS:        30,
			LineGain:   4,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies BACKDROP_PARTICLES and BACKDROP_SEED.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("BACKDROP_PARTICLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BACKDROP_PARTICLES %q: %w", v, err)
		}
		c.Particles.Count = n
	}
	if v := os.Getenv("BACKDROP_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BACKDROP_SEED %q: %w", v, err)
		}
		c.Particles.Seed = n
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window tps must be positive, got %d", c.Window.TPS)
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal cell size must be positive")
	}
	if c.Terminal.FPS <= 0 {
		return fmt.Errorf("terminal fps must be positive, got %d", c.Terminal.FPS)
	}
	if c.Terminal.LineGain <= 0 {
		return fmt.Errorf("terminal line_gain must be positive, got %g", c.Terminal.LineGain)
	}
	if _, err := c.Theme.Colors(); err != nil {
		return err
	}
	if err := c.Field().Validate(); err != nil {
		return fmt.Errorf("invalid particles config: %w", err)
	}
	return nil
}

// Field converts the particle settings into a backdrop configuration.
func (c *Config) Field() backdrop.Config {
	f := backdrop.Config{
		Count:        c.Particles.Count,
		MaxSpeed:     c.Particles.MaxSpeed,
		MinRadius:    c.Particles.MinRadius,
		MaxRadius:    c.Particles.MaxRadius,
		MinOpacity:   c.Particles.MinOpacity,
		MaxOpacity:   c.Particles.MaxOpacity,
		LinkDistance: c.Particles.LinkDistance,
		LinkOpacity:  c.Particles.LinkOpacity,
		LayerOpacity: c.Particles.LayerOpacity,
		Color:        backdrop.DefaultColor,
	}
	if colors, err := c.Theme.Colors(); err == nil {
		f.Color = colors.Accent
	}
	return f
}

// Palette is the parsed theme.
type Palette struct {
	Background      color.NRGBA
	Accent          color.NRGBA
	AccentSecondary color.NRGBA
	Foreground      color.NRGBA
}

// Colors parses the theme's hex strings.
func (t ThemeConfig) Colors() (Palette, error) {
	var p Palette
	for _, f := range []struct {
		name string
		hex  string
		dst  *color.NRGBA
	}{
		{"background", t.Background, &p.Background},
		{"accent", t.Accent, &p.Accent},
		{"accent_secondary", t.AccentSecondary, &p.AccentSecondary},
		{"foreground", t.Foreground, &p.Foreground},
	} {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid theme.%s %q: %w", f.name, f.hex, err)
		}
		r, g, b := c.RGB255()
		*f.dst = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return p, nil
}
