// Package desktop runs the backdrop in an ebiten window: the particle field
// behind a hero typewriter or the 404 countdown page.
package desktop

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/byteoxo/backdrop/internal/backdrop"
	"github.com/byteoxo/backdrop/internal/config"
	"github.com/byteoxo/backdrop/internal/effects"
)

// Drawing constants
const (
	FollowerRadius  = 150.0
	FollowerOpacity = 0.05
	ProgressHeight  = 2.0
	glowRings       = 8
	gradientStep    = 8.0
	charWidth       = 6 // ebitenutil debug font
	charHeight      = 16
)

// Scene selects the page drawn over the backdrop.
type Scene int

const (
	SceneHome Scene = iota
	SceneNotFound
)

func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "home"
	case SceneNotFound:
		return "notfound"
	}
	return fmt.Sprintf("scene(%d)", int(s))
}

// Game is the ebiten game: state for one mounted page.
type Game struct {
	Width, Height float64
	Scene         Scene

	effect     *backdrop.Effect
	typewriter *effects.Typewriter
	countdown  *effects.Countdown
	scroller   *effects.Scroller
	follower   *effects.Spring
	orbs       *effects.Orbs
	palette    config.Palette
	layer      *ebiten.Image
	frame      time.Duration
	reloads    <-chan *config.Config
	done       <-chan struct{}
	logger     *zap.Logger
	quit       bool
}

// NewGame builds a game from cfg. reloads may be nil.
func NewGame(cfg *config.Config, scene Scene, reloads <-chan *config.Config, logger *zap.Logger) (*Game, error) {
	palette, err := cfg.Theme.Colors()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Particles.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		Scene:      scene,
		effect:     backdrop.NewEffect(cfg.Field(), rand.New(rand.NewSource(seed))),
		typewriter: effects.NewTypewriter(cfg.Phrases),
		scroller:   effects.NewScroller(cfg.Window.PageHeight),
		follower:   effects.NewSpring(float64(cfg.Window.Width)/2, float64(cfg.Window.Height)/2),
		orbs:       effects.NewOrbs(effects.DefaultOrbs(), seed),
		palette:    palette,
		frame:      time.Second / time.Duration(cfg.Window.TPS),
		reloads:    reloads,
		logger:     logger,
	}
	g.countdown = effects.NewCountdown(cfg.Countdown.Seconds, g.goHome)
	return g, nil
}

// Effect exposes the particle effect.
func (g *Game) Effect() *backdrop.Effect {
	return g.effect
}

// StopWhen makes the game terminate once done is closed.
func (g *Game) StopWhen(done <-chan struct{}) {
	g.done = done
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	g.handleInput()
	return g.step()
}

// step advances everything by one tick without reading input.
func (g *Game) step() error {
	g.applyReload()

	select {
	case <-g.done:
		g.quit = true
	default:
	}
	if g.quit {
		g.effect.Unmount()
		return ebiten.Termination
	}

	g.effect.Update()
	g.orbs.Advance(g.frame)
	g.follower.Step(g.frame)
	switch g.Scene {
	case SceneHome:
		g.typewriter.Advance(g.frame)
	case SceneNotFound:
		g.countdown.Advance(g.frame)
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)
	g.drawOrbs(screen)
	g.drawGrid(screen)
	g.drawParticles(screen)
	g.drawFollower(screen)
	g.drawProgress(screen)

	switch g.Scene {
	case SceneHome:
		g.drawHome(screen)
	case SceneNotFound:
		g.drawNotFound(screen)
	}
}

// Layout mounts the effect on the first non-empty size and forwards later
// size changes to it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := float64(outsideWidth), float64(outsideHeight)
	if g.effect.Field() == nil {
		if g.effect.Mount(w, h) {
			g.logger.Debug("Backdrop mounted",
				zap.Float64("width", w),
				zap.Float64("height", h),
				zap.Int("particles", len(g.effect.Field().Particles)))
		}
	} else if w != g.Width || h != g.Height {
		g.effect.Resize(w, h)
	}
	g.Width, g.Height = w, h
	return outsideWidth, outsideHeight
}

// handleInput processes keyboard and mouse input
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.quit = true
	}
	if g.Scene == SceneNotFound {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.countdown.Cancel()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.countdown.GoNow()
		}
	}

	_, wheelY := ebiten.Wheel()
	if wheelY != 0 {
		g.scroller.Wheel(wheelY, g.Height)
	}

	mx, my := ebiten.CursorPosition()
	g.follower.SetTarget(float64(mx), float64(my))
}

func (g *Game) goHome() {
	g.logger.Info("Redirecting", zap.Stringer("from", g.Scene), zap.Stringer("to", SceneHome))
	g.Scene = SceneHome
}

// applyReload takes the newest config from the watcher, if any.
func (g *Game) applyReload() {
	if g.reloads == nil {
		return
	}
	select {
	case cfg, ok := <-g.reloads:
		if !ok {
			g.reloads = nil
			return
		}
		g.applyConfig(cfg)
	default:
	}
}

func (g *Game) applyConfig(cfg *config.Config) {
	palette, err := cfg.Theme.Colors()
	if err != nil {
		g.logger.Warn("Ignoring theme", zap.Error(err))
	} else {
		g.palette = palette
	}
	g.typewriter.SetPhrases(cfg.Phrases)
	if cfg.Particles.Count != g.effect.Config().Count {
		g.logger.Info("Particle count applies on next start", zap.Int("count", cfg.Particles.Count))
	}
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	if !g.effect.Mounted() {
		return
	}
	b := screen.Bounds()
	if g.layer == nil || g.layer.Bounds() != b {
		if g.layer != nil {
			g.layer.Deallocate()
		}
		g.layer = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.effect.Draw(imageSurface{img: g.layer})

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(g.effect.Config().LayerOpacity))
	screen.DrawImage(g.layer, op)
}

func (g *Game) drawOrbs(screen *ebiten.Image) {
	for _, o := range g.orbs.States(g.Width, g.Height) {
		c := g.palette.Accent
		if o.Secondary {
			c = g.palette.AccentSecondary
		}
		glow(screen, o.X, o.Y, o.Radius, c, o.Opacity)
	}
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	c := color.NRGBA{R: 255, G: 255, B: 255, A: alpha(effects.GridOpacity)}
	for x := 0.0; x < g.Width; x += effects.GridSpacing {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(g.Height), 1, c, false)
	}
	for y := 0.0; y < g.Height; y += effects.GridSpacing {
		vector.StrokeLine(screen, 0, float32(y), float32(g.Width), float32(y), 1, c, false)
	}
}

func (g *Game) drawFollower(screen *ebiten.Image) {
	glow(screen, g.follower.X, g.follower.Y, FollowerRadius, g.palette.Accent, FollowerOpacity)
}

// drawProgress paints the accent gradient scroll bar along the top edge.
func (g *Game) drawProgress(screen *ebiten.Image) {
	width := g.Width * g.scroller.Progress(g.Height)
	if width <= 0 {
		return
	}
	from, _ := colorful.MakeColor(g.palette.Accent)
	to, _ := colorful.MakeColor(g.palette.AccentSecondary)
	for x := 0.0; x < width; x += gradientStep {
		seg := gradientStep
		if x+seg > width {
			seg = width - x
		}
		c := from.BlendRgb(to, x/g.Width).Clamped()
		vector.DrawFilledRect(screen, float32(x), 0, float32(seg), ProgressHeight, c, false)
	}
}

func (g *Game) drawHome(screen *ebiten.Image) {
	text := g.typewriter.Text() + "_"
	g.drawCentered(screen, text, g.Height/2)
	g.drawCentered(screen, "scroll to move the progress bar, q to quit", g.Height-2*charHeight)
}

func (g *Game) drawNotFound(screen *ebiten.Image) {
	g.drawCentered(screen, "404 - page not found", g.Height/2-2*charHeight)
	if g.countdown.Cancelled() {
		g.drawCentered(screen, "Redirect cancelled. Enter: home, q: quit", g.Height/2)
		return
	}
	g.drawCentered(screen, fmt.Sprintf("Redirecting home in %d... (Esc to stay, Enter to go now)", g.countdown.Seconds), g.Height/2)

	barW := g.Width / 3
	x := (g.Width - barW) / 2
	y := g.Height/2 + 2*charHeight
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(barW), 2, color.NRGBA{255, 255, 255, 32}, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(barW*g.countdown.Progress/100), 2, g.palette.Accent, false)
}

func (g *Game) drawCentered(screen *ebiten.Image, s string, y float64) {
	x := (g.Width - float64(len([]rune(s))*charWidth)) / 2
	ebitenutil.DebugPrintAt(screen, s, int(x), int(y))
}

// glow approximates a blurred disc with stacked translucent circles.
func glow(dst *ebiten.Image, x, y, r float64, c color.NRGBA, opacity float64) {
	c.A = alpha(opacity / glowRings)
	if c.A == 0 {
		c.A = 1
	}
	for i := glowRings; i > 0; i-- {
		rr := r * float64(i) / glowRings
		vector.DrawFilledCircle(dst, float32(x), float32(y), float32(rr), c, true)
	}
}

func alpha(opacity float64) uint8 {
	return uint8(opacity*255 + 0.5)
}
