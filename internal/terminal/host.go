package terminal

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/byteoxo/backdrop/internal/backdrop"
	"github.com/byteoxo/backdrop/internal/config"
	"github.com/byteoxo/backdrop/internal/effects"
	"github.com/byteoxo/backdrop/internal/loop"
)

const eventBuffer = 64

// Host runs the backdrop and the hero typewriter on a tcell screen. All state
// is touched from the goroutine calling Run; a helper goroutine only forwards
// screen events.
type Host struct {
	screen     tcell.Screen
	surface    *Surface
	effect     *backdrop.Effect
	typewriter *effects.Typewriter
	palette    config.Palette
	fps        int
	events     chan tcell.Event
	reloads    <-chan *config.Config
	loop       *loop.Loop
	last       time.Time
	logger     *zap.Logger
}

// New prepares a host on an initialised screen.
func New(screen tcell.Screen, cfg *config.Config, reloads <-chan *config.Config, logger *zap.Logger) (*Host, error) {
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

	h := &Host{
		screen:     screen,
		surface:    NewSurface(screen, cfg.Terminal.CellWidth, cfg.Terminal.CellHeight, cfg.Terminal.LineGain, palette.Background),
		effect:     backdrop.NewEffect(cfg.Field(), rand.New(rand.NewSource(seed))),
		typewriter: effects.NewTypewriter(cfg.Phrases),
		palette:    palette,
		fps:        cfg.Terminal.FPS,
		events:     make(chan tcell.Event, eventBuffer),
		reloads:    reloads,
		logger:     logger,
	}
	h.loop = loop.New(h.tick)
	h.effect.Mount(h.surface.Extent())
	return h, nil
}

// Effect exposes the particle effect.
func (h *Host) Effect() *backdrop.Effect {
	return h.effect
}

// Run draws frames until ctx ends or the user quits. It finalises the screen
// before returning.
func (h *Host) Run(ctx context.Context) error {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.poll(done)
	}()
	defer func() {
		close(done)
		h.screen.Fini()
		wg.Wait()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(h.fps))
	defer ticker.Stop()

	h.last = time.Now()
	h.logger.Debug("Terminal backdrop running", zap.Int("fps", h.fps), zap.Bool("mounted", h.effect.Mounted()))
	err := h.loop.Run(ctx, ticker.C)
	h.effect.Unmount()
	return err
}

// poll forwards screen events until the screen is finalised.
func (h *Host) poll(done <-chan struct{}) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case h.events <- ev:
		case <-done:
			return
		}
	}
}

func (h *Host) tick() {
	now := time.Now()
	dt := now.Sub(h.last)
	h.last = now
	h.frame(dt)
}

// frame handles pending events, then advances and draws one frame.
func (h *Host) frame(dt time.Duration) {
	for drained := false; !drained; {
		select {
		case ev := <-h.events:
			h.handle(ev)
		default:
			drained = true
		}
	}
	h.applyReload()
	if h.loop.Stopped() {
		return
	}

	if !h.effect.Frame(h.surface) {
		h.surface.Clear()
	}
	h.typewriter.Advance(dt)
	h.drawText()
	h.screen.Show()
}

func (h *Host) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
		h.surface.Sync()
		w, hgt := h.surface.Extent()
		if !h.effect.Mount(w, hgt) {
			return
		}
		h.effect.Resize(w, hgt)
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			h.loop.Stop()
		}
	}
}

func (h *Host) applyReload() {
	if h.reloads == nil {
		return
	}
	select {
	case cfg, ok := <-h.reloads:
		if !ok {
			h.reloads = nil
			return
		}
		if palette, err := cfg.Theme.Colors(); err == nil {
			h.palette = palette
			h.surface.SetBackground(palette.Background)
		}
		h.typewriter.SetPhrases(cfg.Phrases)
		h.logger.Debug("Applied config reload")
	default:
	}
}

// drawText writes the typewriter line, with a cursor, in the middle row.
func (h *Host) drawText() {
	cols, rows := h.screen.Size()
	text := []rune(h.typewriter.Text() + "_")
	row := rows / 2
	col := (cols - len(text)) / 2
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(h.palette.Foreground.R), int32(h.palette.Foreground.G), int32(h.palette.Foreground.B))).
		Background(tcell.NewRGBColor(int32(h.palette.Background.R), int32(h.palette.Background.G), int32(h.palette.Background.B)))
	for i, r := range text {
		if c := col + i; c >= 0 && c < cols {
			h.screen.SetContent(c, row, r, nil, style)
		}
	}
}
