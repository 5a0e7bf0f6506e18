package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/byteoxo/backdrop/internal/config"
	"github.com/byteoxo/backdrop/internal/desktop"
)

var (
	// Global flags
	configPath string
	verbose    bool
	watch      bool
	particles  int
	seed       int64

	logger *zap.Logger
)

// rootCmd opens the desktop window on the home page
var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Animated particle backdrop for the byteoxo site",
	Long: `backdrop renders the decorative particle field that sits behind the
byteoxo pages: drifting points that bounce off the window edges and connect
to their neighbours, with the hero typewriter, gradient orbs and scroll bar.

Run without arguments to open the home page in a window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow(cmd.Context(), desktop.SceneHome)
	},
}

// notFoundCmd opens the 404 page with its redirect countdown
var notFoundCmd = &cobra.Command{
	Use:   "notfound",
	Short: "Show the 404 page and redirect home after the countdown",
	Long: `Shows the 404 page over the backdrop. The page counts down from three
and switches to the home page at zero. Esc cancels the redirect, Enter goes
home immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow(cmd.Context(), desktop.SceneNotFound)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "backdrop.yaml", "Path to YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&watch, "watch", "w", false, "Reload phrases and theme when the config changes")
	rootCmd.PersistentFlags().IntVarP(&particles, "particles", "n", 0, "Override the particle count")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for particle placement (0 uses the clock)")

	rootCmd.AddCommand(notFoundCmd, termCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded",
		zap.String("path", configPath),
		zap.Int("particles", cfg.Particles.Count),
		zap.Int64("seed", cfg.Particles.Seed))
	return cfg, nil
}

// applyFlags copies the --particles and --seed overrides onto cfg.
func applyFlags(cfg *config.Config) {
	if particles > 0 {
		cfg.Particles.Count = particles
	}
	if seed != 0 {
		cfg.Particles.Seed = seed
	}
}

// reloads starts the config watcher when --watch is set. Reloaded configs get
// the same flag overrides as the initial load.
func reloads(ctx context.Context) (<-chan *config.Config, error) {
	if !watch {
		return nil, nil
	}
	ch, err := config.Watch(ctx, configPath, logger, applyFlags)
	if err != nil {
		return nil, fmt.Errorf("failed to watch config: %w", err)
	}
	logger.Info("Watching config", zap.String("path", configPath))
	return ch, nil
}

func runWindow(ctx context.Context, scene desktop.Scene) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	updates, err := reloads(ctx)
	if err != nil {
		return err
	}

	game, err := desktop.NewGame(cfg, scene, updates, logger)
	if err != nil {
		return err
	}
	game.StopWhen(ctx.Done())

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	logger.Info("Opening window", zap.Stringer("scene", scene))
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}
