package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/byteoxo/backdrop/internal/terminal"
)

// termCmd renders the backdrop in the terminal
var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Render the backdrop in the terminal",
	Long: `Renders the particle field and the hero typewriter with truecolor cells.
Each cell covers terminal.cell_width x terminal.cell_height field units.
Press q, Esc or Ctrl-C to quit.`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	updates, err := reloads(ctx)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}

	host, err := terminal.New(screen, cfg, updates, logger)
	if err != nil {
		screen.Fini()
		return err
	}

	logger.Debug("Starting terminal host", zap.Int("fps", cfg.Terminal.FPS))
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("terminal loop failed: %w", err)
	}
	return nil
}
