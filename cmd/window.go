package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/field"
	"github.com/iburimskiy/constellation/internal/game"
)

type windowOptions struct {
	width, height int
	fullscreen    bool
	stats         bool
}

func windowCmd() *cobra.Command {
	var opts windowOptions

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Render the field in a desktop window",
		Long:  "Open a resizable window filled with the particle field. F3 toggles stats, F11 fullscreen, Esc or Q quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cfg, opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "Window width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Window height (default from config)")
	cmd.Flags().BoolVar(&opts.fullscreen, "fullscreen", false, "Start fullscreen")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Show the stats overlay")

	return cmd
}

func runWindow(c *config.Config, opts windowOptions) error {
	width, height := c.Window.Width, c.Window.Height
	if opts.width > 0 {
		width = opts.width
	}
	if opts.height > 0 {
		height = opts.height
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(c.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(c.Window.Fullscreen || opts.fullscreen)
	ebiten.SetScreenClearedEveryFrame(false)

	g := game.New(width, height, c.Background())
	g.ShowStats(opts.stats)
	f := newField(c)
	g.Watch(f)

	loop := field.NewLoop(f, g, g)
	if err := loop.Start(g); err != nil {
		return err
	}
	defer loop.Stop()

	log.Printf("window: %dx%d, %d particles", width, height, len(f.Particles))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
