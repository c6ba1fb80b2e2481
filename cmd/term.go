package cmd

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/constellation/internal/field"
	"github.com/iburimskiy/constellation/internal/term"
)

func termCmd() *cobra.Command {
	var scale float64

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Render the field in the terminal",
		Long:  "Draw the particle field with truecolor half blocks. Esc, q or Ctrl-C quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale <= 0 {
				scale = cfg.Terminal.Scale
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("term: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("term: %w", err)
			}
			screen.EnableMouse(tcell.MouseMotionEvents)
			screen.HideCursor()

			host := term.New(screen, scale)
			f := newField(cfg)
			loop := field.NewLoop(f, host.Canvas(cfg.Background()), field.NewTimerScheduler(cfg.Render.FPS))
			if err := loop.Start(host); err != nil {
				screen.Fini()
				return err
			}
			log.Printf("term: scale %v, %d particles", scale, len(f.Particles))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()
			return host.Run(ctx, loop.Stop)
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 0, "Surface pixels per half cell (default from config)")

	return cmd
}
