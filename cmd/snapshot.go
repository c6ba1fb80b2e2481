package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/snapshot"
	"github.com/iburimskiy/constellation/internal/ui"
)

func snapshotCmd() *cobra.Command {
	var (
		width, height, frames int
		out                   string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the field to a PNG",
		Long:  "Seed the field, run it for a number of frames and save the result. Without --out a save dialog asks for the file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				path, err := chooseOutput()
				if err != nil {
					return err
				}
				if path == "" {
					ui.Warn.Println("  snapshot cancelled")
					return nil
				}
				out = path
			}

			opts := snapshotOptions(cfg, width, height, frames)
			img, err := snapshot.Render(cmd.Context(), opts)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := snapshot.WritePNG(f, img); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Printf("  %s %s %s\n", ui.StatusIcon(true), out,
				ui.Subtle.Sprintf("(%dx%d, %d frames, seed %d)", opts.Width, opts.Height, opts.Frames, opts.Seed))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height (default from config)")
	cmd.Flags().IntVar(&frames, "frames", 120, "Frames to simulate before capturing")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG path")

	return cmd
}

func snapshotOptions(c *config.Config, width, height, frames int) snapshot.Options {
	if width <= 0 {
		width = c.Window.Width
	}
	if height <= 0 {
		height = c.Window.Height
	}
	return snapshot.Options{
		Width:      width,
		Height:     height,
		Frames:     frames,
		Seed:       seedFor(c),
		Params:     c.Params(),
		Style:      c.Style(),
		Background: c.Background(),
	}
}

// chooseOutput asks for a path with a native dialog. An empty path means
// the user cancelled.
func chooseOutput() (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save Snapshot"),
		zenity.Filename("constellation.png"),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", fmt.Errorf("save dialog: %w", err)
	}
	return path, nil
}
