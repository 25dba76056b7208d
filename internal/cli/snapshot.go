package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sharc "github.com/gitpushjoe/sharc-sub000"
	"github.com/gitpushjoe/sharc-sub000/internal/demo"
)

type snapshotOpts struct {
	frames int
	out    string
	script string
}

func (c *CLI) snapshotCommand() *cobra.Command {
	opts := snapshotOpts{frames: 60, out: "sharc.png"}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the demo scene headlessly and save the last frame as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.snapshot(cmd, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", opts.frames, "number of frames to render")
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output PNG path")
	cmd.Flags().StringVar(&opts.script, "script", "", "input script (JSON) to play while rendering")
	return cmd
}

func (c *CLI) snapshot(cmd *cobra.Command, opts snapshotOpts) error {
	logger := loggerFromContext(cmd.Context())
	if opts.frames < 1 {
		return fmt.Errorf("--frames must be at least 1")
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	surf := sharc.NewGGSurface(cfg.Width, cfg.Height)
	stage := sharc.NewStage(surf, cfg, sharc.WithLogger(logger))
	demo.Build(stage, func(ev string) { logger.Debug(ev) })

	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		sc, err := sharc.LoadScript(data)
		if err != nil {
			return err
		}
		stage.SetScript(sc)
	}

	for i := 0; i < opts.frames; i++ {
		if err := stage.RenderFrame(); err != nil {
			return err
		}
	}
	if err := surf.SavePNG(opts.out); err != nil {
		return fmt.Errorf("save %s: %w", opts.out, err)
	}
	logger.Info("snapshot written", "path", opts.out, "frames", opts.frames)
	return nil
}
