package cli

import (
	"github.com/spf13/cobra"

	"github.com/gitpushjoe/sharc-sub000/ebitenhost"
	"github.com/gitpushjoe/sharc-sub000/worker"
)

func (c *CLI) viewCommand() *cobra.Command {
	var (
		url     string
		showFPS bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show a scene rendered by a remote sharc server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ws, err := worker.Dial(ctx, url)
			if err != nil {
				return err
			}
			defer ws.Close()
			logger.Info("connected", "url", url)
			return ebitenhost.View(ctx, ws, ebitenhost.RunConfig{
				Title:     "sharc (remote)",
				Width:     cfg.Width,
				Height:    cfg.Height,
				FrameRate: cfg.FrameRate,
				ShowFPS:   showFPS,
				Logger:    logger,
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "ws://localhost:8080/ws", "render server websocket URL")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show frame statistics")
	return cmd
}
