package cli

import (
	"github.com/spf13/cobra"

	sharc "github.com/gitpushjoe/sharc-sub000"
	"github.com/gitpushjoe/sharc-sub000/ebitenhost"
	"github.com/gitpushjoe/sharc-sub000/internal/demo"
)

func (c *CLI) runCommand() *cobra.Command {
	var showFPS bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo scene in a local window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return ebitenhost.Run(ebitenhost.RunConfig{
				Title:     "sharc",
				Width:     cfg.Width,
				Height:    cfg.Height,
				FrameRate: cfg.FrameRate,
				ShowFPS:   showFPS,
				Logger:    logger,
			}, cfg, func(s *sharc.Stage) {
				demo.Build(s, func(ev string) { logger.Info(ev) })
			})
		},
	}
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show frame statistics")
	return cmd
}
