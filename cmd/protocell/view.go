package main

import (
	"github.com/spf13/cobra"

	"protocell/internal/app"
	"protocell/internal/sims/protocell"
)

func newViewCmd(c *cli) *cobra.Command {
	opts := app.Options{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open an interactive window (requires -tags ebiten)",
		Long: `Keys: space pause, N single step, R reset, S reseed, L cycle layer
(cells, temperature, solute), Q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Seed = c.cfg.Seed
			sim := protocell.New(c.cfg, protocell.WithLogger(c.logger))
			return app.Run(sim, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Scale, "scale", 8, "pixels per tile")
	cmd.Flags().IntVar(&opts.TPS, "tps", 60, "ticks per second")
	return cmd
}
