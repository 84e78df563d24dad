package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"protocell/internal/core"
	"protocell/internal/sims/protocell"
)

func newParamsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List tunable parameters and their effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sim core.Sim = protocell.New(c.cfg)
			provider, ok := sim.(core.ParameterProvider)
			if !ok {
				return fmt.Errorf("%s exposes no parameters", sim.Name())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range provider.Parameters().Groups {
				fmt.Fprintf(tw, "[%s]\n", g.Name)
				for _, p := range g.Params {
					fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Key, p.Value, p.Type, p.Label)
				}
			}
			return tw.Flush()
		},
	}
}
