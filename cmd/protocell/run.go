package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"protocell/internal/sims/protocell"
	"protocell/internal/telemetry"
)

func newRunCmd(c *cli) *cobra.Command {
	var (
		ticks    int
		dbPath   string
		logEvery int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless for a fixed number of ticks",
		Long: `Runs the simulation without a window and prints the final census as JSON.

With --db every --log-every ticks the census is also appended to a SQLite file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return c.run(ctx, cmd, ticks, dbPath, logEvery)
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 1000, "number of ticks to simulate")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to record censuses into")
	cmd.Flags().IntVar(&logEvery, "log-every", 100, "ticks between census log lines and recordings (0 disables)")
	return cmd
}

func (c *cli) run(ctx context.Context, cmd *cobra.Command, ticks int, dbPath string, logEvery int) error {
	sim := protocell.New(c.cfg, protocell.WithLogger(c.logger))

	var (
		rec   *telemetry.Recorder
		runID string
	)
	if dbPath != "" {
		var err error
		if rec, err = telemetry.Open(dbPath); err != nil {
			return err
		}
		defer rec.Close()
		if runID, err = rec.BeginRun(ctx, c.cfg); err != nil {
			return err
		}
		c.logger.Info("recording census", zap.String("db", dbPath), zap.String("run", runID))
	}

	for t := 1; t <= ticks; t++ {
		if err := ctx.Err(); err != nil {
			c.logger.Warn("run interrupted", zap.Int("tick", t-1))
			break
		}
		sim.Step()
		if logEvery <= 0 || t%logEvery != 0 {
			continue
		}
		census := sim.Census()
		logCensus(c.logger, census)
		if rec != nil {
			if err := rec.Record(ctx, runID, census); err != nil {
				return err
			}
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sim.Census())
}

func logCensus(logger *zap.Logger, c protocell.Census) {
	logger.Info("census",
		zap.Uint64("tick", c.Tick),
		zap.Float64("time", c.Time),
		zap.Int("population", c.Population),
		zap.Int("lineages", c.Lineages),
		zap.Int("births", c.Births),
		zap.Int("deaths", c.Deaths),
		zap.Float64("mean_energy", c.MeanEnergy),
		zap.Int("free_molecules", c.FreeMolecules))
}
