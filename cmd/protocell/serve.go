package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"protocell/internal/sims/protocell"
	"protocell/internal/stream"
	"protocell/internal/telemetry"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr   string
		tps    int
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation continuously and stream censuses",
		Long: `Steps the simulation at --tps ticks per second. Every census is broadcast as
JSON to WebSocket clients on /ws; GET /census returns the latest one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return c.serve(ctx, addr, tps, dbPath)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&tps, "tps", 30, "ticks per second")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to record censuses into")
	return cmd
}

func newServeMux(r *protocell.Runner, hub *stream.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("GET /census", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.Snapshot())
	})
	return mux
}

func (c *cli) serve(ctx context.Context, addr string, tps int, dbPath string) error {
	runner := protocell.NewRunner(protocell.New(c.cfg, protocell.WithLogger(c.logger)))
	hub := stream.NewHub(c.logger)
	defer hub.Close()

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
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeMux(runner, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("serving", zap.String("addr", addr), zap.Int("tps", tps))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		interval := time.Second / time.Duration(max(1, tps))
		var recordErr error
		err := runner.Run(ctx, interval, func(census protocell.Census) {
			if err := hub.Publish(ctx, census); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Debug("census not streamed", zap.Uint64("tick", census.Tick), zap.Error(err))
			}
			if rec != nil && recordErr == nil && census.Tick%uint64(max(1, tps)) == 0 {
				if recordErr = rec.Record(ctx, runID, census); recordErr != nil {
					c.logger.Error("census recording stopped", zap.Error(recordErr))
				}
			}
		})
		return err
	})
	return g.Wait()
}
