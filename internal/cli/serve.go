package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/varnishgo/expirelru/internal/config"
	"github.com/varnishgo/expirelru/internal/loadgen"
)

func init() {
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 8, "number of synthetic worker goroutines")
	serveCmd.Flags().DurationVar(&serveDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveWorkers  int
	serveDuration time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the expiry actor against a synthetic worker workload",
	Long: `serve starts the expiry actor and a store, then drives
synthetic Insert/Touch/Rearm/NukeOne traffic against it the way a
deployment's many concurrent worker threads would, until interrupted
or --duration elapses.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng := bootstrap(ctx, cfg)
	defer eng.Logger.Sync() //nolint:errcheck

	duration := serveDuration
	if duration <= 0 {
		duration = 365 * 24 * time.Hour
	}

	total, err := loadgen.Run(ctx, eng.Store, eng.Actor, loadgen.Config{
		Domain:       "default",
		Workers:      serveWorkers,
		Duration:     duration,
		MinTTL:       50 * time.Millisecond,
		MaxTTL:       500 * time.Millisecond,
		NukeEvery:    7,
		RestoreEvery: 11,
	})
	if err != nil {
		return err
	}

	snap := eng.Stats.Snapshot()
	fmt.Printf("inserts=%d expired=%d lru_moved=%d lru_nuked=%d nuke_capped=%d\n",
		total, snap.Expired, snap.LRUMoved, snap.LRUNuked, snap.NukeCapped)
	return nil
}
