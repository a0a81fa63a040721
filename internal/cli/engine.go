package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/varnishgo/expirelru/internal/config"
	"github.com/varnishgo/expirelru/internal/expiry"
	"github.com/varnishgo/expirelru/internal/obslog"
	"github.com/varnishgo/expirelru/internal/store"
)

// engine bundles the wired-up core and its collaborators, the way
// Tutu-Engine's internal/daemon.Daemon bundles its subsystems for the
// cli package to drive.
type engine struct {
	Logger *zap.Logger
	Stats  *expiry.CounterStats
	Store  *store.Store
	Actor  *expiry.Actor
}

func bootstrap(ctx context.Context, cfg config.Config) *engine {
	logger := obslog.New(cfg.Logging.FilePath, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays)
	reg := prometheus.NewRegistry()
	stats := expiry.NewCounterStats(reg, "expirelru")

	st := store.New(cfg.Store.IndexCapacity, cfg.Store.MaxScan, stats)

	actor := expiry.Init(ctx, st, st, obslog.MetadataLog{Logger: logger}, stats, obslog.KillSink{Logger: logger},
		expiry.WithNapInterval(cfg.Actor.NapInterval))
	st.SetMailer(actor)

	return &engine{Logger: logger, Stats: stats, Store: st, Actor: actor}
}
