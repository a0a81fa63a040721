// Package obslog wires the expiry actor's Kill log sink and metadata
// persistence callback to structured logging: zap for encoding,
// lumberjack for file rotation.
package obslog

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/varnishgo/expirelru/internal/expiry"
)

// New builds a *zap.Logger writing structured lines to stdout and, if
// filePath is non-empty, to a rotated file. maxSizeMB/maxBackups/maxAge
// mirror lumberjack's own knobs.
func New(filePath string, maxSizeMB, maxBackups, maxAge int) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel),
	}

	if filePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), zapcore.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// KillSink adapts a *zap.Logger to expiry.LogSink.
type KillSink struct {
	Logger *zap.Logger
}

// Kill implements expiry.LogSink, logging one structured line per
// kill.
func (k KillSink) Kill(ev expiry.KillEvent) {
	k.Logger.Info("kill",
		zap.String("oc_id", fmt.Sprintf("%p", ev.OC)),
		zap.String("xid", ev.XID),
		zap.Time("timer_when", ev.TimerWhen),
		zap.Uint8("flags", uint8(ev.Flags)),
		zap.Duration("residual_ttl", ev.ResidualTTL),
	)
}

// MetadataLog adapts a *zap.Logger to expiry.MetadataPersister for
// deployments with no real persistence layer: it logs the change at
// debug level instead of writing it anywhere durable. A production
// storage backend would implement MetadataPersister against its own
// index rather than using this.
type MetadataLog struct {
	Logger *zap.Logger
}

func (m MetadataLog) PersistTimer(oc *expiry.Core, when time.Time) {
	m.Logger.Debug("timer_persisted", zap.String("xid", oc.XID), zap.Time("when", when))
}
