// Package loadgen drives synthetic worker-thread traffic against the
// expiry core, exercising Insert/Touch/Rearm/NukeOne the way a real
// deployment's many concurrent fetch/request threads would: each
// worker inserts, touches and rearms its own objects concurrently
// with every other worker, so races in the core surface under the race
// detector without needing a full cache server in front of it.
package loadgen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/varnishgo/expirelru/internal/expiry"
	"github.com/varnishgo/expirelru/internal/object"
	"github.com/varnishgo/expirelru/internal/store"
)

// Config controls the synthetic workload's shape.
type Config struct {
	Domain    string
	Workers   int
	Duration  time.Duration
	MinTTL    time.Duration
	MaxTTL    time.Duration
	NukeEvery int // NukeOne is tried only on operations whose index is a multiple of N (and whose random pick is a nuke), 0 disables.

	// RestoreEvery makes every Nth insert simulate restoring an object
	// whose wake time was already computed before the process
	// restarted (e.g. reloaded from a persisted timer), going through
	// Actor.Inject instead of Actor.Insert. 0 disables.
	RestoreEvery int
}

// Run seeds nothing up front; each worker inserts its own objects,
// then loops touching/rearming/occasionally nuking until ctx is done
// or Duration elapses, whichever first. It returns the total number of
// objects inserted (via Insert or Inject) across all workers, for a
// terse summary line.
func Run(ctx context.Context, st *store.Store, actor *expiry.Actor, cfg Config) (int, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	inserts := make([]int, cfg.Workers)

	for w := 0; w < cfg.Workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w) + 1))
			var cores []*expiry.Core

			for op := 0; ; op++ {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				ttl := cfg.MinTTL + time.Duration(rng.Int63n(int64(cfg.MaxTTL-cfg.MinTTL+1)))
				obj := object.New(ttl, 0, 0)
				key := fmt.Sprintf("w%d-%d", w, op)
				oc := expiry.NewCore(obj, uuid.NewString())
				st.Put(cfg.Domain, key, oc)

				if cfg.RestoreEvery > 0 && op%cfg.RestoreEvery == 0 {
					when, ok := obj.Deadline()
					if !ok {
						when = time.Now()
					}
					st.Ref(oc) // the reference Inject hands off to the actor.
					actor.Inject(oc, st.Domain(cfg.Domain), when)
				} else {
					actor.Insert(oc, time.Now())
				}
				cores = append(cores, oc)
				inserts[w]++

				if len(cores) > 4 {
					victim := cores[rng.Intn(len(cores))]
					switch rng.Intn(3) {
					case 0:
						_ = actor.Touch(victim, time.Now())
					case 1:
						victim.Head.(*object.Object).SetTimers(ttl+time.Millisecond, 0, 0)
						actor.Rearm(victim)
					case 2:
						if cfg.NukeEvery > 0 && op%cfg.NukeEvery == 0 {
							_ = actor.NukeOne(st.Domain(cfg.Domain))
						}
					}
				}

				time.Sleep(time.Millisecond)
			}
		})
	}

	err := g.Wait()
	total := 0
	for _, n := range inserts {
		total += n
	}
	return total, err
}
