package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/varnishgo/expirelru/internal/config"
	"github.com/varnishgo/expirelru/internal/expiry"
	"github.com/varnishgo/expirelru/internal/object"
)

func init() {
	nukeCmd.Flags().IntVar(&nukeCount, "count", 4, "number of objects to seed into the domain before reclaiming")
	rootCmd.AddCommand(nukeCmd)
}

var nukeCount int

var nukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Seed a domain and repeatedly call NukeOne until it reports out-of-space",
	Long: `nuke demonstrates the only user-visible failure path the
core has: NukeOne returning ErrCannotReclaim once every reclaimable
object in a domain has been taken, which a fetch path would surface
as an out-of-space condition to its caller.`,
	RunE: runNuke,
}

func runNuke(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng := bootstrap(ctx, cfg)
	defer eng.Logger.Sync() //nolint:errcheck

	const domain = "nuke-demo"
	for i := 0; i < nukeCount; i++ {
		obj := object.New(time.Hour, 0, 0)
		key := fmt.Sprintf("seed-%d", i)
		oc := expiry.NewCore(obj, uuid.NewString())
		eng.Store.Put(domain, key, oc)
		eng.Actor.Insert(oc, time.Now())
	}
	// Let the actor drain the mailbox and link every seed onto the LRU.
	time.Sleep(50 * time.Millisecond)

	lru := eng.Store.Domain(domain)
	for i := 0; i < nukeCount+1; i++ {
		err := eng.Actor.NukeOne(lru)
		switch {
		case err == nil:
			fmt.Printf("nuke %d: reclaimed\n", i)
		case errors.Is(err, expiry.ErrCannotReclaim):
			fmt.Printf("nuke %d: cannot reclaim (out of space)\n", i)
		default:
			return err
		}
	}
	return nil
}
