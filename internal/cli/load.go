package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	loadCmd.Flags().IntVar(&serveWorkers, "workers", 8, "number of concurrent synthetic worker goroutines")
	loadCmd.Flags().DurationVar(&serveDuration, "duration", 0, "how long to run the load generator")
	loadCmd.MarkFlagRequired("duration") //nolint:errcheck
	rootCmd.AddCommand(loadCmd)
}

// loadCmd is serve's underlying workload exposed as its own bounded
// command, for scripted load tests instead of an indefinitely running
// daemon.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run the synthetic Insert/Touch/Rearm/NukeOne workload for a fixed duration and exit",
	RunE:  runServe,
}
