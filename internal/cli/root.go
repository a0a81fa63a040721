// Package cli implements expiryd's command-line interface using
// Cobra, in the structure of Tutu-Engine's internal/cli package: one
// file per subcommand, a shared rootCmd, and an Execute entry point
// called from main.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "expiryd",
	Short:         "expiryd — object expiry and LRU engine for a caching reverse proxy",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (optional)")
}

// Execute runs the root command. Called from cmd/expiryd/main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
