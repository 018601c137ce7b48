// internal/commands/health.go
package repomind

import (
	"fmt"

	"github.com/mwiater/repomind/internal/tui"
	"github.com/spf13/cobra"
)

// healthCmd probes the configured provider.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the configured provider is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		provider, err := newProvider(cfg, aggregator)
		if err != nil {
			return err
		}
		defer provider.Close()

		if !provider.HealthCheck(cmd.Context()) {
			return fmt.Errorf("cannot reach %s at %s", cfg.Host.Type, cfg.Host.URL)
		}
		tui.Success(cmd.OutOrStdout(), "%s (%s) is reachable at %s", cfg.Host.Name, cfg.Host.Type, cfg.Host.URL)
		printMetrics(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
