package commands

import (
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show backend data statistics",
		Long: `Show summary statistics about the data behind the backend: client
counts, portfolio totals, and freshness.

Falls back to placeholder values when the backend is unreachable, so
this command never fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			fetch := gateway.WithFallback(cmdCtx.Gateway.Stats, gateway.DefaultStats(), cmdCtx.Logger)
			stats, _ := fetch(cmd.Context())

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(stats)
			}
			renderStats(r.Writer(), stats)
			return nil
		},
	}
}
