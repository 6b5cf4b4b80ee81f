package commands

import (
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
)

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		Long:  `Probe the backend health endpoint. Exits non-zero when the backend is unhealthy or unreachable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			err := cmdCtx.Gateway.Health(cmd.Context())

			if r.EffectiveMode() == output.ModeJSON {
				payload := map[string]any{"backend": cmdCtx.Cfg.BackendURL, "healthy": err == nil}
				if err != nil {
					payload["error"] = gateway.UserMessage(err)
				}
				if jsonErr := r.JSON(payload); jsonErr != nil {
					return jsonErr
				}
				return err
			}

			if err != nil {
				r.StatusLine(cmdCtx.Cfg.BackendURL, "error", gateway.UserMessage(err))
				return err
			}
			r.StatusLine(cmdCtx.Cfg.BackendURL, "healthy", "")
			return nil
		},
	}
}
