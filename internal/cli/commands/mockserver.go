package commands

import (
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/mockbackend"
)

// NewMockServerCommand creates the mockserver command.
func NewMockServerCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "mockserver",
		Short: "Run a local mock backend with canned data",
		Long: `Start a local HTTP server that speaks the backend contract and
answers from canned wealth-management fixtures. Useful for demos and
for developing the console without the real backend.`,
		Example: `  # Serve on the default port the console expects
  wealthlens mockserver

  # Use a different port
  wealthlens mockserver --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			srv := mockbackend.NewServer(port, cmdCtx.Logger)
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on")
	return cmd
}
