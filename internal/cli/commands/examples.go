package commands

import (
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
)

// NewExamplesCommand creates the examples command.
func NewExamplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show example questions by category",
		Long: `List example questions the backend suggests, grouped by category.

Falls back to a built-in list when the backend is unreachable, so this
command never fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			fetch := gateway.WithFallback(cmdCtx.Gateway.Examples, gateway.DefaultExamples(), cmdCtx.Logger)
			examples, _ := fetch(cmd.Context())

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(examples)
			}
			renderExamples(r.Writer(), examples)
			return nil
		},
	}
}
