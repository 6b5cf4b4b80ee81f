// Package cli provides the command-line interface for WealthLens.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/cli/commands"
	"github.com/wealthlens-labs/wealthlens/internal/cli/config"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wealthlens",
		Short: "WealthLens - Natural-language wealth analytics console",
		Long: `WealthLens is a terminal console for querying wealth-management data
in plain language.

Type a question; the backend resolves it into a text answer, a table,
and a chart, which you can filter, sort, page through, and export.
Running wealthlens with no subcommand starts the interactive console.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration from file, env, and CLI flags
			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Store config in context
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)

			// Create and store renderer based on output mode
			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)

			// Structured logger to stderr; verbose lowers the level
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		// No subcommand starts the interactive console.
		RunE: func(cmd *cobra.Command, args []string) error {
			console := commands.NewConsoleCommand()
			console.SetContext(cmd.Context())
			console.SetOut(cmd.OutOrStdout())
			console.SetErr(cmd.ErrOrStderr())
			return console.RunE(console, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./wealthlens.yaml)")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "Backend base URL")
	rootCmd.PersistentFlags().StringP("user", "u", "", "User identifier sent with queries (\"anonymous\" for a random one)")
	rootCmd.PersistentFlags().Int("timeout-seconds", 0, "Request timeout in seconds")
	rootCmd.PersistentFlags().Int("query-timeout-seconds", 0, "Query request timeout in seconds")
	rootCmd.PersistentFlags().Int("page-size", 0, "Table rows per page")
	rootCmd.PersistentFlags().String("history-file", "", "Console prompt history file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewConsoleCommand())
	rootCmd.AddCommand(commands.NewAskCommand())
	rootCmd.AddCommand(commands.NewBrowseCommand())
	rootCmd.AddCommand(commands.NewExamplesCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewHealthCommand())
	rootCmd.AddCommand(commands.NewMockServerCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		BackendURL:          config.DefaultBackendURL,
		UserID:              config.DefaultUserID,
		TimeoutSeconds:      config.DefaultTimeoutSeconds,
		QueryTimeoutSeconds: config.DefaultQueryTimeoutSeconds,
		PageSize:            config.DefaultPageSize,
		HistoryFile:         config.DefaultHistoryFile,
		OutputFormat:        config.DefaultOutput,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wealthlens.

To load completions:

Bash:
  $ source <(wealthlens completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wealthlens completion bash > /etc/bash_completion.d/wealthlens
  # macOS:
  $ wealthlens completion bash > $(brew --prefix)/etc/bash_completion.d/wealthlens

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wealthlens completion zsh > "${fpath[1]}/_wealthlens"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wealthlens completion fish | source

  # To load completions for each session, execute once:
  $ wealthlens completion fish > ~/.config/fish/completions/wealthlens.fish

PowerShell:
  PS> wealthlens completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> wealthlens completion powershell > wealthlens.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
