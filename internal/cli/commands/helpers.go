// Package commands implements the wealthlens CLI subcommands.
package commands

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/cli/config"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Gateway  *gateway.Client
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a backend gateway and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Gateway:  newGateway(cfg, logger),
		Renderer: r,
	}
}

// newGateway builds a backend client from configuration.
func newGateway(cfg *config.Config, logger *slog.Logger) *gateway.Client {
	return gateway.New(cfg.BackendURL,
		gateway.WithUserID(cfg.ResolveUserID()),
		gateway.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		gateway.WithQueryTimeout(time.Duration(cfg.QueryTimeoutSeconds)*time.Second),
		gateway.WithLogger(logger),
	)
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		BackendURL:          getEnvOrDefault("WEALTHLENS_BACKEND_URL", config.DefaultBackendURL),
		UserID:              getEnvOrDefault("WEALTHLENS_USER_ID", config.DefaultUserID),
		TimeoutSeconds:      getEnvIntOrDefault("WEALTHLENS_TIMEOUT_SECONDS", config.DefaultTimeoutSeconds),
		QueryTimeoutSeconds: getEnvIntOrDefault("WEALTHLENS_QUERY_TIMEOUT_SECONDS", config.DefaultQueryTimeoutSeconds),
		PageSize:            getEnvIntOrDefault("WEALTHLENS_PAGE_SIZE", config.DefaultPageSize),
		HistoryFile:         getEnvOrDefault("WEALTHLENS_HISTORY_FILE", config.DefaultHistoryFile),
		OutputFormat:        os.Getenv("WEALTHLENS_OUTPUT"),
		Verbose:             os.Getenv("WEALTHLENS_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
