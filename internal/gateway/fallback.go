package gateway

import (
	"context"
	"log/slog"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

// WithFallback decorates a fetch so that any failure yields the fallback
// value instead of an error. Used for the non-critical endpoints: the
// console should never be empty because examples or stats were down.
func WithFallback[T any](fetch func(context.Context) (T, error), fallback T, logger *slog.Logger) func(context.Context) (T, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(ctx context.Context) (T, error) {
		v, err := fetch(ctx)
		if err != nil {
			logger.Debug("fetch failed, using fallback data", "error", err)
			return fallback, nil
		}
		return v, nil
	}
}

// DefaultExamples is the built-in example list used when the examples
// endpoint is unreachable. Mirrors the backend's own categories.
func DefaultExamples() []contract.ExampleCategory {
	return []contract.ExampleCategory{
		{
			Category: "Portfolio Analysis",
			Queries: []string{
				"What are the top five portfolios of our wealth members?",
				"Show me the portfolio breakdown by investment type",
				"Which clients have the highest portfolio values?",
			},
		},
		{
			Category: "Relationship Manager Insights",
			Queries: []string{
				"Breakup of portfolio values by relationship manager",
				"Who are the top relationship managers?",
				"Show me performance by relationship manager",
			},
		},
		{
			Category: "Client Information",
			Queries: []string{
				"List all clients with conservative risk appetite",
				"Which clients hold the most equity investments?",
				"Show me clients from Mumbai",
			},
		},
	}
}

// DefaultStats is the all-placeholder snapshot used when the stats
// endpoint is unreachable.
func DefaultStats() contract.StatsSnapshot {
	return contract.StatsSnapshot{
		"total_clients":         contract.StatsPlaceholder,
		"active_portfolios":     contract.StatsPlaceholder,
		"total_portfolio_value": contract.StatsPlaceholder,
		"relationship_managers": contract.StatsPlaceholder,
		"last_updated":          contract.StatsPlaceholder,
	}
}
