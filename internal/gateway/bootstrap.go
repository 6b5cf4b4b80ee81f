package gateway

import (
	"context"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"golang.org/x/sync/errgroup"
)

// BootstrapData is everything the console needs before the first prompt.
type BootstrapData struct {
	Examples []contract.ExampleCategory
	Stats    contract.StatsSnapshot
}

// Bootstrap runs the startup fetches concurrently: health, examples and
// stats are independent of each other. Examples and stats degrade to
// their fallbacks; a health failure is returned as the error and puts
// the console into its unavailable state.
func (c *Client) Bootstrap(ctx context.Context) (BootstrapData, error) {
	var data BootstrapData

	fetchExamples := WithFallback(c.Examples, DefaultExamples(), c.logger)
	fetchStats := WithFallback(c.Stats, DefaultStats(), c.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Health(gctx)
	})
	g.Go(func() error {
		examples, _ := fetchExamples(gctx)
		data.Examples = examples
		return nil
	})
	g.Go(func() error {
		stats, _ := fetchStats(gctx)
		data.Stats = stats
		return nil
	})

	err := g.Wait()
	return data, err
}
