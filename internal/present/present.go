// Package present composes the result views behind the tab selector:
// it computes which tabs have data, resolves the effective tab, and
// bounds each render subtree against panics so one malformed payload
// cannot take the session down.
package present

import (
	"fmt"
	"log/slog"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/store"
)

// Tabs lists the presentation tabs in display order.
func Tabs() []store.Tab {
	return []store.Tab{store.TabText, store.TabTable, store.TabChart}
}

// Availability reports which tabs have content for the given result.
func Availability(res *contract.QueryResult) map[store.Tab]bool {
	out := make(map[store.Tab]bool, 3)
	for _, tab := range Tabs() {
		out[tab] = store.TabAvailable(tab, res)
	}
	return out
}

// Fallback resolves the tab to actually show: the active tab when it has
// data, otherwise the first available in order text, table, chart.
func Fallback(active store.Tab, res *contract.QueryResult) store.Tab {
	return store.ResolveTab(active, res)
}

// SafeRender runs a render function inside a recover boundary. A panic
// in the subtree is logged and replaced with a recoverable placeholder
// panel; the session keeps running.
func SafeRender(name string, logger *slog.Logger, render func() string) (out string) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render fault recovered", "view", name, "panic", r)
			out = fmt.Sprintf("Something went wrong rendering the %s view.\nThe rest of the session is unaffected.", name)
		}
	}()
	return render()
}
