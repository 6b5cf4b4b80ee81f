// Package charting is the chart engine: it selects a rendering backend
// for normalized chart data by type, supports user-driven type switching
// over the same labels and datasets, and exports the current chart as a
// PNG image. Malformed or empty payloads render a "no chart data" state
// instead of reaching the drawing paths.
package charting

import (
	"fmt"
	"time"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

// Kind is a chart rendering backend.
type Kind string

const (
	KindBar  Kind = "bar"
	KindPie  Kind = "pie"
	KindLine Kind = "line"
)

// KindOf maps a wire chart type to a Kind; unknown types default to bar.
func KindOf(s string) Kind {
	switch Kind(s) {
	case KindPie:
		return KindPie
	case KindLine:
		return KindLine
	default:
		return KindBar
	}
}

// Kinds lists the switchable chart types in display order.
func Kinds() []Kind { return []Kind{KindBar, KindPie, KindLine} }

// Chart pairs chart data with the currently selected rendering kind.
// Switching kinds re-renders the same labels and datasets; the data is
// never refetched or mutated.
type Chart struct {
	Data contract.ChartData
	Kind Kind
}

// New creates a chart in the kind suggested by the data itself.
func New(data contract.ChartData) *Chart {
	return &Chart{Data: data, Kind: KindOf(data.Type)}
}

// Switch selects a different rendering kind for the same data.
func (c *Chart) Switch(kind Kind) {
	c.Kind = KindOf(string(kind))
}

// Empty reports whether there is nothing to draw.
func (c *Chart) Empty() bool {
	return c == nil || c.Data.Empty()
}

// defaultPalette matches the backend's dataset colors so terminal and
// PNG output stay visually consistent with the payload's intent.
var defaultPalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF"}

// colorAt returns the color for series/slice index i, preferring the
// dataset's own colors and cycling the default palette otherwise.
func colorAt(ds contract.Dataset, i int) string {
	if len(ds.Colors) > 0 {
		return ds.Colors[i%len(ds.Colors)]
	}
	return defaultPalette[i%len(defaultPalette)]
}

// maxValue returns the largest data point across all datasets.
func maxValue(data contract.ChartData) float64 {
	max := 0.0
	for _, ds := range data.Datasets {
		for _, v := range ds.Data {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// PNGFilename names a chart export after the day it was taken.
func PNGFilename(t time.Time) string {
	return fmt.Sprintf("chart-%s.png", t.Format("2006-01-02"))
}
