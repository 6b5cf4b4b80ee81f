package charting

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// NoDataMessage is shown whenever the guard trips.
const NoDataMessage = "No chart data available"

const (
	minRenderWidth = 40
	lineChartRows  = 8
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	axisStyle   = lipgloss.NewStyle().Faint(true)
	legendStyle = lipgloss.NewStyle()
)

// Render draws the chart as styled terminal text fitted to the given
// width. Empty or malformed data renders the no-data state; the drawing
// paths are never invoked for it.
func Render(c *Chart, width int) string {
	if c.Empty() {
		return NoDataMessage
	}
	if width < minRenderWidth {
		width = minRenderWidth
	}

	var b strings.Builder
	if c.Data.Title != "" {
		b.WriteString(titleStyle.Render(c.Data.Title))
		b.WriteString("\n\n")
	}

	switch c.Kind {
	case KindPie:
		renderPie(&b, c)
	case KindLine:
		renderLine(&b, c, width)
	default:
		renderBar(&b, c, width)
	}
	return strings.TrimRight(b.String(), "\n")
}

// barGlyph picks a fill glyph the terminal can show: block characters
// under a color-capable profile, plain hashes on dumb terminals.
func barGlyph() string {
	if termenv.ColorProfile() == termenv.Ascii {
		return "#"
	}
	return "█"
}

func renderBar(b *strings.Builder, c *Chart, width int) {
	data := c.Data
	labelWidth := 0
	for _, l := range data.Labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}
	if labelWidth > 24 {
		labelWidth = 24
	}

	max := maxValue(data)
	// Reserve room for the label, the gutter and the tick annotation.
	barWidth := width - labelWidth - 14
	if barWidth < 8 {
		barWidth = 8
	}
	glyph := barGlyph()

	for di, ds := range data.Datasets {
		if len(data.Datasets) > 1 && ds.Label != "" {
			b.WriteString(legendStyle.Render(ds.Label))
			b.WriteString("\n")
		}
		for i, label := range data.Labels {
			v := ds.Data[i]
			// Negative values draw as zero-length bars; the tick
			// annotation still shows the signed amount.
			n := 0
			if max > 0 && v > 0 {
				n = int(v / max * float64(barWidth))
				if n < 1 {
					n = 1
				}
			}
			// Single series colors per bar (the backend sends one color
			// per label); multiple series color per dataset.
			colorIdx := i
			if len(data.Datasets) > 1 {
				colorIdx = di
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAt(ds, colorIdx)))
			fmt.Fprintf(b, "%-*s %s %s\n",
				labelWidth, truncate(label, labelWidth),
				style.Render(strings.Repeat(glyph, n)),
				axisStyle.Render(FormatTick(v)))
		}
		b.WriteString("\n")
	}
}

func renderPie(b *strings.Builder, c *Chart) {
	// Pie charts show shares of the first dataset; no axis scale.
	ds := c.Data.Datasets[0]
	total := 0.0
	for _, v := range ds.Data {
		total += v
	}

	for i, label := range c.Data.Labels {
		v := ds.Data[i]
		pct := 0.0
		if total > 0 {
			pct = v / total * 100
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAt(ds, i))).Render("■")
		fmt.Fprintf(b, "%s %-24s %5.1f%%  %s\n",
			swatch, truncate(label, 24), pct, axisStyle.Render(FormatAmount(v)))
	}
}

func renderLine(b *strings.Builder, c *Chart, width int) {
	data := c.Data
	max := maxValue(data)
	if max <= 0 {
		max = 1
	}

	const gutter = 10 // y-axis tick labels
	cols := len(data.Labels)
	colWidth := (width - gutter) / cols
	if colWidth < 1 {
		colWidth = 1
	}

	markers := []string{"●", "○", "◆", "▲"}
	grid := make([][]string, lineChartRows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for col := range grid[r] {
			grid[r][col] = "·"
		}
	}
	for di, ds := range data.Datasets {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAt(ds, di)))
		for i, v := range ds.Data {
			// Clamp into the plotted range so negative points sit on
			// the baseline instead of indexing off the grid.
			scaled := v
			if scaled < 0 {
				scaled = 0
			}
			if scaled > max {
				scaled = max
			}
			row := lineChartRows - 1 - int(scaled/max*float64(lineChartRows-1))
			grid[row][i] = style.Render(markers[di%len(markers)])
		}
	}

	for r, cells := range grid {
		tick := ""
		if r == 0 {
			tick = FormatTick(max)
		} else if r == lineChartRows-1 {
			tick = FormatTick(0)
		}
		fmt.Fprintf(b, "%s ", axisStyle.Render(fmt.Sprintf("%*s", gutter-1, tick)))
		for _, cell := range cells {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", colWidth-1))
		}
		b.WriteString("\n")
	}

	// X labels, truncated into their columns.
	b.WriteString(strings.Repeat(" ", gutter))
	for _, label := range data.Labels {
		b.WriteString(fmt.Sprintf("%-*s", colWidth, truncate(label, colWidth-1)))
	}
	b.WriteString("\n")

	if len(data.Datasets) > 1 {
		b.WriteString("\n")
		for di, ds := range data.Datasets {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAt(ds, di)))
			fmt.Fprintf(b, "%s %s  ", style.Render(markers[di%len(markers)]), ds.Label)
		}
		b.WriteString("\n")
	}
}

// truncate shortens a label to n runes. Rune-based so multibyte labels
// never split mid-character.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
