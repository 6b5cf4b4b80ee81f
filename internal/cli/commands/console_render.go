package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/charting"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/present"
	"github.com/wealthlens-labs/wealthlens/internal/store"
	"github.com/wealthlens-labs/wealthlens/internal/tabling"
	"golang.org/x/term"
)

const defaultChartWidth = 80

// renderActiveTab renders the view selected in the store for the
// current result.
func (s *session) renderActiveTab(cmd *cobra.Command) {
	s.renderActiveTabWriter(cmd.OutOrStdout())
}

func (s *session) renderActiveTabWriter(w io.Writer) {
	snap := s.store.State()

	if snap.Status == store.StatusError {
		_, _ = fmt.Fprintln(w, snap.Err)
		return
	}
	if snap.Result == nil {
		_, _ = fmt.Fprintln(w, "No result yet. Ask a question first.")
		return
	}

	_, _ = fmt.Fprintln(w, tabBar(snap))
	switch snap.ActiveTab {
	case store.TabTable:
		s.renderTableWriter(w, snap.Result)
	case store.TabChart:
		s.renderChartWriter(w, snap.Result)
	default:
		out := present.SafeRender("text", s.cmdCtx.Logger, func() string {
			return snap.Result.TextResponse
		})
		_, _ = fmt.Fprintln(w, out)
	}
}

// tabBar shows the three views with unavailable ones marked.
func tabBar(snap store.Snapshot) string {
	avail := present.Availability(snap.Result)
	parts := make([]string, 0, 3)
	for _, tab := range present.Tabs() {
		name := tab.String()
		switch {
		case tab == snap.ActiveTab:
			name = "[" + name + "]"
		case !avail[tab]:
			name = name + " (no data)"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "  ")
}

func (s *session) renderTable(cmd *cobra.Command) {
	snap := s.store.State()
	if snap.Result == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No result yet. Ask a question first.")
		return
	}
	// Clamp the page the same way Apply will, so .next past the end
	// stays stable.
	s.renderTableWriter(cmd.OutOrStdout(), snap.Result)
}

func (s *session) renderTableWriter(w io.Writer, res *contract.QueryResult) {
	view := tabling.Apply(res.Table, s.tableSpec)
	s.tableSpec.Page = view.Page

	out := present.SafeRender("table", s.cmdCtx.Logger, func() string {
		return renderTableView(view, s.tableSpec)
	})
	_, _ = fmt.Fprint(w, out)
}

// renderTableView renders one page of a table view with go-pretty.
func renderTableView(view tabling.View, spec tabling.Spec) string {
	if view.Empty() {
		return "No table data available\n"
	}
	if view.TotalFiltered == 0 {
		if spec.Filter != "" {
			return fmt.Sprintf("No rows match %q. Use .filter to clear the filter.\n", spec.Filter)
		}
		return "No table data available\n"
	}

	var b strings.Builder
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(view.Columns))
	for i, col := range view.Columns {
		name := col
		if spec.Sort.Key != "" && strings.EqualFold(col, spec.Sort.Key) {
			if spec.Sort.Desc {
				name += " ↓"
			} else {
				name += " ↑"
			}
		}
		headerRow[i] = name
	}
	t.AppendHeader(headerRow)

	for _, row := range view.Rows {
		tr := make(table.Row, len(view.Columns))
		for i, col := range view.Columns {
			tr[i] = row[col].Display()
		}
		t.AppendRow(tr)
	}

	t.Render()
	b.WriteString(tableFooter(view, spec))
	return b.String()
}

func tableFooter(view tabling.View, spec tabling.Spec) string {
	footer := fmt.Sprintf("Page %d of %d (%d rows", view.Page, view.TotalPages, view.TotalFiltered)
	if spec.Filter != "" {
		footer += fmt.Sprintf(", filter: %q", spec.Filter)
	}
	return footer + ")\n"
}

func (s *session) renderChartWriter(w io.Writer, res *contract.QueryResult) {
	chart := charting.New(res.Chart)
	chart.Switch(s.chartKind)

	width := defaultChartWidth
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 20 {
		width = tw
	}

	out := present.SafeRender("chart", s.cmdCtx.Logger, func() string {
		return charting.Render(chart, width)
	})
	_, _ = fmt.Fprintln(w, out)
}

// renderExamples prints example queries grouped by category.
func renderExamples(w io.Writer, examples []contract.ExampleCategory) {
	if len(examples) == 0 {
		_, _ = fmt.Fprintln(w, "No example queries available.")
		return
	}
	for _, cat := range examples {
		_, _ = fmt.Fprintf(w, "%s:\n", cat.Category)
		for _, q := range cat.Queries {
			_, _ = fmt.Fprintf(w, "  - %s\n", q)
		}
		_, _ = fmt.Fprintln(w)
	}
}

// renderStats prints the stats snapshot as a two-column table.
func renderStats(w io.Writer, stats contract.StatsSnapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	for _, key := range stats.Keys() {
		t.AppendRow(table.Row{statLabel(key), stats.Get(key)})
	}
	t.Render()
}

// statLabel turns a snake_case stats key into a display label.
func statLabel(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderHistory prints recent queries, newest first.
func renderHistory(w io.Writer, entries []contract.HistoryEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No queries yet.")
		return
	}
	for _, e := range entries {
		marker := "✓"
		if !e.Success {
			marker = "✗"
		}
		line := fmt.Sprintf("%s %s  %s", marker, e.Timestamp.Format("15:04:05"), e.Query)
		if e.Error != "" {
			line += "  (" + e.Error + ")"
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
