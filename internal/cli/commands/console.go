package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/charting"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
	"github.com/wealthlens-labs/wealthlens/internal/store"
	"github.com/wealthlens-labs/wealthlens/internal/tabling"
)

// NewConsoleCommand creates the interactive console command.
func NewConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive natural-language query console",
		Long: `Start an interactive console for querying the WealthLens backend.

Type a question in plain language and press enter. Results arrive as a
bundle of text, table, and chart views; switch between them with .tab,
refine the table with .filter and .sort, and export with .export.

Type .help inside the console for the full command list.`,
		Example: `  # Start the console against the default backend
  wealthlens console

  # Point at a different backend
  wealthlens console --backend http://backend.internal:8000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd)
		},
	}
}

// session holds the state of one interactive console run.
type session struct {
	cmdCtx   *CommandContext
	store    *store.Store
	examples []contract.ExampleCategory
	stats    contract.StatsSnapshot

	// table view state for the current result
	tableSpec tabling.Spec
	chartKind charting.Kind

	// unavailable restricts the console to .health/.help/.quit until a
	// health retry succeeds
	unavailable bool
}

func runConsole(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sess := &session{
		cmdCtx:    cmdCtx,
		store:     store.New(cmdCtx.Gateway, cmdCtx.Logger),
		tableSpec: newTableSpec(cmdCtx.Cfg.PageSize),
		chartKind: charting.KindBar,
	}

	// Startup fetch: health plus examples/stats with fallbacks.
	boot, err := cmdCtx.Gateway.Bootstrap(ctx)
	sess.examples = boot.Examples
	sess.stats = boot.Stats
	if err != nil {
		sess.unavailable = true
		_, _ = fmt.Fprintln(out, gateway.UserMessage(err))
		_, _ = fmt.Fprintln(out, "Running in unavailable mode. Use .health to retry, .quit to exit.")
	}

	historyFile := cmdCtx.Cfg.HistoryFile
	if dir := filepath.Dir(historyFile); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0750)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "wealthlens> ",
		HistoryFile:     historyFile,
		AutoComplete:    newConsoleCompleter(sess.examples),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize console: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(out, "WealthLens Console (backend: %s)\n", cmdCtx.Cfg.BackendURL)
	_, _ = fmt.Fprintln(out, "Ask a question in plain language, or type .help for commands")
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := sess.handleDotCommand(ctx, cmd, line); quit {
				break
			}
			continue
		}

		if sess.unavailable {
			_, _ = fmt.Fprintln(out, "Backend unavailable. Use .health to retry, .quit to exit.")
			continue
		}

		sess.submitQuery(ctx, cmd, line)
	}

	return nil
}

func newTableSpec(pageSize int) tabling.Spec {
	spec := tabling.NewSpec()
	if pageSize > 0 {
		spec.PageSize = pageSize
	}
	return spec
}

// submitQuery runs one query through the store and renders the outcome.
func (s *session) submitQuery(ctx context.Context, cmd *cobra.Command, query string) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Thinking…")

	err := s.store.Submit(ctx, query)
	switch {
	case errors.Is(err, store.ErrQueryInFlight):
		_, _ = fmt.Fprintln(out, "A query is already running. Please wait for it to finish.")
		return
	case errors.Is(err, store.ErrEmptyQuery):
		return
	case err != nil:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", gateway.UserMessage(err))
		return
	}

	// New result: reset table and chart view state.
	s.tableSpec = newTableSpec(s.cmdCtx.Cfg.PageSize)
	snap := s.store.State()
	if snap.Result != nil {
		s.chartKind = charting.KindOf(snap.Result.Chart.Type)
	}
	s.renderActiveTab(cmd)
}

// handleDotCommand dispatches a dot-command. It returns true when the
// console should exit.
func (s *session) handleDotCommand(ctx context.Context, cmd *cobra.Command, line string) bool {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	// In unavailable mode only health, help, and quit work.
	if s.unavailable {
		switch command {
		case ".health", ".help", ".quit", ".exit":
		default:
			_, _ = fmt.Fprintln(out, "Backend unavailable. Use .health to retry, .quit to exit.")
			return false
		}
	}

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printConsoleHelp(out)

	case ".examples":
		renderExamples(out, s.examples)

	case ".stats":
		renderStats(out, s.stats)

	case ".health":
		if err := s.cmdCtx.Gateway.Health(ctx); err != nil {
			_, _ = fmt.Fprintln(out, gateway.UserMessage(err))
		} else {
			_, _ = fmt.Fprintln(out, "Backend is healthy.")
			if s.unavailable {
				s.unavailable = false
				// Refresh examples and stats now that the backend is back.
				if boot, err := s.cmdCtx.Gateway.Bootstrap(ctx); err == nil {
					s.examples = boot.Examples
					s.stats = boot.Stats
				}
			}
		}

	case ".tab":
		s.switchTab(out, parts)

	case ".filter":
		s.applyFilter(cmd, parts)

	case ".sort":
		s.applySort(cmd, parts)

	case ".page":
		s.goToPage(cmd, parts)

	case ".next":
		s.tableSpec.Page++
		s.renderTable(cmd)

	case ".prev":
		s.tableSpec.Page--
		s.renderTable(cmd)

	case ".export":
		s.export(out, errOut, parts)

	case ".history":
		renderHistory(out, s.store.History())

	case ".clear":
		s.store.Clear()
		s.tableSpec = newTableSpec(s.cmdCtx.Cfg.PageSize)
		_, _ = fmt.Fprint(out, "\033[H\033[2J")

	case ".reload":
		s.renderActiveTab(cmd)

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *session) switchTab(out io.Writer, parts []string) {
	if len(parts) < 2 {
		_, _ = fmt.Fprintln(out, "Usage: .tab <text|table|chart>")
		return
	}
	var tab store.Tab
	switch strings.ToLower(parts[1]) {
	case "text":
		tab = store.TabText
	case "table":
		tab = store.TabTable
	case "chart":
		tab = store.TabChart
	default:
		_, _ = fmt.Fprintln(out, "Usage: .tab <text|table|chart>")
		return
	}
	if !s.store.SelectTab(tab) {
		_, _ = fmt.Fprintf(out, "The %s view has no data for this result.\n", tab)
		return
	}
	s.renderActiveTabWriter(out)
}

func (s *session) applyFilter(cmd *cobra.Command, parts []string) {
	filter := ""
	if len(parts) > 1 {
		filter = strings.Join(parts[1:], " ")
	}
	s.tableSpec = s.tableSpec.WithFilter(filter)
	s.renderTable(cmd)
}

func (s *session) applySort(cmd *cobra.Command, parts []string) {
	if len(parts) < 2 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Usage: .sort <column>")
		return
	}
	key := strings.Join(parts[1:], " ")
	snap := s.store.State()
	if snap.Result == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No such column: %s\n", key)
		return
	}
	col, ok := canonicalColumn(snap.Result.Table, key)
	if !ok {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No such column: %s\n", key)
		return
	}
	s.tableSpec = s.tableSpec.WithSort(col)
	s.renderTable(cmd)
}

func (s *session) goToPage(cmd *cobra.Command, parts []string) {
	if len(parts) < 2 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Usage: .page <n>")
		return
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Usage: .page <n>")
		return
	}
	s.tableSpec.Page = n
	s.renderTable(cmd)
}

func (s *session) export(out, errOut io.Writer, parts []string) {
	if len(parts) < 2 {
		_, _ = fmt.Fprintln(out, "Usage: .export <csv|png> [path]")
		return
	}
	snap := s.store.State()
	if snap.Result == nil {
		_, _ = fmt.Fprintln(out, "Nothing to export yet. Run a query first.")
		return
	}

	path := ""
	if len(parts) > 2 {
		path = parts[2]
	}

	var err error
	switch strings.ToLower(parts[1]) {
	case "csv":
		path, err = exportCSVFile(snap.Result.Table, s.tableSpec, path, snap.Result.Timestamp)
	case "png":
		chart := charting.New(snap.Result.Chart)
		chart.Switch(s.chartKind)
		path, err = exportPNGFile(chart, path, snap.Result.Timestamp)
	default:
		_, _ = fmt.Fprintln(out, "Usage: .export <csv|png> [path]")
		return
	}
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Export failed: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(out, "Exported to %s\n", path)
}

// canonicalColumn resolves a user-typed column name to the exact column
// key, matching case-insensitively.
func canonicalColumn(data contract.TableData, key string) (string, bool) {
	for _, col := range data.Columns {
		if strings.EqualFold(col, key) {
			return col, true
		}
	}
	return "", false
}

func printConsoleHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .examples         Show example questions by category
  .stats            Show backend data statistics
  .health           Check backend health (retries unavailable mode)
  .tab <name>       Switch result view: text, table, or chart
  .filter <text>    Filter table rows (word-prefix match, empty to clear)
  .sort <column>    Sort by column; repeat to flip direction
  .page <n>         Jump to table page n
  .next / .prev     Step through table pages
  .export csv [p]   Export the filtered table as CSV
  .export png [p]   Export the current chart as PNG
  .history          Show recent queries
  .clear            Clear the current result and the screen
  .reload           Re-render the active view
  .quit / .exit     Leave the console

Tips:
  - Anything not starting with a dot is sent as a question
  - Use arrow keys to navigate input history
  - Tab completion works for commands and example questions
`
	_, _ = fmt.Fprintln(w, help)
}

// newConsoleCompleter builds a readline completer over dot-commands and
// example queries.
func newConsoleCompleter(examples []contract.ExampleCategory) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".examples"),
		readline.PcItem(".stats"),
		readline.PcItem(".health"),
		readline.PcItem(".tab",
			readline.PcItem("text"), readline.PcItem("table"), readline.PcItem("chart")),
		readline.PcItem(".filter"),
		readline.PcItem(".sort"),
		readline.PcItem(".page"),
		readline.PcItem(".next"),
		readline.PcItem(".prev"),
		readline.PcItem(".export",
			readline.PcItem("csv"), readline.PcItem("png")),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".reload"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, cat := range examples {
		for _, q := range cat.Queries {
			items = append(items, readline.PcItem(q))
		}
	}
	return readline.NewPrefixCompleter(items...)
}
