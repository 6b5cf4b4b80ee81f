package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	teatable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/charting"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
	"github.com/wealthlens-labs/wealthlens/internal/present"
	"github.com/wealthlens-labs/wealthlens/internal/store"
	"github.com/wealthlens-labs/wealthlens/internal/tabling"
)

// NewBrowseCommand creates the full-screen results browser command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [\"<question>\"]",
		Short: "Full-screen interactive results browser",
		Long: `Open a full-screen browser over query results. With a question
argument the query runs immediately; otherwise type one at the prompt.

Keys: enter submits, tab/shift+tab cycle views, / filters the table,
s cycles the sort column, d flips sort direction, left/right page,
c cycles the chart type, e exports CSV, p exports PNG, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := ""
			if len(args) > 0 {
				question = args[0]
			}
			return runBrowse(cmd, question)
		},
	}
}

func runBrowse(cmd *cobra.Command, question string) error {
	cmdCtx := NewCommandContext(cmd)

	m := newBrowseModel(cmdCtx, question)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if bm, ok := final.(browseModel); ok && bm.fatal != nil {
		return bm.fatal
	}
	return nil
}

// browseState is the coarse mode of the browser.
type browseState int

const (
	browseInput browseState = iota
	browseLoading
	browseResults
	browseError
)

// queryResultMsg carries the outcome of a query back into Update.
type queryResultMsg struct {
	result contract.QueryResult
	err    error
}

// exportDoneMsg reports a finished export.
type exportDoneMsg struct {
	path string
	err  error
}

// browseKeyMap defines the key bindings shown in help.
type browseKeyMap struct {
	Submit    key.Binding
	CycleTab  key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Direction key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	ChartKind key.Binding
	ExportCSV key.Binding
	ExportPNG key.Binding
	Quit      key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		CycleTab:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch view")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Direction: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "sort direction")),
		PrevPage:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "page")),
		NextPage:  key.NewBinding(key.WithKeys("right")),
		ChartKind: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chart type")),
		ExportCSV: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		ExportPNG: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export png")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.CycleTab, k.Filter, k.Sort, k.PrevPage, k.ExportCSV, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.CycleTab, k.Filter},
		{k.Sort, k.Direction, k.PrevPage},
		{k.ChartKind, k.ExportCSV, k.ExportPNG, k.Quit},
	}
}

var (
	browseTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	browseTabActive     = lipgloss.NewStyle().Bold(true).Underline(true)
	browseTabDisabled   = lipgloss.NewStyle().Faint(true)
	browseErrStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	browseStatusStyle   = lipgloss.NewStyle().Faint(true)
	browseViewportStyle = lipgloss.NewStyle().PaddingLeft(1)
)

// browseModel is the bubbletea model for the results browser.
type browseModel struct {
	cmdCtx *CommandContext

	state     browseState
	activeTab store.Tab

	queryInput  textinput.Model
	filterInput textinput.Model
	filtering   bool

	result *contract.QueryResult
	errMsg string
	status string
	fatal  error

	spec      tabling.Spec
	sortIdx   int
	chartKind charting.Kind

	table     teatable.Model
	paginator paginator.Model
	spin      spinner.Model
	keys      browseKeyMap
	help      help.Model

	width  int
	height int
}

func newBrowseModel(cmdCtx *CommandContext, question string) browseModel {
	qi := textinput.New()
	qi.Placeholder = "Ask a question..."
	qi.Focus()
	qi.Width = 60
	qi.SetValue(question)

	fi := textinput.New()
	fi.Placeholder = "Filter rows..."
	fi.Width = 40

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	pg := paginator.New()
	pg.Type = paginator.Dots

	m := browseModel{
		cmdCtx:      cmdCtx,
		state:       browseInput,
		activeTab:   store.TabText,
		queryInput:  qi,
		filterInput: fi,
		spec:        newTableSpec(cmdCtx.Cfg.PageSize),
		sortIdx:     -1,
		chartKind:   charting.KindBar,
		paginator:   pg,
		spin:        sp,
		keys:        newBrowseKeyMap(),
		help:        help.New(),
	}
	if strings.TrimSpace(question) != "" {
		// Init fires the query immediately; reflect that in the view.
		m.state = browseLoading
		m.queryInput.Blur()
	}
	return m
}

func (m browseModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	if strings.TrimSpace(m.queryInput.Value()) != "" {
		cmds = append(cmds, m.submit())
	}
	return tea.Batch(cmds...)
}

// submit kicks off the query as a tea command.
func (m *browseModel) submit() tea.Cmd {
	query := strings.TrimSpace(m.queryInput.Value())
	if query == "" {
		return nil
	}
	m.state = browseLoading
	m.errMsg = ""
	m.status = ""
	m.queryInput.Blur()
	gw := m.cmdCtx.Gateway
	run := func() tea.Msg {
		// The gateway applies its own query timeout.
		result, err := gw.Query(context.Background(), query)
		return queryResultMsg{result: result, err: err}
	}
	// Restart the spinner tick chain; it stops whenever the model
	// leaves the loading state.
	return tea.Batch(run, m.spin.Tick)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queryInput.Width = msg.Width - 10
		m.help.Width = msg.Width
		if m.result != nil {
			m.rebuildTable()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case queryResultMsg:
		if msg.err != nil {
			m.state = browseError
			m.errMsg = gateway.UserMessage(msg.err)
			m.queryInput.Focus()
			return m, nil
		}
		res := msg.result
		m.result = &res
		m.state = browseResults
		m.errMsg = ""
		m.spec = newTableSpec(m.cmdCtx.Cfg.PageSize)
		m.sortIdx = -1
		m.filterInput.SetValue("")
		m.chartKind = charting.KindOf(res.Chart.Type)
		m.activeTab = present.Fallback(m.activeTab, m.result)
		m.rebuildTable()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == browseLoading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

func (m browseModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	if m.state != browseLoading && m.queryInput.Focused() {
		m.queryInput, cmd = m.queryInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.state == browseLoading {
		return m, nil
	}

	// Filter entry mode captures everything except enter and esc.
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
			m.filterInput.Blur()
			m.spec = m.spec.WithFilter(m.filterInput.Value())
			m.rebuildTable()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			return m, cmd
		}
	}

	// While the query input has focus, printable keys type.
	if m.queryInput.Focused() {
		switch msg.String() {
		case "enter":
			return m, m.submit()
		case "esc":
			if m.result != nil {
				m.queryInput.Blur()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.queryInput, cmd = m.queryInput.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		m.queryInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.CycleTab):
		m.cycleTab(msg.String() == "shift+tab")
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		if m.activeTab == store.TabTable {
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
		return m, nil

	case key.Matches(msg, m.keys.Direction):
		if m.spec.Sort.Key != "" {
			m.spec.Sort.Desc = !m.spec.Sort.Desc
			m.rebuildTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.spec.Page--
		m.rebuildTable()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.spec.Page++
		m.rebuildTable()
		return m, nil

	case key.Matches(msg, m.keys.ChartKind):
		m.chartKind = nextKind(m.chartKind)
		return m, nil

	case key.Matches(msg, m.keys.ExportCSV):
		return m, m.exportCSV()

	case key.Matches(msg, m.keys.ExportPNG):
		return m, m.exportPNG()
	}

	if m.result != nil && m.activeTab == store.TabTable {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browseModel) cycleTab(backward bool) {
	if m.result == nil {
		return
	}
	avail := present.Availability(m.result)
	tabs := present.Tabs()
	idx := int(m.activeTab)
	for range tabs {
		if backward {
			idx = (idx + len(tabs) - 1) % len(tabs)
		} else {
			idx = (idx + 1) % len(tabs)
		}
		if avail[tabs[idx]] {
			m.activeTab = tabs[idx]
			return
		}
	}
}

func (m *browseModel) cycleSort() {
	if m.result == nil || len(m.result.Table.Columns) == 0 {
		return
	}
	cols := m.result.Table.Columns
	m.sortIdx = (m.sortIdx + 1) % len(cols)
	m.spec.Sort = tabling.SortSpec{Key: cols[m.sortIdx]}
	m.rebuildTable()
}

func (m *browseModel) exportCSV() tea.Cmd {
	if m.result == nil {
		return nil
	}
	data, spec, ts := m.result.Table, m.spec, m.result.Timestamp
	return func() tea.Msg {
		path, err := exportCSVFile(data, spec, "", ts)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *browseModel) exportPNG() tea.Cmd {
	if m.result == nil {
		return nil
	}
	chart := charting.New(m.result.Chart)
	chart.Switch(m.chartKind)
	ts := m.result.Timestamp
	return func() tea.Msg {
		path, err := exportPNGFile(chart, "", ts)
		return exportDoneMsg{path: path, err: err}
	}
}

// rebuildTable recomputes the bubbles table and paginator from the
// current spec.
func (m *browseModel) rebuildTable() {
	if m.result == nil {
		return
	}
	view := tabling.Apply(m.result.Table, m.spec)
	m.spec.Page = view.Page

	colWidth := 16
	if len(view.Columns) > 0 && m.width > 0 {
		if w := (m.width - 4) / len(view.Columns); w > colWidth {
			colWidth = w
		}
	}
	cols := make([]teatable.Column, len(view.Columns))
	for i, c := range view.Columns {
		title := c
		if strings.EqualFold(c, m.spec.Sort.Key) {
			if m.spec.Sort.Desc {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		cols[i] = teatable.Column{Title: title, Width: colWidth}
	}
	rows := make([]teatable.Row, len(view.Rows))
	for i, row := range view.Rows {
		tr := make(teatable.Row, len(view.Columns))
		for j, c := range view.Columns {
			tr[j] = row[c].Display()
		}
		rows[i] = tr
	}

	height := len(rows) + 1
	if height > 14 {
		height = 14
	}
	m.table = teatable.New(
		teatable.WithColumns(cols),
		teatable.WithRows(rows),
		teatable.WithHeight(height),
		teatable.WithFocused(true),
	)

	m.paginator.SetTotalPages(view.TotalPages)
	m.paginator.Page = view.Page - 1
}

func nextKind(k charting.Kind) charting.Kind {
	kinds := charting.Kinds()
	for i, kind := range kinds {
		if kind == k {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return charting.KindBar
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(browseTitleStyle.Render("WealthLens"))
	b.WriteString("\n\n")
	b.WriteString(m.queryInput.View())
	b.WriteString("\n\n")

	switch m.state {
	case browseLoading:
		b.WriteString(m.spin.View() + " Thinking…\n")
	case browseError:
		b.WriteString(browseErrStyle.Render(m.errMsg) + "\n")
	case browseResults:
		m.viewResults(&b)
	default:
		b.WriteString(browseStatusStyle.Render("Type a question and press enter.") + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + browseStatusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m browseModel) viewResults(b *strings.Builder) {
	avail := present.Availability(m.result)
	names := make([]string, 0, 3)
	for _, tab := range present.Tabs() {
		label := " " + tab.String() + " "
		switch {
		case tab == m.activeTab:
			label = browseTabActive.Render(label)
		case !avail[tab]:
			label = browseTabDisabled.Render(label)
		}
		names = append(names, label)
	}
	b.WriteString(strings.Join(names, "|"))
	b.WriteString("\n\n")

	switch m.activeTab {
	case store.TabTable:
		if m.filtering {
			b.WriteString(m.filterInput.View() + "\n")
		} else if m.spec.Filter != "" {
			b.WriteString(browseStatusStyle.Render(fmt.Sprintf("filter: %q", m.spec.Filter)) + "\n")
		}
		view := tabling.Apply(m.result.Table, m.spec)
		if view.Empty() {
			b.WriteString("No table data available\n")
			return
		}
		b.WriteString(browseViewportStyle.Render(m.table.View()))
		b.WriteString("\n" + m.paginator.View())
		b.WriteString(browseStatusStyle.Render(fmt.Sprintf("  %d rows", view.TotalFiltered)) + "\n")

	case store.TabChart:
		width := m.width
		if width == 0 {
			width = defaultChartWidth
		}
		chart := charting.New(m.result.Chart)
		chart.Switch(m.chartKind)
		out := present.SafeRender("chart", m.cmdCtx.Logger, func() string {
			return charting.Render(chart, width)
		})
		b.WriteString(out + "\n")

	default:
		out := present.SafeRender("text", m.cmdCtx.Logger, func() string {
			return m.result.TextResponse
		})
		b.WriteString(browseViewportStyle.Render(out) + "\n")
	}
}
