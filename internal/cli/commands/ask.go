package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wealthlens-labs/wealthlens/internal/charting"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
	"github.com/wealthlens-labs/wealthlens/internal/present"
	"github.com/wealthlens-labs/wealthlens/internal/tabling"
)

// AskOptions holds flags for the ask command.
type AskOptions struct {
	Tab       string
	Filter    string
	Sort      string
	Page      int
	ExportCSV string
	ExportPNG string
}

// NewAskCommand creates the one-shot query command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask \"<question>\"",
		Short: "Ask a single question and print the result",
		Long: `Send one natural-language question to the backend and render the
result bundle (text answer, table, chart) in the selected output mode.`,
		Example: `  # Ask a question
  wealthlens ask "show me the top 5 clients by portfolio value"

  # Filter and sort the returned table
  wealthlens ask "portfolio values" --filter mumbai --sort Value

  # Machine-readable output
  wealthlens ask "portfolio values" --output json

  # Export alongside rendering
  wealthlens ask "portfolio values" --export-csv results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tab, "tab", "", "Render only one view: text, table, or chart")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Filter table rows (word-prefix match)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort table by column")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Table page to render")
	cmd.Flags().StringVar(&opts.ExportCSV, "export-csv", "", "Also export the table as CSV to this path")
	cmd.Flags().StringVar(&opts.ExportPNG, "export-png", "", "Also export the chart as PNG to this path")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, opts *AskOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	var spinner *output.Spinner
	if r.IsTTY() && r.EffectiveMode() == output.ModeText {
		spinner = r.NewSpinner("Thinking…")
		spinner.Start()
	}

	result, err := cmdCtx.Gateway.Query(cmd.Context(), question)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("%s", gateway.UserMessage(err))
	}

	spec := newTableSpec(cmdCtx.Cfg.PageSize).WithFilter(opts.Filter)
	if opts.Sort != "" {
		col, ok := canonicalColumn(result.Table, opts.Sort)
		if !ok {
			return fmt.Errorf("no such column: %s", opts.Sort)
		}
		spec = spec.WithSort(col)
	}
	if opts.Page > 0 {
		spec.Page = opts.Page
	}

	if err := renderAskResult(r, cmdCtx.Logger, &result, spec, opts); err != nil {
		return err
	}

	if opts.ExportCSV != "" {
		path, err := exportCSVFile(result.Table, spec, opts.ExportCSV, result.Timestamp)
		if err != nil {
			return fmt.Errorf("csv export failed: %w", err)
		}
		r.Muted("Exported table to " + path)
	}
	if opts.ExportPNG != "" {
		chart := charting.New(result.Chart)
		path, err := exportPNGFile(chart, opts.ExportPNG, result.Timestamp)
		if err != nil {
			return fmt.Errorf("png export failed: %w", err)
		}
		r.Muted("Exported chart to " + path)
	}

	return nil
}

func renderAskResult(r *output.Renderer, logger *slog.Logger, result *contract.QueryResult, spec tabling.Spec, opts *AskOptions) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(askJSON(result, spec))
	}

	wantTab := strings.ToLower(opts.Tab)
	showAll := wantTab == ""

	if (showAll || wantTab == "text") && result.HasText() {
		r.Println(result.TextResponse)
		r.Println("")
	}

	if showAll || wantTab == "table" {
		view := tabling.Apply(result.Table, spec)
		if !view.Empty() {
			r.Printf("%s", present.SafeRender("table", logger, func() string {
				return renderTableView(view, spec)
			}))
			r.Println("")
		} else if wantTab == "table" {
			r.Println("No table data available")
		}
	}

	if showAll || wantTab == "chart" {
		chart := charting.New(result.Chart)
		if !chart.Empty() {
			r.Println(present.SafeRender("chart", logger, func() string {
				return charting.Render(chart, defaultChartWidth)
			}))
		} else if wantTab == "chart" {
			r.Println(charting.NoDataMessage)
		}
	}

	return nil
}

// askJSON shapes the result bundle for --output json.
func askJSON(result *contract.QueryResult, spec tabling.Spec) map[string]any {
	view := tabling.Apply(result.Table, spec)
	rows := make([]map[string]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		m := make(map[string]string, len(view.Columns))
		for _, col := range view.Columns {
			m[col] = row[col].Display()
		}
		rows = append(rows, m)
	}
	return map[string]any{
		"text":      result.TextResponse,
		"columns":   view.Columns,
		"rows":      rows,
		"page":      view.Page,
		"pages":     view.TotalPages,
		"row_count": view.TotalFiltered,
		"chart": map[string]any{
			"type":   result.Chart.Type,
			"title":  result.Chart.Title,
			"labels": result.Chart.Labels,
		},
		"timestamp": result.Timestamp,
	}
}
