package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthlens-labs/wealthlens/internal/cli/config"
	"github.com/wealthlens-labs/wealthlens/internal/cli/testutil"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/mockbackend"
)

// newTestBackend serves the mock backend over httptest and points the
// command config at it via the environment fallback.
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	config.ResetConfig()
	srv := httptest.NewServer(mockbackend.NewServer(0, nil).Router())
	t.Cleanup(srv.Close)
	t.Setenv("WEALTHLENS_BACKEND_URL", srv.URL)
	return srv
}

// newDeadBackend points the config at a server that is already closed.
func newDeadBackend(t *testing.T) {
	t.Helper()
	config.ResetConfig()
	srv := httptest.NewServer(nil)
	srv.Close()
	t.Setenv("WEALTHLENS_BACKEND_URL", srv.URL)
}

// execute runs a command with captured output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Contains(t, out, "WealthLens v1.2.3")
}

func TestHealthCommandHealthy(t *testing.T) {
	newTestBackend(t)

	out, _, err := execute(t, NewHealthCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
}

func TestHealthCommandUnreachable(t *testing.T) {
	newDeadBackend(t)

	_, _, err := execute(t, NewHealthCommand())
	require.Error(t, err)
}

func TestHealthCommandJSON(t *testing.T) {
	newTestBackend(t)
	t.Setenv("WEALTHLENS_OUTPUT", "json")

	out, _, err := execute(t, NewHealthCommand())
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, true, payload["healthy"])
}

func TestExamplesCommandFromBackend(t *testing.T) {
	newTestBackend(t)

	out, _, err := execute(t, NewExamplesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Portfolio Analysis")
	assert.Contains(t, out, "Relationship Manager Insights")
	assert.Contains(t, out, "Client Information")
}

func TestExamplesCommandFallsBackWhenUnreachable(t *testing.T) {
	newDeadBackend(t)

	out, _, err := execute(t, NewExamplesCommand())
	require.NoError(t, err, "examples must never fail")
	assert.Contains(t, out, "Portfolio Analysis")
}

func TestStatsCommandFromBackend(t *testing.T) {
	newTestBackend(t)

	out, _, err := execute(t, NewStatsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Total Clients")
	assert.Contains(t, out, "45")
}

func TestStatsCommandFallsBackToPlaceholders(t *testing.T) {
	newDeadBackend(t)

	out, _, err := execute(t, NewStatsCommand())
	require.NoError(t, err, "stats must never fail")
	assert.Contains(t, out, "N/A")
}

func TestAskCommandRendersBundle(t *testing.T) {
	newTestBackend(t)

	out, _, err := execute(t, NewAskCommand(), "show portfolio values by client")
	require.NoError(t, err)

	assert.Contains(t, out, "five largest portfolios")
	assert.Contains(t, out, "Ananya Iyer")
	assert.Contains(t, out, "Top portfolios by value")
}

func TestAskCommandFilterAndSort(t *testing.T) {
	newTestBackend(t)

	out, _, err := execute(t, NewAskCommand(),
		"show portfolio values by client", "--filter", "mumbai", "--tab", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "Ananya Iyer")
	assert.Contains(t, out, "Vikram Rao")
	assert.NotContains(t, out, "Rohan Mehta", "Delhi row must be filtered out")
}

func TestAskCommandJSONOutput(t *testing.T) {
	newTestBackend(t)
	t.Setenv("WEALTHLENS_OUTPUT", "json")

	out, _, err := execute(t, NewAskCommand(), "show portfolio values by client")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEmpty(t, payload["text"])
	assert.EqualValues(t, 5, payload["row_count"])
}

func TestAskCommandBackendError(t *testing.T) {
	newDeadBackend(t)

	_, _, err := execute(t, NewAskCommand(), "anything at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not reach the backend")
}

func TestAskRenderNegativeChartData(t *testing.T) {
	tr := testutil.NewTestRendererText()
	result := &contract.QueryResult{
		TextResponse: "Net flows for the quarter.",
		Chart: contract.ChartData{
			Type:   "bar",
			Title:  "Net Flows by Client",
			Labels: []string{"Inflow", "Outflow"},
			Datasets: []contract.Dataset{
				{Label: "Flow (₹)", Data: []float64{100000, -50000}},
			},
		},
	}
	spec := newTableSpec(config.DefaultPageSize)

	err := renderAskResult(tr.Renderer, slog.New(slog.DiscardHandler), result, spec, &AskOptions{})
	require.NoError(t, err)

	out := testutil.StripANSI(tr.Output())
	assert.Contains(t, out, "Net flows for the quarter.")
	assert.Contains(t, out, "Outflow")
	assert.NotContains(t, out, "Something went wrong")
}

func TestAskCommandExportCSV(t *testing.T) {
	newTestBackend(t)
	t.Chdir(t.TempDir())

	out, _, err := execute(t, NewAskCommand(),
		"show portfolio values by client", "--export-csv", "out.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported table to out.csv")

	data, err := os.ReadFile("out.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Client"`)
	assert.Contains(t, string(data), `"Ananya Iyer"`)
}
