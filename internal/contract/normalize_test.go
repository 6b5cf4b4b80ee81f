package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"rupee with commas", "₹1,200", 1200, true},
		{"rupee indian grouping", "₹12,00,000", 1200000, true},
		{"dollar", "$950.50", 950.50, true},
		{"plain number", "10000", 10000, true},
		{"commas only", "1,200,000", 1200000, true},
		{"spaces", " ₹ 500 ", 500, true},
		{"negative", "-₹250", -250, true},
		{"text", "Mumbai, India", 0, false},
		{"empty", "", 0, false},
		{"symbol only", "₹", 0, false},
		{"mixed", "₹1,200 approx", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCurrency(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	c := ParseCell("₹1,200")
	assert.Equal(t, CellNumber, c.Kind)
	assert.Equal(t, float64(1200), c.Num)
	assert.Equal(t, "₹1,200", c.Display(), "display keeps the wire formatting")

	c = ParseCell(float64(42))
	assert.Equal(t, CellNumber, c.Kind)
	assert.Equal(t, "42", c.Display())

	c = ParseCell("Conservative")
	assert.Equal(t, CellText, c.Kind)
	assert.Equal(t, "Conservative", c.Display())

	c = ParseCell(nil)
	assert.Equal(t, CellText, c.Kind)
	assert.Equal(t, "", c.Display())
}

func TestNormalizeResult_Table(t *testing.T) {
	resp := QueryResponse{
		Success:      true,
		TextResponse: "  Here are your results.  ",
		TableData: &TablePayload{
			Columns: []string{"Client Name", "Portfolio Value", "City"},
			Rows: []map[string]any{
				{"Client Name": "Priya Shah", "Portfolio Value": "₹1,200", "City": "Mumbai, India"},
				{"Client Name": "Arjun Mehta", "Portfolio Value": float64(950)},
			},
		},
	}

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res := NormalizeResult(resp, now)

	assert.Equal(t, "Here are your results.", res.TextResponse)
	assert.Equal(t, now, res.Timestamp)
	require.Len(t, res.Table.Rows, 2)
	assert.Equal(t, []string{"Client Name", "Portfolio Value", "City"}, res.Table.Columns)

	assert.Equal(t, CellNumber, res.Table.Rows[0]["Portfolio Value"].Kind)
	assert.Equal(t, float64(1200), res.Table.Rows[0]["Portfolio Value"].Num)

	// Missing cell reads as the zero Cell and renders blank.
	assert.Equal(t, "", res.Table.Rows[1]["City"].Display())
}

func TestNormalizeResult_NilPayloads(t *testing.T) {
	res := NormalizeResult(QueryResponse{Success: true, TextResponse: "just text"}, time.Now())
	assert.True(t, res.Table.Empty())
	assert.True(t, res.Chart.Empty())
	assert.True(t, res.HasText())
	assert.False(t, res.HasTable())
	assert.False(t, res.HasChart())
}

func TestNormalizeChart_LengthMismatch(t *testing.T) {
	resp := QueryResponse{
		Success: true,
		ChartData: &ChartPayload{
			Type:   "bar",
			Labels: []string{"A", "B", "C"},
			Datasets: []DatasetPayload{
				{Label: "Value", Data: []float64{1, 2}}, // shorter than labels
			},
		},
	}
	res := NormalizeResult(resp, time.Now())
	assert.True(t, res.Chart.Empty(), "mismatched payload must normalize to no chart data")
}

func TestNormalizeChart_Colors(t *testing.T) {
	resp := QueryResponse{
		Success: true,
		ChartData: &ChartPayload{
			Type:   "Bar",
			Title:  "Portfolio Values by Relationship Manager",
			Labels: []string{"Anita", "Rahul"},
			Datasets: []DatasetPayload{
				{
					Label:           "Portfolio Value (₹)",
					Data:            []float64{1200000, 950000},
					BackgroundColor: []any{"#FF6384", "#36A2EB"},
				},
				{
					Label:       "Growth",
					Data:        []float64{1, 2},
					BorderColor: "#FFCE56",
				},
			},
		},
	}
	res := NormalizeResult(resp, time.Now())
	require.False(t, res.Chart.Empty())
	assert.Equal(t, "bar", res.Chart.Type)
	assert.Equal(t, []string{"#FF6384", "#36A2EB"}, res.Chart.Datasets[0].Colors)
	assert.Equal(t, []string{"#FFCE56"}, res.Chart.Datasets[1].Colors)
}

func TestChartDataEmpty(t *testing.T) {
	assert.True(t, ChartData{}.Empty())
	assert.True(t, ChartData{Labels: []string{"A"}}.Empty(), "no datasets")
	assert.True(t, ChartData{
		Labels:   []string{},
		Datasets: []Dataset{{Data: []float64{1}}},
	}.Empty(), "no labels")
	assert.True(t, ChartData{
		Labels:   []string{"A"},
		Datasets: []Dataset{{Data: nil}},
	}.Empty(), "all datasets empty")
	assert.False(t, ChartData{
		Labels:   []string{"A"},
		Datasets: []Dataset{{Data: []float64{1}}},
	}.Empty())
}

func TestStatsSnapshot(t *testing.T) {
	s := StatsSnapshot{
		"total_clients":         float64(25),
		"total_portfolio_value": "₹500+ Crores",
		"custom_metric":         "x",
	}

	assert.Equal(t, "25", s.Get("total_clients"))
	assert.Equal(t, "₹500+ Crores", s.Get("total_portfolio_value"))
	assert.Equal(t, StatsPlaceholder, s.Get("relationship_managers"))
	assert.Equal(t, StatsPlaceholder, s.Get("missing_entirely"))

	keys := s.Keys()
	require.GreaterOrEqual(t, len(keys), 6)
	assert.Equal(t, "total_clients", keys[0])
	assert.Equal(t, "custom_metric", keys[len(keys)-1])
}
