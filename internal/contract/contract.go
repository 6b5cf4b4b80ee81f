// Package contract defines the shared data shapes exchanged with the
// query backend and consumed by every presentation component.
//
// Raw wire payloads (QueryResponse and friends) mirror the backend's JSON
// contract exactly. Normalization converts them once into the typed shapes
// (QueryResult, Cell, ChartData) that the table and chart engines operate
// on, so no component re-parses loosely typed values ad hoc.
package contract

import "time"

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// QueryResponse is the raw wire shape of a query result.
type QueryResponse struct {
	Success      bool          `json:"success"`
	TextResponse string        `json:"text_response"`
	TableData    *TablePayload `json:"table_data"`
	ChartData    *ChartPayload `json:"chart_data"`
	ErrorMessage string        `json:"error_message"`
}

// TablePayload is the raw wire shape of tabular data. Cell values are
// loosely typed: strings, numbers, or currency-formatted strings.
type TablePayload struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// ChartPayload is the raw wire shape of chart data.
type ChartPayload struct {
	Type     string           `json:"type"`
	Title    string           `json:"title"`
	Labels   []string         `json:"labels"`
	Datasets []DatasetPayload `json:"datasets"`
}

// DatasetPayload is one series within a chart payload. Color fields are
// kept opaque; the backend sends either a string or a list of strings.
type DatasetPayload struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
	BorderColor     any       `json:"borderColor,omitempty"`
}

// CellKind discriminates normalized cell values.
type CellKind int

const (
	// CellText is any value that did not resolve to a number.
	CellText CellKind = iota
	// CellNumber is a numeric value, including currency-formatted strings.
	CellNumber
)

// Cell is a table cell resolved at normalization time. Numeric cells keep
// the original display text in Raw so rendering and export preserve the
// backend's formatting (e.g. "₹1,200") while comparison uses Num.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
	Raw  string
}

// Display returns the text shown to the user for this cell.
func (c Cell) Display() string {
	if c.Raw != "" {
		return c.Raw
	}
	return c.Text
}

// Row maps column name to normalized cell. Missing columns read as the
// zero Cell (empty text), which renders as a blank field.
type Row map[string]Cell

// TableData is normalized tabular data. Column order is display order.
type TableData struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether there is nothing to show in a table.
func (t TableData) Empty() bool {
	return len(t.Columns) == 0 || len(t.Rows) == 0
}

// Dataset is one normalized chart series.
type Dataset struct {
	Label  string
	Data   []float64
	Colors []string
}

// ChartData is normalized chart data. Invariant: len(Data) == len(Labels)
// for every dataset; payloads violating it normalize to the zero value.
type ChartData struct {
	Type     string
	Title    string
	Labels   []string
	Datasets []Dataset
}

// Empty reports whether there is nothing to chart.
func (c ChartData) Empty() bool {
	if len(c.Labels) == 0 || len(c.Datasets) == 0 {
		return true
	}
	for _, ds := range c.Datasets {
		if len(ds.Data) > 0 {
			return false
		}
	}
	return true
}

// QueryResult is the normalized result bundle for one successful query.
// It is immutable after creation and replaced wholesale by the next query.
type QueryResult struct {
	TextResponse string
	Table        TableData
	Chart        ChartData
	Timestamp    time.Time
}

// HasText reports whether the text tab has content.
func (r *QueryResult) HasText() bool { return r != nil && r.TextResponse != "" }

// HasTable reports whether the table tab has content.
func (r *QueryResult) HasTable() bool { return r != nil && len(r.Table.Rows) > 0 }

// HasChart reports whether the chart tab has content.
func (r *QueryResult) HasChart() bool { return r != nil && !r.Chart.Empty() }

// HistoryEntry records one submission outcome.
type HistoryEntry struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// ExampleCategory groups suggested queries by topic.
type ExampleCategory struct {
	Category string   `json:"category"`
	Queries  []string `json:"queries"`
}

// ExamplesResponse is the wire shape of GET /api/v1/query/examples.
type ExamplesResponse struct {
	Success  bool              `json:"success"`
	Examples []ExampleCategory `json:"examples"`
}

// StatsSnapshot is a display-only key/value bag from the backend. All
// fields are optional; absent keys display as a placeholder.
type StatsSnapshot map[string]any

// StatsPlaceholder is shown for keys the backend did not provide.
const StatsPlaceholder = "N/A"

// statsDisplayOrder lists well-known stats keys in display order.
var statsDisplayOrder = []string{
	"total_clients",
	"active_portfolios",
	"total_portfolio_value",
	"relationship_managers",
	"last_updated",
}

// Get returns the display text for a stats key, or the placeholder when
// the key is absent or empty.
func (s StatsSnapshot) Get(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return StatsPlaceholder
	}
	text := formatStatValue(v)
	if text == "" {
		return StatsPlaceholder
	}
	return text
}

// Keys returns well-known keys first, then any extra keys sorted.
func (s StatsSnapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	seen := make(map[string]bool, len(s))
	for _, k := range statsDisplayOrder {
		keys = append(keys, k)
		seen[k] = true
	}
	extras := make([]string, 0)
	for k := range s {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sortStrings(extras)
	return append(keys, extras...)
}

// StatsResponse is the wire shape of GET /api/v1/query/stats.
type StatsResponse struct {
	Success bool          `json:"success"`
	Stats   StatsSnapshot `json:"stats"`
}

// HealthResponse is the wire shape of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
