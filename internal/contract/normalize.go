package contract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// currencyMarkers are stripped before attempting a numeric parse. Covers
// the symbols the backend is known to emit plus common western ones.
const currencyMarkers = "₹$€£"

// NormalizeResult converts a raw backend response into the typed result
// bundle. The timestamp records when the result was produced client-side.
func NormalizeResult(resp QueryResponse, now time.Time) QueryResult {
	return QueryResult{
		TextResponse: strings.TrimSpace(resp.TextResponse),
		Table:        normalizeTable(resp.TableData),
		Chart:        normalizeChart(resp.ChartData),
		Timestamp:    now,
	}
}

func normalizeTable(p *TablePayload) TableData {
	if p == nil || len(p.Columns) == 0 {
		return TableData{}
	}
	cols := dedupeColumns(p.Columns)
	rows := make([]Row, 0, len(p.Rows))
	for _, raw := range p.Rows {
		row := make(Row, len(cols))
		for _, col := range cols {
			if v, ok := raw[col]; ok {
				row[col] = ParseCell(v)
			}
			// Missing cells stay absent; the map default renders blank.
		}
		rows = append(rows, row)
	}
	return TableData{Columns: cols, Rows: rows}
}

func dedupeColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func normalizeChart(p *ChartPayload) ChartData {
	if p == nil || len(p.Labels) == 0 || len(p.Datasets) == 0 {
		return ChartData{}
	}
	datasets := make([]Dataset, 0, len(p.Datasets))
	for _, ds := range p.Datasets {
		// Length mismatch means the payload is malformed; treat the
		// whole chart as absent rather than guessing an alignment.
		if len(ds.Data) != len(p.Labels) {
			return ChartData{}
		}
		datasets = append(datasets, Dataset{
			Label:  ds.Label,
			Data:   ds.Data,
			Colors: normalizeColors(ds.BackgroundColor, ds.BorderColor),
		})
	}
	return ChartData{
		Type:     strings.ToLower(strings.TrimSpace(p.Type)),
		Title:    p.Title,
		Labels:   p.Labels,
		Datasets: datasets,
	}
}

// normalizeColors flattens the backend's color fields, which arrive as
// either a single string or a list of strings.
func normalizeColors(vals ...any) []string {
	var out []string
	for _, v := range vals {
		switch c := v.(type) {
		case string:
			if c != "" {
				out = append(out, c)
			}
		case []any:
			for _, item := range c {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// ParseCell resolves a loosely typed cell value into its tagged form.
// JSON numbers become CellNumber; strings that parse as (possibly
// currency-formatted) numbers become CellNumber with the original text
// preserved in Raw; everything else is CellText.
func ParseCell(v any) Cell {
	switch val := v.(type) {
	case nil:
		return Cell{}
	case float64:
		return Cell{Kind: CellNumber, Num: val, Raw: formatNumber(val)}
	case int:
		return Cell{Kind: CellNumber, Num: float64(val), Raw: formatNumber(float64(val))}
	case int64:
		return Cell{Kind: CellNumber, Num: float64(val), Raw: formatNumber(float64(val))}
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Cell{Kind: CellNumber, Num: f, Raw: val.String()}
		}
		return Cell{Text: val.String()}
	case bool:
		return Cell{Text: strconv.FormatBool(val)}
	case string:
		if f, ok := ParseCurrency(val); ok {
			return Cell{Kind: CellNumber, Num: f, Raw: val}
		}
		return Cell{Text: val}
	default:
		return Cell{Text: fmt.Sprintf("%v", val)}
	}
}

// ParseCurrency attempts to read a currency-formatted or plain numeric
// string. Currency symbols and thousands separators are stripped; both
// western (1,200,000) and Indian (12,00,000) grouping parse. Returns
// false for anything that is not purely numeric after stripping.
func ParseCurrency(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range trimmed {
		switch {
		case strings.ContainsRune(currencyMarkers, r):
			// strip
		case r == ',' || r == ' ':
			// strip separators
		default:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// formatNumber renders a float the way the wire would have, without
// trailing zeros for integral values.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatStatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatNumber(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortStrings(s []string) { sort.Strings(s) }
