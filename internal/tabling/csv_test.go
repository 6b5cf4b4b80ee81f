package tabling

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV_QuoteEscaping(t *testing.T) {
	data := makeTable([]string{"note"}, []map[string]any{
		{"note": `He said "hi", ok`},
	})

	var buf strings.Builder
	require.NoError(t, ExportCSV(&buf, data, NewSpec()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"note"`, lines[0])
	assert.Equal(t, `"He said ""hi"", ok"`, lines[1])

	// The blob must round-trip through a standard CSV reader.
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `He said "hi", ok`, records[1][0])
}

func TestExportCSV_EveryFieldQuoted(t *testing.T) {
	data := makeTable([]string{"Client Name", "Portfolio Value"}, []map[string]any{
		{"Client Name": "Priya Shah", "Portfolio Value": "₹1,200"},
	})

	var buf strings.Builder
	require.NoError(t, ExportCSV(&buf, data, NewSpec()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, `"Client Name","Portfolio Value"`, lines[0])
	assert.Equal(t, `"Priya Shah","₹1,200"`, lines[1], "numeric cells export their original display text")
}

func TestExportCSV_UsesFilteredSortedNotPaginated(t *testing.T) {
	raw := make([]map[string]any, 25)
	for i := range raw {
		raw[i] = map[string]any{"n": float64(24 - i), "tag": "keep"}
	}
	raw = append(raw, map[string]any{"n": float64(99), "tag": "drop"})
	data := makeTable([]string{"n", "tag"}, raw)

	spec := Spec{Filter: "keep", Sort: SortSpec{Key: "n"}, Page: 2, PageSize: 10}
	var buf strings.Builder
	require.NoError(t, ExportCSV(&buf, data, spec))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 26, "header plus all 25 filtered rows, ignoring pagination")
	assert.Equal(t, `"0","keep"`, lines[1], "rows are exported in sorted order")
}

func TestExportCSV_MissingCellsRenderBlank(t *testing.T) {
	data := makeTable([]string{"a", "b"}, []map[string]any{
		{"a": "only a"},
	})

	var buf strings.Builder
	require.NoError(t, ExportCSV(&buf, data, NewSpec()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, `"only a",""`, lines[1])
}

func TestExportCSV_NoData(t *testing.T) {
	var buf strings.Builder
	err := ExportCSV(&buf, makeTable(nil, nil), NewSpec())
	assert.Error(t, err)
}

func TestCSVFilename(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "query-results-2024-03-15.csv", CSVFilename(ts))
}
