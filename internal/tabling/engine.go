// Package tabling is the generic table engine: filter, sort and paginate
// over normalized table data, plus CSV export. Everything here is a pure
// function of (data, spec); the engine holds no state and is independent
// of how the table is displayed.
package tabling

import (
	"sort"
	"strings"
	"unicode"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

// DefaultPageSize is the fixed page size used by the console.
const DefaultPageSize = 10

// SortSpec names a sort column and direction.
type SortSpec struct {
	Key  string
	Desc bool
}

// Toggle returns the spec after the user selects a column: a new column
// starts ascending, re-selecting the current column flips direction.
func (s SortSpec) Toggle(key string) SortSpec {
	if s.Key == key {
		return SortSpec{Key: key, Desc: !s.Desc}
	}
	return SortSpec{Key: key}
}

// Spec is one table view request.
type Spec struct {
	Filter   string
	Sort     SortSpec
	Page     int
	PageSize int
}

// NewSpec returns a spec with defaults applied.
func NewSpec() Spec {
	return Spec{Page: 1, PageSize: DefaultPageSize}
}

// WithFilter changes the filter text and resets to the first page.
// Changing the sort deliberately does not reset the page.
func (s Spec) WithFilter(filter string) Spec {
	s.Filter = filter
	s.Page = 1
	return s
}

// WithSort toggles sorting on the given column.
func (s Spec) WithSort(key string) Spec {
	s.Sort = s.Sort.Toggle(key)
	return s
}

// View is the computed result of applying a Spec.
type View struct {
	Columns       []string
	Rows          []contract.Row // the visible page
	Page          int            // clamped
	PageSize      int
	TotalFiltered int
	TotalPages    int
}

// Empty reports whether there is no table data at all (as opposed to a
// filter that matched nothing).
func (v View) Empty() bool {
	return len(v.Columns) == 0
}

// Apply computes the visible page for the given data and spec:
// filter, then sort, then clamp and paginate.
func Apply(data contract.TableData, spec Spec) View {
	if data.Empty() {
		return View{Page: 1, PageSize: spec.PageSize, TotalPages: 1}
	}
	if spec.PageSize <= 0 {
		spec.PageSize = DefaultPageSize
	}

	rows := Filter(data, spec.Filter)
	rows = Sort(rows, spec.Sort)

	total := len(rows)
	totalPages := (total + spec.PageSize - 1) / spec.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := spec.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * spec.PageSize
	end := start + spec.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return View{
		Columns:       data.Columns,
		Rows:          rows[start:end],
		Page:          page,
		PageSize:      spec.PageSize,
		TotalFiltered: total,
		TotalPages:    totalPages,
	}
}

// Filter returns the rows matching the filter text. Matching is
// case-insensitive and word-anchored: a row matches when any cell, split
// into tokens on whitespace and commas, has a token that equals or starts
// with the trimmed needle. Plain substring hits inside the middle of a
// word do not match. An empty needle matches everything.
func Filter(data contract.TableData, filter string) []contract.Row {
	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" {
		out := make([]contract.Row, len(data.Rows))
		copy(out, data.Rows)
		return out
	}

	var out []contract.Row
	for _, row := range data.Rows {
		if rowMatches(row, data.Columns, needle) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row contract.Row, cols []string, needle string) bool {
	for _, col := range cols {
		for _, token := range tokenize(row[col].Display()) {
			if strings.HasPrefix(strings.ToLower(token), needle) {
				return true
			}
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// Sort orders rows by the spec's column. Cells that both resolved to
// numbers compare numerically (currency markers and thousands separators
// were already stripped at normalization); any other pair compares
// case-insensitively as strings. The underlying sort is stable.
func Sort(rows []contract.Row, spec SortSpec) []contract.Row {
	if spec.Key == "" {
		return rows
	}
	out := make([]contract.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		less := compareCells(out[i][spec.Key], out[j][spec.Key]) < 0
		if spec.Desc {
			return compareCells(out[j][spec.Key], out[i][spec.Key]) < 0
		}
		return less
	})
	return out
}

func compareCells(a, b contract.Cell) int {
	if a.Kind == contract.CellNumber && b.Kind == contract.CellNumber {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a.Display()), strings.ToLower(b.Display()))
}
