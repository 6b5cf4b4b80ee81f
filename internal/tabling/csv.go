package tabling

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

// ExportCSV writes the header plus the full filtered and sorted row
// set, not just the visible page, as comma-separated text. Every field
// is wrapped in double quotes with internal quotes doubled, regardless
// of type, so embedded commas, quotes and newlines round-trip.
// encoding/csv is not used here: it quotes only when it has to, and the
// export format requires unconditional quoting.
func ExportCSV(w io.Writer, data contract.TableData, spec Spec) error {
	if data.Empty() {
		return fmt.Errorf("no table data to export")
	}

	rows := Sort(Filter(data, spec.Filter), spec.Sort)

	fields := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		fields[i] = quoteField(col)
	}
	if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
		return err
	}

	for _, row := range rows {
		for i, col := range data.Columns {
			fields[i] = quoteField(row[col].Display())
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVFilename names an export after the day it was taken.
func CSVFilename(t time.Time) string {
	return fmt.Sprintf("query-results-%s.csv", t.Format("2006-01-02"))
}
