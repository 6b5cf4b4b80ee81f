package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/wealthlens-labs/wealthlens/internal/charting"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/tabling"
)

// exportCSVFile writes the filtered and sorted table to path, deriving
// a dated filename when path is empty. Returns the path written.
func exportCSVFile(data contract.TableData, spec tabling.Spec, path string, ts time.Time) (string, error) {
	if data.Empty() {
		return "", fmt.Errorf("no table data to export")
	}
	if path == "" {
		path = tabling.CSVFilename(ts)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := tabling.ExportCSV(f, data, spec); err != nil {
		return "", err
	}
	return path, nil
}

// exportPNGFile rasterizes the chart to path, deriving a dated filename
// when path is empty. Returns the path written.
func exportPNGFile(chart *charting.Chart, path string, ts time.Time) (string, error) {
	if chart.Empty() {
		return "", fmt.Errorf("no chart data to export")
	}
	if path == "" {
		path = charting.PNGFilename(ts)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := charting.ExportPNG(chart, f); err != nil {
		return "", err
	}
	return path, nil
}
