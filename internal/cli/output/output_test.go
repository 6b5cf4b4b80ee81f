package output_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthlens-labs/wealthlens/internal/cli/output"
	"github.com/wealthlens-labs/wealthlens/internal/cli/testutil"
)

func TestModeParsing(t *testing.T) {
	tests := []struct {
		in   string
		want output.OutputMode
	}{
		{in: "text", want: output.ModeText},
		{in: "markdown", want: output.ModeMarkdown},
		{in: "json", want: output.ModeJSON},
		{in: "auto", want: output.ModeAuto},
		{in: "", want: output.ModeAuto},
		{in: "bogus", want: output.ModeAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, output.Mode(tt.in), "Mode(%q)", tt.in)
	}
}

func TestEffectiveMode(t *testing.T) {
	tty := testutil.NewTestRendererText()
	assert.Equal(t, output.ModeText, tty.EffectiveMode())

	piped := testutil.NewTestRendererAuto()
	assert.Equal(t, output.ModeMarkdown, piped.EffectiveMode())

	explicit := testutil.NewTestRendererJSON()
	assert.Equal(t, output.ModeJSON, explicit.EffectiveMode())
}

func TestNonTTYOutputHasNoStyling(t *testing.T) {
	tr := testutil.NewTestRendererAuto()

	tr.Header(1, "Results")
	tr.Muted("fine print")
	tr.Success("done")

	assert.Contains(t, tr.Output(), "# Results")
	assert.Contains(t, tr.Output(), "fine print")
	testutil.AssertNoANSI(t, tr.Output())
	testutil.AssertValidMarkdown(t, tr.Output())
}

func TestStatusLine(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()

	tr.StatusLine("backend", "healthy", "http://localhost:8000")
	tr.StatusLine("backend", "error", "")

	assert.Contains(t, tr.Output(), "✓ backend")
	assert.Contains(t, tr.Output(), "http://localhost:8000")
	assert.Contains(t, tr.Output(), "✗ backend")
	testutil.AssertOutputMode(t, tr, output.ModeMarkdown)
}

func TestJSONOutput(t *testing.T) {
	tr := testutil.NewTestRendererJSON()

	require.NoError(t, tr.JSON(map[string]any{"status": "healthy"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])
	testutil.AssertOutputMode(t, tr, output.ModeJSON)
}

func TestErrorAndWarningGoToStderr(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)

	tr.Error("query failed")
	tr.Warning("running without backend")

	assert.Empty(t, tr.Output())
	errOut := testutil.StripANSI(tr.ErrorOutput())
	assert.Contains(t, errOut, "query failed")
	assert.Contains(t, errOut, "running without backend")

	tr.Reset()
	assert.Empty(t, tr.ErrorOutput())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", output.FormatHeader(1, "Title"))
	assert.Equal(t, "## Section", output.FormatHeader(2, "Section"))
	assert.Equal(t, "Backend: http://localhost:8000", output.FormatKeyValue("Backend", "http://localhost:8000"))
}
