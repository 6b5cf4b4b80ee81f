// Package output provides rendering for CLI command output.
//
// The renderer supports four modes: text (styled, for interactive
// terminals), markdown (plain, for piping), json (machine-readable),
// and auto (text on a TTY, markdown otherwise). Commands write through
// the renderer rather than to stdout directly so every surface honors
// the --output flag the same way.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode controls how command output is formatted.
type OutputMode string

const (
	// ModeAuto selects text on a TTY and markdown otherwise.
	ModeAuto OutputMode = "auto"
	// ModeText renders styled terminal output.
	ModeText OutputMode = "text"
	// ModeMarkdown renders plain markdown-friendly output.
	ModeMarkdown OutputMode = "markdown"
	// ModeJSON renders machine-readable JSON.
	ModeJSON OutputMode = "json"
)

// Mode parses a mode string, defaulting to auto for unknown values.
func Mode(s string) OutputMode {
	switch OutputMode(s) {
	case ModeText, ModeMarkdown, ModeJSON:
		return OutputMode(s)
	default:
		return ModeAuto
	}
}

// Renderer writes formatted command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer, detecting TTY state from the writer.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, detectTTY(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use this to exercise both styled and plain output paths.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}
	if r.EffectiveMode() == ModeText && isTTY {
		r.styles = DefaultStyles()
	} else {
		r.styles = PlainStyles()
	}
	return r
}

func detectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto to the concrete mode for this terminal.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to an interactive terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the underlying stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the underlying stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the active style set (plain in non-text modes).
func (r *Renderer) Styles() Styles { return r.styles }

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Println writes a line to stdout.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		switch level {
		case 1:
			r.Println(r.styles.Header1.Render(text))
		default:
			r.Println(r.styles.Header2.Render(text))
		}
		return
	}
	r.Println(FormatHeader(level, text))
}

// Muted writes de-emphasized text on its own line.
func (r *Renderer) Muted(text string) {
	r.Println(r.styles.Muted.Render(text))
}

// Success writes a success line.
func (r *Renderer) Success(text string) {
	r.Println(r.styles.Success.Render("✓ " + text))
}

// Warning writes a warning line to stderr.
func (r *Renderer) Warning(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+text))
}

// Error writes an error line to stderr.
func (r *Renderer) Error(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+text))
}

// StatusLine writes a name with a status marker and optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "•"
	style := r.styles.Muted
	switch status {
	case "success", "ok", "healthy":
		marker = "✓"
		style = r.styles.Success
	case "error", "failed":
		marker = "✗"
		style = r.styles.Error
	case "warning":
		marker = "!"
		style = r.styles.Warning
	}
	line := fmt.Sprintf("%s %s", style.Render(marker), name)
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// JSON writes a value as indented JSON to stdout.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader formats a markdown-style header.
func FormatHeader(level int, text string) string {
	prefix := "#"
	if level > 1 {
		prefix = "##"
	}
	return prefix + " " + text
}

// FormatKeyValue formats a "key: value" line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", key, value)
}
