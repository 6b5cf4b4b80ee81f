package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across command output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the styled set for interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Underline(true),
		Header2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// PlainStyles returns styles that render text unchanged. Used for
// non-TTY output and for markdown/json modes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header1: plain,
		Header2: plain,
		Bold:    plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}
