package terminal

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the console palette. Colors are dropped automatically when
// the writer is not a terminal.
type Styles struct {
	Label    lipgloss.Style
	Warning  lipgloss.Style
	Command  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Detected lipgloss.Style
	Muted    lipgloss.Style
}

// NewStyles builds the palette for the given writer.
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	bold := r.NewStyle().Bold(true)

	return &Styles{
		Label:    bold.Foreground(lipgloss.Color("12")),
		Warning:  bold.Foreground(lipgloss.Color("11")),
		Command:  bold.Foreground(lipgloss.Color("14")),
		Success:  bold.Foreground(lipgloss.Color("10")),
		Error:    bold.Foreground(lipgloss.Color("9")),
		Detected: bold.Foreground(lipgloss.Color("13")),
		Muted:    r.NewStyle().Faint(true),
	}
}
