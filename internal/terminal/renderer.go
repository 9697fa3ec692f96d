package terminal

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap column used when the terminal width is unknown.
const DefaultWidth = 80

// Renderer formats a markdown response for the console.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer creates a renderer that word-wraps at width columns.
// A non-positive width means DefaultWidth.
func NewRenderer(width int) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	return &Renderer{term: term}, nil
}

// Render returns the styled response with glamour's surrounding blank
// lines removed. Callers fall back to the raw text on error.
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.term.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n") + "\n", nil
}
