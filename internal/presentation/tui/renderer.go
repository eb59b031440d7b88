package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/aretw0/tally/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// KeyHelp renders the key reference for the terminal. It falls back to the raw
// markdown when styling fails.
func KeyHelp() string {
	out, err := NewRenderer()(domain.KeyReference())
	if err != nil {
		return domain.KeyReference()
	}
	return out
}
