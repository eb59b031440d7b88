package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
)

// MinDisplayWidth keeps short values from producing a narrow display.
const MinDisplayWidth = domain.MaxEntryLength + 2

const debugBadge = "● debug"

// DisplayOption configures NewDisplayRenderer.
type DisplayOption func(*displayRenderer)

// WithProfile forces a color profile. termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) DisplayOption {
	return func(r *displayRenderer) {
		r.profile = p
	}
}

// WithAnnounce adds the screen-reader style summary below the display.
func WithAnnounce(on bool) DisplayOption {
	return func(r *displayRenderer) {
		r.announce = on
	}
}

type displayRenderer struct {
	profile  termenv.Profile
	announce bool
}

// NewDisplayRenderer returns a renderer drawing the two display lines right-aligned,
// with the expression line dimmed and "Error" in red.
func NewDisplayRenderer(opts ...DisplayOption) runner.DisplayRenderer {
	r := &displayRenderer{profile: termenv.EnvColorProfile()}
	for _, opt := range opts {
		opt(r)
	}
	return r.render
}

func (r *displayRenderer) render(d domain.Display) string {
	width := max(MinDisplayWidth, utf8.RuneCountInString(d.Expression), utf8.RuneCountInString(d.Value))

	var b strings.Builder
	if d.Debug {
		b.WriteString(r.profile.String(debugBadge).Foreground(r.profile.Color("#e879f9")).String())
		b.WriteString("\n")
	}

	b.WriteString(r.profile.String(padLeft(d.Expression, width)).Faint().String())
	b.WriteString("\n")

	value := r.profile.String(padLeft(d.Value, width)).Bold()
	if d.IsError() {
		value = value.Foreground(r.profile.Color("#f87171"))
	}
	b.WriteString(value.String())

	if r.announce {
		b.WriteString("\n")
		b.WriteString(r.profile.String(d.Announce()).Italic().String())
	}
	return b.String()
}

func padLeft(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}
