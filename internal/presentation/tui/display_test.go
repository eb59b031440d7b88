package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/tally/pkg/domain"
)

func TestDisplayRenderer_RightAligns(t *testing.T) {
	render := NewDisplayRenderer(WithProfile(termenv.Ascii))

	out := render(domain.Display{Expression: "12 ×", Value: "3"})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Repeat(" ", MinDisplayWidth-4)+"12 ×", lines[0])
	assert.Equal(t, strings.Repeat(" ", MinDisplayWidth-1)+"3", lines[1])
}

func TestDisplayRenderer_WideValue(t *testing.T) {
	render := NewDisplayRenderer(WithProfile(termenv.Ascii))

	out := render(domain.Display{Value: "1.234567e+21"})
	lines := strings.Split(out, "\n")
	assert.Equal(t, "1.234567e+21", strings.TrimSpace(lines[1]))
	assert.Len(t, lines[0], MinDisplayWidth)
}

func TestDisplayRenderer_DebugAndAnnounce(t *testing.T) {
	render := NewDisplayRenderer(WithProfile(termenv.Ascii), WithAnnounce(true))

	out := render(domain.Display{Expression: "5 +", Value: "3", Debug: true})
	lines := strings.Split(out, "\n")
	assert.Equal(t, debugBadge, lines[0])
	assert.Equal(t, "Display 5 + 3", lines[3])
}

func TestDisplayRenderer_ErrorIsColored(t *testing.T) {
	render := NewDisplayRenderer(WithProfile(termenv.TrueColor))

	out := render(domain.Display{Value: domain.ErrorText})
	assert.Contains(t, out, domain.ErrorText)
	assert.Contains(t, out, "\x1b[")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Equal(t, len(bannerLines)+2, strings.Count(buf.String(), "\n"))
}

func TestKeyHelp(t *testing.T) {
	assert.Contains(t, KeyHelp(), "All Clear")
}
