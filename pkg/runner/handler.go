package runner

import (
	"context"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text, Keypad (raw TTY) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the current display.
	Output(ctx context.Context, state *domain.State, display domain.Display) error

	// Input reads the next key script or command.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. an unknown key).
	// This is distinct from the display.
	SystemOutput(ctx context.Context, msg string) error
}

// DisplayRenderer turns a display into printable text.
// This allows for TUI styling without coupling this package to a terminal library.
type DisplayRenderer func(domain.Display) string

// PlainRenderer prints the expression line (when present) above the value.
func PlainRenderer(d domain.Display) string {
	var b strings.Builder
	if d.Debug {
		b.WriteString("[debug] ")
	}
	if d.Expression != "" {
		b.WriteString(d.Expression)
		b.WriteString("\n")
	}
	b.WriteString(d.Value)
	return b.String()
}

// Commands understood by the runner in addition to key scripts.
const (
	CommandQuit  = "quit"
	CommandDebug = "debug"
)

// isQuit reports whether input asks to leave the loop.
func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case CommandQuit, "exit", "q":
		return true
	}
	return false
}
