package runner

import (
	"log/slog"

	"github.com/aretw0/tally/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSessionManager persists every state through m.
func WithSessionManager(m *session.Manager) Option {
	return func(r *Runner) {
		r.Sessions = m
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session ID for persistence context.
// This is required if WithSessionManager is used.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithDebugIndicator starts the loop with the debug indicator shown.
func WithDebugIndicator(on bool) Option {
	return func(r *Runner) {
		r.DebugIndicator = on
	}
}
