package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
)

// Runner handles the interactive loop of the Tally engine using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text, Keypad or JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Sessions persists every new state. If nil, sessions are ephemeral.
	Sessions *session.Manager

	// SessionID names the session for persistence and display.
	SessionID string

	// DebugIndicator marks the rendered display as running with debug features.
	DebugIndicator bool
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the loop until EOF, a quit command or ctx cancellation.
// If initialState is nil, engine.Start is called. The last state is always returned.
func (r *Runner) Run(ctx context.Context, engine ports.Engine, initialState *domain.State) (*domain.State, error) {
	handler := r.resolveHandler()

	state := initialState
	if state == nil {
		state = engine.Start(ctx, r.SessionID)
	}

	render := true
	for {
		if render {
			display := engine.Render(ctx, state)
			display.Debug = r.DebugIndicator
			if err := handler.Output(ctx, state, display); err != nil {
				return state, fmt.Errorf("output error: %w", err)
			}
		}
		render = true

		input, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			if ctx.Err() != nil {
				r.Logger.Debug("runner input: context cancelled", "err", ctx.Err())
				return state, ctx.Err()
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		switch {
		case input == "":
			render = false
			continue
		case isQuit(input):
			return state, nil
		case input == CommandDebug:
			r.DebugIndicator = !r.DebugIndicator
			continue
		}

		next, err := engine.PressAll(ctx, state, input)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownKey) {
				if oErr := handler.SystemOutput(ctx, "Error: "+err.Error()); oErr != nil {
					return state, oErr
				}
				render = false
				continue
			}
			return state, fmt.Errorf("press error: %w", err)
		}

		if err := r.saveState(ctx, next); err != nil {
			return state, fmt.Errorf("critical persistence error: %w", err)
		}
		state = next
	}
}

func (r *Runner) saveState(ctx context.Context, state *domain.State) error {
	if r.Sessions == nil || r.SessionID == "" {
		return nil
	}
	if err := r.Sessions.Save(ctx, r.SessionID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "value", state.Display().Value)
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
