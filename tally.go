package tally

import (
	"context"
	"log/slog"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
)

// Engine is the high-level entry point for the Tally library.
// It wraps the internal runtime and provides a simplified API for consumers.
// It implements ports.Engine.
type Engine struct {
	runtime *runtime.Engine
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
// Transitions are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Tally Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng
}

// Start returns the "all clear" state for a new session.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	return domain.NewState(sessionID)
}

// Press applies a single key to state and returns the new state. state is not modified.
func (e *Engine) Press(ctx context.Context, state *domain.State, key domain.Key) (*domain.State, error) {
	return e.runtime.Apply(ctx, state, key)
}

// PressAll parses a key script such as "12.5 × 3 =" and applies every key in order.
// Nothing is applied when the script contains an unknown key.
func (e *Engine) PressAll(ctx context.Context, state *domain.State, script string) (*domain.State, error) {
	keys, err := domain.ParseKeys(script)
	if err != nil {
		return nil, err
	}
	return e.runtime.Replay(ctx, state, keys...)
}

// Render returns the display for state without changing it.
func (e *Engine) Render(ctx context.Context, state *domain.State) domain.Display {
	if state == nil {
		return domain.NewState("").Display()
	}
	return state.Display()
}

// Evaluate applies op to a and b. With a nil b or OpNone it only normalizes a.
func Evaluate(a string, b *string, op domain.Operator) (string, error) {
	return runtime.Evaluate(a, b, op)
}

// Normalize returns the canonical display form of a numeric literal, or "Error".
func Normalize(s string) string {
	return runtime.Normalize(s)
}
