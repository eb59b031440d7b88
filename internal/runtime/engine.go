package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger used for transition tracing.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// Engine is the calculator state machine.
// It holds no session state of its own and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the state that results from pressing key in state.
//
// The input state is never modified. Arithmetic failures are not returned as errors: they put
// the returned state into ErrorState. Only invalid keys and cancelled contexts yield an error.
func (e *Engine) Apply(ctx context.Context, state *domain.State, key domain.Key) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %+v", domain.ErrUnknownKey, key)
	}
	if state == nil {
		state = domain.NewState("")
	}

	e.emitKey(ctx, state.SessionID, key)

	next := state.Snapshot()
	out := transition(next, key)
	if out.err != nil {
		fail(next, out.err)
		e.logger.Debug("arithmetic error", "session_id", next.SessionID, "key", key.String(), "err", out.err)
		e.emitError(ctx, next.SessionID, key, out.err)
	}

	before, after := state.Display(), next.Display()
	e.logger.Debug("key applied",
		"session_id", next.SessionID,
		"key", key.String(),
		"before", before.Value,
		"after", after.Value,
		"expression", after.Expression,
	)
	e.emitTransition(ctx, next.SessionID, key, before, after, out)

	return next, nil
}

// Replay applies keys in order, starting from state (or a fresh state when nil).
func (e *Engine) Replay(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error) {
	current := state
	if current == nil {
		current = domain.NewState("")
	}
	for i, key := range keys {
		next, err := e.Apply(ctx, current, key)
		if err != nil {
			return current, fmt.Errorf("key %d (%s): %w", i+1, key, err)
		}
		current = next
	}
	return current, nil
}

func (e *Engine) emitKey(ctx context.Context, sessionID string, key domain.Key) {
	if e.hooks.OnKey == nil {
		return
	}
	e.hooks.OnKey(ctx, &domain.KeyEvent{
		EventBase: e.base(domain.EventKey, sessionID),
		Key:       key,
	})
}

func (e *Engine) emitTransition(ctx context.Context, sessionID string, key domain.Key, before, after domain.Display, out outcome) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: e.base(domain.EventTransition, sessionID),
		Key:       key,
		Before:    before,
		After:     after,
		Result:    out.result,
		Operator:  out.operator,
	})
}

func (e *Engine) emitError(ctx context.Context, sessionID string, key domain.Key, err error) {
	if e.hooks.OnError == nil {
		return
	}
	e.hooks.OnError(ctx, &domain.ErrorEvent{
		EventBase: e.base(domain.EventError, sessionID),
		Key:       key,
		Err:       err,
	})
}

func (e *Engine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: sessionID,
	}
}
