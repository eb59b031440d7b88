package ports

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// Engine defines the calculator operations used by adapters.
// Implementations hold no per-session state; callers pass the state in and keep the result.
type Engine interface {
	// Start returns a fresh "all clear" state for the session.
	Start(ctx context.Context, sessionID string) *domain.State

	// Press applies a single key and returns the resulting state.
	Press(ctx context.Context, state *domain.State, key domain.Key) (*domain.State, error)

	// PressAll parses a key script (e.g. "5 + 3 =") and applies it key by key.
	PressAll(ctx context.Context, state *domain.State, script string) (*domain.State, error)

	// Render returns the two display lines for the state.
	Render(ctx context.Context, state *domain.State) domain.Display
}
