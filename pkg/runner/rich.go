package runner

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// RichResponse combines state and display for rich clients (Web, MCP, etc).
type RichResponse struct {
	State   *domain.State     `json:"state"`
	Display domain.Display    `json:"display"`
	Diff    *domain.StateDiff `json:"diff,omitempty"`
}

// PressAndRender applies a key script and immediately renders the resulting state.
// Diff holds only what changed on screen, nil when nothing did.
func PressAndRender(ctx context.Context, engine ports.Engine, current *domain.State, script string) (*RichResponse, error) {
	next, err := engine.PressAll(ctx, current, script)
	if err != nil {
		return nil, err
	}
	return &RichResponse{
		State:   next,
		Display: engine.Render(ctx, next),
		Diff:    domain.Diff(current, next),
	}, nil
}
