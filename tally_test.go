package tally_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

var _ ports.Engine = (*tally.Engine)(nil)

func TestEngine_PressAll(t *testing.T) {
	eng := tally.New()
	ctx := context.Background()

	state, err := eng.PressAll(ctx, eng.Start(ctx, "s"), "12 × 3 ^")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
	assert.Nil(t, state)

	state, err = eng.PressAll(ctx, eng.Start(ctx, "s"), "12 × 3 -")
	require.NoError(t, err)
	assert.Equal(t, domain.Display{Expression: "36 -", Value: "0"}, eng.Render(ctx, state))
	assert.Equal(t, "s", state.SessionID)
}

func TestEngine_RenderNil(t *testing.T) {
	assert.Equal(t, domain.Display{Value: "0"}, tally.New().Render(context.Background(), nil))
}

func TestEngine_LoggerAndHooks(t *testing.T) {
	var buf bytes.Buffer
	var errs int
	eng := tally.New(
		tally.WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)),
		tally.WithLifecycleHooks(domain.LifecycleHooks{
			OnError: func(context.Context, *domain.ErrorEvent) { errs++ },
		}),
	)
	ctx := context.Background()

	state, err := eng.PressAll(ctx, nil, "1 ÷ 0 =")
	require.NoError(t, err)
	assert.True(t, state.HasError())
	assert.Equal(t, 1, errs)
	assert.Contains(t, buf.String(), "key applied")
	assert.Contains(t, buf.String(), "arithmetic error")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12.5", tally.Normalize("12.50"))
	assert.Equal(t, domain.ErrorText, tally.Normalize("."))
}
