package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// press replays a whitespace-separated key script from a fresh state.
func press(t *testing.T, script string) *domain.State {
	t.Helper()
	keys, err := domain.ParseKeys(script)
	require.NoError(t, err)
	state, err := runtime.NewEngine().Replay(context.Background(), nil, keys...)
	require.NoError(t, err)
	return state
}

func TestEngine_Sequences(t *testing.T) {
	tests := []struct {
		script     string
		entry      string
		expression string
	}{
		{"1 2 3", "123", ""},
		{"0 0 7", "7", ""},
		{"1 2 3 4 5 6 7 8 9 0 1 2 3", "123456789012", ""},
		{"5 . . 2", "5.2", ""},
		{". 5", "0.5", ""},
		{"5 ± ±", "5", ""},
		{"±", "0", ""},
		{"5 +", "0", "5 +"},
		{"5 + 3", "3", "5 +"},
		{"5 + 3 + 2 =", "10", ""},
		{"5 + 3 ×", "0", "8 ×"},
		{"5 + +", "0", "5 +"},
		{"2 + 3 = 4", "4", ""},
		{"2 + 3 = + 1 =", "6", ""},
		{"2 + 3 = .", "5.", ""},
		{"9 + C 1 =", "10", ""},
		{"AC 4 =", "4", ""},
		{"5 0 %", "0.5", ""},
		{"1 2 ⌫", "1", ""},
		{"1 ⌫", "0", ""},
		{"⌫", "0", ""},
		{"5 ± ⌫", "0", ""},
		{"2 + 3 = ⌫", "0", ""},
		{"1 ÷ 3 =", "0.333333333333", ""},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			state := press(t, tt.script)
			display := state.Display()
			assert.Equal(t, tt.entry, display.Value)
			assert.Equal(t, tt.expression, display.Expression)
			assert.False(t, state.HasError())
		})
	}
}

func TestEngine_DigitAppends(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()

	for _, entry := range []string{"1", "12", "-4", "3.", "0.5", "12345678901"} {
		for d := byte('0'); d <= '9'; d++ {
			state := &domain.State{Entry: entry}
			next, err := engine.Apply(ctx, state, domain.Digit(d))
			require.NoError(t, err)
			assert.Equal(t, entry+string(d), next.Entry)
		}
	}

	for d := byte('0'); d <= '9'; d++ {
		next, err := engine.Apply(ctx, domain.NewState(""), domain.Digit(d))
		require.NoError(t, err)
		assert.Equal(t, string(d), next.Entry)
	}
}

func TestEngine_EqualsAfterEqualsIsNoop(t *testing.T) {
	state := press(t, "2 + 3 =")
	assert.True(t, state.JustEvaluated)

	again := press(t, "2 + 3 = =")
	assert.Equal(t, state, again)
}

func TestEngine_DivideByZero(t *testing.T) {
	state := press(t, "6 ÷ 0 =")
	require.True(t, state.HasError())
	assert.Equal(t, domain.Display{Value: domain.ErrorText}, state.Display())
	// Registers are left as they were before the failed evaluation.
	require.NotNil(t, state.Accumulator)
	assert.Equal(t, "6", *state.Accumulator)
	assert.Equal(t, domain.OpDivide, state.Operator)
	assert.False(t, state.JustEvaluated)
}

func TestEngine_ExponentialEntry(t *testing.T) {
	state := press(t, "999999999999 × 9 =")
	require.Equal(t, "9e+12", state.Entry)

	state = press(t, "999999999999 × 9 = .")
	assert.Equal(t, "9e+12", state.Entry)
	assert.False(t, state.JustEvaluated)

	state = press(t, "999999999999 × 9 = . + 1 =")
	assert.False(t, state.HasError())
	assert.Equal(t, "9e+12", state.Entry)

	state = press(t, "999999999999 × 9 = %")
	assert.Equal(t, "90000000000", state.Entry)
}

func TestEngine_PercentFailureSetsError(t *testing.T) {
	// Trimming the exponent leaves "-9e+", which is not a number.
	state := press(t, "999999999999 × 9 = ± ⌫ ⌫ %")
	require.True(t, state.HasError())
	assert.Equal(t, domain.ErrNonFinite.Error(), state.Err)
	assert.Equal(t, domain.Display{Value: domain.ErrorText}, state.Display())

	state = press(t, "999999999999 × 9 = ± ⌫ ⌫ % 4")
	assert.False(t, state.HasError())
	assert.Equal(t, "4", state.Entry)
}

func TestEngine_ErrorRecovery(t *testing.T) {
	tests := []struct {
		script     string
		entry      string
		expression string
	}{
		{"6 ÷ 0 = AC 7", "7", ""},
		{"6 ÷ 0 = 7", "7", ""},
		{"6 ÷ 0 = .", "0.", ""},
		{"6 ÷ 0 = ±", "0", ""},
		{"6 ÷ 0 = %", "0", ""},
		{"6 ÷ 0 = +", "0", ""},
		{"6 ÷ 0 = =", "0", ""},
		{"6 ÷ 0 = ⌫", "0", ""},
		{"6 ÷ 0 = C", "0", "6 ÷"},
		{"6 ÷ 0 + 1", "1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			state := press(t, tt.script)
			assert.False(t, state.HasError())
			display := state.Display()
			assert.Equal(t, tt.entry, display.Value)
			assert.Equal(t, tt.expression, display.Expression)
		})
	}
}

func TestEngine_OperatorAfterErrorDoesNotApply(t *testing.T) {
	state := press(t, "6 ÷ 0 = ×")
	assert.Equal(t, domain.NewState(""), state)
}

func TestEngine_ApplyDoesNotMutateInput(t *testing.T) {
	acc := "5"
	state := &domain.State{SessionID: "s", Entry: "3", Accumulator: &acc, Operator: domain.OpAdd}
	before := state.Snapshot()

	next, err := runtime.NewEngine().Apply(context.Background(), state, domain.Equals)
	require.NoError(t, err)
	assert.Equal(t, "8", next.Entry)
	assert.Equal(t, "s", next.SessionID)
	assert.Equal(t, before, state)
}

func TestEngine_InvalidKey(t *testing.T) {
	_, err := runtime.NewEngine().Apply(context.Background(), nil, domain.Key{})
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runtime.NewEngine().Apply(ctx, nil, domain.Digit('1'))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var keys []string
	var transitions []*domain.TransitionEvent
	var failures []*domain.ErrorEvent

	hooks := domain.LifecycleHooks{
		OnKey: func(_ context.Context, e *domain.KeyEvent) {
			keys = append(keys, e.Key.String())
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			transitions = append(transitions, e)
		},
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			failures = append(failures, e)
		},
	}
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))

	keySeq, err := domain.ParseKeys("5 + 3 = ÷ 0 =")
	require.NoError(t, err)
	_, err = engine.Replay(context.Background(), domain.NewState("calc-1"), keySeq...)
	require.NoError(t, err)

	assert.Equal(t, []string{"5", "+", "3", "=", "÷", "0", "="}, keys)
	require.Len(t, transitions, 7)

	eq := transitions[3]
	assert.Equal(t, domain.EventTransition, eq.Type)
	assert.Equal(t, "calc-1", eq.SessionID)
	assert.Equal(t, "8", eq.Result)
	assert.Equal(t, domain.OpAdd, eq.Operator)
	assert.Equal(t, domain.Display{Expression: "5 +", Value: "3"}, eq.Before)
	assert.Equal(t, domain.Display{Value: "8"}, eq.After)

	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, domain.ErrDivideByZero)
	assert.Equal(t, domain.Equals, failures[0].Key)
	assert.True(t, transitions[6].After.IsError())
}
