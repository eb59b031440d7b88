package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
)

func TestRunner_TextLoop(t *testing.T) {
	var out bytes.Buffer
	handler := runner.NewTextHandler(strings.NewReader("5 + 3 =\nquit\n"), &out)
	r := runner.NewRunner(runner.WithInputHandler(handler))

	final, err := r.Run(context.Background(), tally.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, "8", final.Entry)
	assert.True(t, final.JustEvaluated)
	assert.Contains(t, out.String(), "> 8\n")
}

func TestRunner_StopsAtEOF(t *testing.T) {
	handler := runner.NewTextHandler(strings.NewReader("7 ×\n"), &bytes.Buffer{})
	r := runner.NewRunner(runner.WithInputHandler(handler))

	final, err := r.Run(context.Background(), tally.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Display{Expression: "7 ×", Value: "0"}, final.Display())
}

func TestRunner_UnknownKeyKeepsState(t *testing.T) {
	var out bytes.Buffer
	handler := runner.NewTextHandler(strings.NewReader("12\n12 ^ 3\n"), &out)
	r := runner.NewRunner(runner.WithInputHandler(handler))

	final, err := r.Run(context.Background(), tally.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, "12", final.Entry)
	assert.Contains(t, out.String(), "Error: unknown key")
}

func TestRunner_DebugToggle(t *testing.T) {
	var out bytes.Buffer
	handler := runner.NewTextHandler(strings.NewReader("debug\n1\n"), &out)
	r := runner.NewRunner(runner.WithInputHandler(handler))

	_, err := r.Run(context.Background(), tally.New(), nil)
	require.NoError(t, err)
	assert.True(t, r.DebugIndicator)
	assert.Contains(t, out.String(), "[debug] 1")
}

func TestRunner_PersistsEveryStep(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	handler := runner.NewTextHandler(strings.NewReader("9 ÷\n3 =\n"), &bytes.Buffer{})
	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithSessionManager(mgr),
		runner.WithSessionID("desk"),
	)

	_, err := r.Run(context.Background(), tally.New(), nil)
	require.NoError(t, err)

	saved, err := store.Load(context.Background(), "desk")
	require.NoError(t, err)
	assert.Equal(t, "3", saved.Entry)
	assert.Equal(t, "desk", saved.SessionID)
}

func TestRunner_ResumesInitialState(t *testing.T) {
	acc := "10"
	initial := &domain.State{Entry: "4", Accumulator: &acc, Operator: domain.OpSubtract}
	handler := runner.NewTextHandler(strings.NewReader("=\n"), &bytes.Buffer{})

	final, err := runner.NewRunner(runner.WithInputHandler(handler)).Run(context.Background(), tally.New(), initial)
	require.NoError(t, err)
	assert.Equal(t, "6", final.Entry)
}

func TestRunner_JSONMode(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`"6 ÷ 0 ="` + "\n" + `{"key":"AC"}` + "\n")
	handler := runner.NewJSONHandler(in, &out)
	r := runner.NewRunner(runner.WithInputHandler(handler), runner.WithSessionID("json"))

	final, err := r.Run(context.Background(), tally.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, "0", final.Entry)

	var msgs []runner.DisplayMessage
	dec := json.NewDecoder(&out)
	for dec.More() {
		var m runner.DisplayMessage
		require.NoError(t, dec.Decode(&m))
		msgs = append(msgs, m)
	}
	require.Len(t, msgs, 3)
	assert.Equal(t, "json", msgs[0].SessionID)
	assert.True(t, msgs[1].Error)
	assert.Equal(t, domain.ErrorText, msgs[1].Value)
	assert.False(t, msgs[2].Error)
	assert.Equal(t, "0", msgs[2].Value)
}

func TestRunner_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	handler := runner.NewTextHandler(pr, &bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runner.NewRunner(runner.WithInputHandler(handler)).Run(ctx, tally.New(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPressAndRender(t *testing.T) {
	eng := tally.New()
	start := eng.Start(context.Background(), "s1")

	resp, err := runner.PressAndRender(context.Background(), eng, start, "2 + 2")
	require.NoError(t, err)
	assert.Equal(t, domain.Display{Expression: "2 +", Value: "2"}, resp.Display)
	require.NotNil(t, resp.Diff)
	require.NotNil(t, resp.Diff.Expression)
	assert.Equal(t, "2 +", *resp.Diff.Expression)

	same, err := runner.PressAndRender(context.Background(), eng, resp.State, "")
	require.NoError(t, err)
	assert.Nil(t, same.Diff)

	_, err = runner.PressAndRender(context.Background(), eng, start, "2 ^")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}
