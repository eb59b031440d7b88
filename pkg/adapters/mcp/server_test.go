package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/session"
)

func newTestServer() (*Server, *memory.Store) {
	store := memory.NewStore()
	return NewServer(tally.New(), session.NewManager(store)), store
}

func TestPressKeys_KeepsSessionState(t *testing.T) {
	s, store := newTestServer()
	ctx := context.Background()

	resp, err := s.handlePressKeys(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "a", "keys": "9 ×"})
	require.NoError(t, err)
	assert.Equal(t, DisplayResponse{SessionID: "a", Expression: "9 ×", Value: "0"}, resp)

	resp, err = s.handlePressKeys(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "a", "keys": "3 ="})
	require.NoError(t, err)
	assert.Equal(t, "27", resp.Value)

	saved, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "27", saved.Entry)
}

func TestPressKeys_DefaultSessionAndErrors(t *testing.T) {
	s, _ := newTestServer()
	ctx := context.Background()

	resp, err := s.handlePressKeys(ctx, mcp.CallToolRequest{}, map[string]any{"keys": "5 ÷ 0 ="})
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionID, resp.SessionID)
	assert.True(t, resp.Error)
	assert.Equal(t, domain.ErrorText, resp.Value)

	_, err = s.handlePressKeys(ctx, mcp.CallToolRequest{}, map[string]any{"keys": "5 ^ 2"})
	assert.ErrorIs(t, err, domain.ErrUnknownKey)

	display, err := s.handleGetDisplay(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.True(t, display.Error, "a rejected script must not change the session")
}

func TestEvaluate(t *testing.T) {
	s, _ := newTestServer()
	ctx := context.Background()

	resp, err := s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{"a": 1.5, "b": "2", "op": "×"})
	require.NoError(t, err)
	assert.Equal(t, "3", resp.Result)

	resp, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{"a": "-0"})
	require.NoError(t, err)
	assert.Equal(t, "0", resp.Result)

	_, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{"a": "1", "b": "0", "op": "/"})
	assert.ErrorIs(t, err, domain.ErrDivideByZero)

	_, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{"a": "1", "b": "1", "op": "mod"})
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestGetDisplay_StartsFreshSession(t *testing.T) {
	s, _ := newTestServer()

	resp, err := s.handleGetDisplay(context.Background(), mcp.CallToolRequest{}, map[string]any{"session_id": "new"})
	require.NoError(t, err)
	assert.Equal(t, DisplayResponse{SessionID: "new", Value: "0"}, resp)
}

func TestDecodeArgs_WeakTypes(t *testing.T) {
	var req EvaluateArgs
	require.NoError(t, decodeArgs(map[string]any{"a": 12, "b": 0.5, "op": "add"}, &req))
	assert.Equal(t, "12", req.A)
	require.NotNil(t, req.B)
	assert.Equal(t, "0.5", *req.B)
}
