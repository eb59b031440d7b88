package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.StateStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.StateStore) ports.StateStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	err := m.next.Save(ctx, sessionID, state)
	m.logger.DebugContext(ctx, "store save", "session_id", sessionID, "entry", state.Entry, "err", err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	state, err := m.next.Load(ctx, sessionID)
	m.logger.DebugContext(ctx, "store load", "session_id", sessionID, "err", err)
	return state, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sessionID string) error {
	err := m.next.Delete(ctx, sessionID)
	m.logger.DebugContext(ctx, "store delete", "session_id", sessionID, "err", err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	ids, err := m.next.List(ctx)
	m.logger.DebugContext(ctx, "store list", "count", len(ids), "err", err)
	return ids, err
}
