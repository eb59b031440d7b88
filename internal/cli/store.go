package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/tally/internal/adapters/file"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/adapters/redis"
	"github.com/aretw0/tally/pkg/persistence/middleware"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
)

// Store backends selectable with --store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// StoreOptions selects and configures the session backend.
type StoreOptions struct {
	// Kind is one of StoreMemory, StoreFile or StoreRedis. Empty picks redis
	// when RedisURL is set and the file store otherwise.
	Kind     string
	Dir      string
	RedisURL string

	// Middlewares wrap the store, outermost first. Store calls are always
	// logged at debug level beneath them.
	Middlewares []middleware.Middleware
}

func (o StoreOptions) kind() string {
	if o.Kind != "" {
		return o.Kind
	}
	if o.RedisURL != "" {
		return StoreRedis
	}
	return StoreFile
}

// OpenSessions builds the session manager for the selected backend.
// The returned close function releases backend connections.
func OpenSessions(ctx context.Context, o StoreOptions, logger *slog.Logger) (*session.Manager, func() error, error) {
	noop := func() error { return nil }

	switch kind := o.kind(); kind {
	case StoreMemory:
		return session.NewManager(o.wrap(memory.NewStore(), logger), session.WithLogger(logger)), noop, nil

	case StoreFile:
		logger.Debug("using file store", "dir", o.Dir)
		return session.NewManager(o.wrap(file.New(o.Dir), logger), session.WithLogger(logger)), noop, nil

	case StoreRedis:
		store, err := redis.New(o.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Debug("using redis store", "prefix", store.Prefix())
		mgr := session.NewManager(o.wrap(store, logger),
			session.WithLocker(redis.NewLocker(store.Client(), store.Prefix())),
			session.WithLogger(logger),
		)
		return mgr, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q (want %s, %s or %s)", kind, StoreMemory, StoreFile, StoreRedis)
	}
}

func (o StoreOptions) wrap(store ports.StateStore, logger *slog.Logger) ports.StateStore {
	mws := append(slices.Clone(o.Middlewares), middleware.NewLoggingMiddleware(logger))
	return middleware.Chain(store, mws...)
}
