package observability

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// CombineHooks returns hooks that call each of the given hooks in order.
// Nil callbacks are skipped.
func CombineHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var combined domain.LifecycleHooks

	var onKey []func(context.Context, *domain.KeyEvent)
	var onTransition []func(context.Context, *domain.TransitionEvent)
	var onError []func(context.Context, *domain.ErrorEvent)
	for _, h := range all {
		if h.OnKey != nil {
			onKey = append(onKey, h.OnKey)
		}
		if h.OnTransition != nil {
			onTransition = append(onTransition, h.OnTransition)
		}
		if h.OnError != nil {
			onError = append(onError, h.OnError)
		}
	}

	if len(onKey) > 0 {
		combined.OnKey = func(ctx context.Context, e *domain.KeyEvent) {
			for _, fn := range onKey {
				fn(ctx, e)
			}
		}
	}
	if len(onTransition) > 0 {
		combined.OnTransition = func(ctx context.Context, e *domain.TransitionEvent) {
			for _, fn := range onTransition {
				fn(ctx, e)
			}
		}
	}
	if len(onError) > 0 {
		combined.OnError = func(ctx context.Context, e *domain.ErrorEvent) {
			for _, fn := range onError {
				fn(ctx, e)
			}
		}
	}
	return combined
}
