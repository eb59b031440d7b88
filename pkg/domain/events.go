package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventKey        EventType = "key"
	EventTransition EventType = "transition"
	EventError      EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// KeyEvent is emitted before a key is applied.
type KeyEvent struct {
	EventBase
	Key Key `json:"key"`
}

// TransitionEvent is emitted after a key has been applied.
type TransitionEvent struct {
	EventBase
	Key    Key     `json:"key"`
	Before Display `json:"before"`
	After  Display `json:"after"`
	// Result is set when the transition evaluated an operation successfully.
	Result string `json:"result,omitempty"`
	// Operator is the operator that produced Result.
	Operator Operator `json:"operator,omitempty"`
}

// ErrorEvent is emitted when a transition puts the state into ErrorState.
type ErrorEvent struct {
	EventBase
	Key Key   `json:"key"`
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnKey        func(context.Context, *KeyEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnError      func(context.Context, *ErrorEvent)
}
