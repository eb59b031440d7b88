package domain

// StateDiff represents the visible changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Expression *string `json:"expression,omitempty"`
	Value      *string `json:"value,omitempty"`

	// Error is set when the error flag flipped: true entering ErrorState, false leaving it.
	Error *bool `json:"error,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing visible changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}
	next := newState.Display()
	nextErr := newState.HasError()

	if oldState == nil {
		diff.Expression = &next.Expression
		diff.Value = &next.Value
		if nextErr {
			diff.Error = &nextErr
		}
		return diff
	}

	prev := oldState.Display()
	if prev.Expression != next.Expression {
		diff.Expression = &next.Expression
	}
	if prev.Value != next.Value {
		diff.Value = &next.Value
	}
	if oldState.HasError() != nextErr {
		diff.Error = &nextErr
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Expression == nil && d.Value == nil && d.Error == nil
}
