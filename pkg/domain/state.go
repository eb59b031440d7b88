package domain

// MaxEntryLength bounds the number of characters a user can type into the entry.
const MaxEntryLength = 12

// State represents the current register snapshot of a calculator session.
type State struct {
	// SessionID identifies the session this state belongs to (optional).
	SessionID string `json:"session_id,omitempty" yaml:"session_id,omitempty"`

	// Entry is the operand currently being typed or displayed.
	Entry string `json:"entry" yaml:"entry"`

	// Accumulator holds the left-hand operand awaiting a right-hand operand.
	// It is set together with Operator.
	Accumulator *string `json:"accumulator,omitempty" yaml:"accumulator,omitempty"`

	// Operator is the pending operator, OpNone when absent.
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`

	// JustEvaluated marks that the last key was a successful equals.
	JustEvaluated bool `json:"just_evaluated,omitempty" yaml:"just_evaluated,omitempty"`

	// Err holds the message of the last arithmetic failure. Empty means no error.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewState creates a clean "all clear" state.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Entry:     "0",
	}
}

// Reset returns every register to its initial value, keeping the session ID.
func (s *State) Reset() {
	*s = State{SessionID: s.SessionID, Entry: "0"}
}

// HasError reports whether the state is in ErrorState.
func (s *State) HasError() bool {
	return s.Err != ""
}

// HasPending reports whether an accumulator and operator are waiting for an operand.
func (s *State) HasPending() bool {
	return s.Accumulator != nil && s.Operator != OpNone
}

// Snapshot creates a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Accumulator != nil {
		acc := *s.Accumulator
		clone.Accumulator = &acc
	}
	return &clone
}

// Display renders the two display lines for the state.
func (s *State) Display() Display {
	if s.HasError() {
		return Display{Value: ErrorText}
	}
	d := Display{Value: s.Entry}
	if s.HasPending() {
		d.Expression = *s.Accumulator + " " + s.Operator.Symbol()
	}
	return d
}
