package domain

import (
	"errors"
	"fmt"
)

// ErrArithmetic is the single error kind produced by evaluation.
// Every evaluator failure wraps it, so callers can test with errors.Is.
var ErrArithmetic = errors.New("arithmetic error")

// ErrDivideByZero is returned when the right-hand operand of a division is exactly zero.
var ErrDivideByZero = fmt.Errorf("%w: divide by zero", ErrArithmetic)

// ErrNonFinite is returned when an operand or result is NaN or infinite.
var ErrNonFinite = fmt.Errorf("%w: result is not a finite number", ErrArithmetic)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownKey is returned when a keypad label cannot be mapped to a Key.
var ErrUnknownKey = errors.New("unknown key")
