package domain

import (
	"fmt"
	"strings"
)

// Operator is one of the four arithmetic operators a keypad offers.
// The zero value means "no pending operator".
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// Operators lists the selectable operators in keypad order.
var Operators = []Operator{OpDivide, OpMultiply, OpSubtract, OpAdd}

// Symbol returns the glyph shown on the keypad and in the expression line.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	}
	return ""
}

// String returns the operator name (add, subtract, multiply, divide).
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	}
	return "none"
}

// ParseOperator accepts operator names, keypad symbols and common ASCII aliases.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add", "plus":
		return OpAdd, nil
	case "-", "subtract", "minus", "sub":
		return OpSubtract, nil
	case "×", "*", "x", "multiply", "times", "mul":
		return OpMultiply, nil
	case "÷", "/", "divide", "div":
		return OpDivide, nil
	case "":
		return OpNone, nil
	}
	return OpNone, fmt.Errorf("%w: operator %q", ErrUnknownKey, s)
}

// MarshalText encodes the operator as its symbol.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.Symbol()), nil
}

// UnmarshalText decodes a symbol, name or alias.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
