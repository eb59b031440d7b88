package runtime

import (
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

// outcome describes what a single transition computed.
type outcome struct {
	// result and operator are set when an operation was evaluated successfully.
	result   string
	operator domain.Operator
	err      error
}

// transition mutates s in place according to key.
func transition(s *domain.State, key domain.Key) outcome {
	switch key.Kind {
	case domain.KeyDigit:
		pressDigit(s, key.Digit)
	case domain.KeyDecimal:
		pressDecimal(s)
	case domain.KeyToggleSign:
		toggleSign(s)
	case domain.KeyPercent:
		return percent(s)
	case domain.KeyOperator:
		return chooseOperator(s, key.Operator)
	case domain.KeyEquals:
		return equals(s)
	case domain.KeyBackspace:
		backspace(s)
	case domain.KeyClearEntry:
		clearEntry(s)
	case domain.KeyAllClear:
		s.Reset()
	}
	return outcome{}
}

func fail(s *domain.State, err error) {
	s.Err = err.Error()
	s.JustEvaluated = false
}

func pressDigit(s *domain.State, d byte) {
	if s.HasError() {
		s.Reset()
	}
	if s.JustEvaluated {
		s.Entry = string(d)
		s.JustEvaluated = false
		return
	}
	if len(s.Entry) >= domain.MaxEntryLength {
		return
	}
	if s.Entry == "0" {
		s.Entry = string(d)
		return
	}
	s.Entry += string(d)
}

func pressDecimal(s *domain.State) {
	if s.HasError() {
		s.Reset()
	}
	s.JustEvaluated = false
	// An exponential result cannot take a fraction point.
	if strings.ContainsAny(s.Entry, ".eE") || len(s.Entry) >= domain.MaxEntryLength {
		return
	}
	s.Entry += "."
}

func toggleSign(s *domain.State) {
	if s.HasError() {
		s.Reset()
	}
	s.JustEvaluated = false
	switch {
	case s.Entry == "0":
	case strings.HasPrefix(s.Entry, "-"):
		s.Entry = s.Entry[1:]
	default:
		s.Entry = "-" + s.Entry
	}
}

func percent(s *domain.State) outcome {
	if s.HasError() {
		s.Reset()
	}
	v, err := Percent(s.Entry)
	if err != nil {
		return outcome{err: err}
	}
	s.Entry = v
	s.JustEvaluated = false
	return outcome{}
}

// chooseOperator in ErrorState only clears; the operator is not applied.
func chooseOperator(s *domain.State, op domain.Operator) outcome {
	if s.HasError() {
		s.Reset()
		return outcome{}
	}

	var out outcome
	switch {
	case s.JustEvaluated:
		s.JustEvaluated = false
	case s.HasPending():
		entry := s.Entry
		r, err := Evaluate(*s.Accumulator, &entry, s.Operator)
		if err != nil {
			return outcome{err: err}
		}
		out = outcome{result: r, operator: s.Operator}
		s.Entry = r
	}

	acc := s.Entry
	s.Accumulator = &acc
	s.Operator = op
	s.Entry = "0"
	return out
}

func equals(s *domain.State) outcome {
	if s.HasError() {
		s.Reset()
		return outcome{}
	}
	if !s.HasPending() {
		return outcome{}
	}

	entry := s.Entry
	r, err := Evaluate(*s.Accumulator, &entry, s.Operator)
	if err != nil {
		return outcome{err: err}
	}
	out := outcome{result: r, operator: s.Operator}
	s.Entry = r
	s.Accumulator = nil
	s.Operator = domain.OpNone
	s.JustEvaluated = true
	return out
}

// backspace never leaves a bare "-" in the entry.
func backspace(s *domain.State) {
	if s.HasError() {
		s.Reset()
		return
	}
	if s.JustEvaluated {
		clearEntry(s)
		return
	}
	if len(s.Entry) <= 1 {
		s.Entry = "0"
		return
	}
	s.Entry = s.Entry[:len(s.Entry)-1]
	if s.Entry == "-" {
		s.Entry = "0"
	}
}

// clearEntry also leaves ErrorState while keeping any pending operation.
func clearEntry(s *domain.State) {
	s.Entry = "0"
	s.JustEvaluated = false
	s.Err = ""
}
