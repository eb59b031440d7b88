package domain

import "strings"

// ErrorText is shown on the value line while the state is in ErrorState.
const ErrorText = "Error"

// Display holds the two lines a presentation layer renders.
type Display struct {
	// Expression is the small "expression so far" line: empty or "<accumulator> <symbol>".
	Expression string `json:"expression"`

	// Value is the large line: the entry, or ErrorText.
	Value string `json:"value"`

	// Debug asks the presentation layer to draw the debug indicator.
	Debug bool `json:"debug,omitempty"`
}

// IsError reports whether the display shows the error text.
func (d Display) IsError() bool {
	return d.Value == ErrorText
}

// Announce returns a screen-reader style summary of the display.
func (d Display) Announce() string {
	var b strings.Builder
	b.WriteString("Display ")
	if d.Expression != "" {
		b.WriteString(d.Expression)
		b.WriteString(" ")
	}
	b.WriteString(d.Value)
	return b.String()
}
