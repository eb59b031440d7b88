package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Keypad lists every key in keypad order: function row, then digits and operators row by row.
var Keypad = []Key{
	AllClear, ClearEntry, Backspace, Op(OpDivide),
	Digit('7'), Digit('8'), Digit('9'), Op(OpMultiply),
	Digit('4'), Digit('5'), Digit('6'), Op(OpSubtract),
	Digit('1'), Digit('2'), Digit('3'), Op(OpAdd),
	ToggleSign, Digit('0'), Decimal, Percent, Equals,
}

// KeyReference renders the keypad as a markdown table of glyphs, labels and ASCII aliases.
func KeyReference() string {
	var b strings.Builder
	b.WriteString("# Keys\n\n")
	b.WriteString("| Key | Label | Also accepted |\n")
	b.WriteString("|---|---|---|\n")
	for _, k := range Keypad {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", k.String(), k.Label(), aliasesOf(k))
	}
	b.WriteString("\nKeys can be separated by spaces (`12.5 × 3 =`) or typed together (`12.5*3=`).\n")
	return b.String()
}

func aliasesOf(k Key) string {
	var aliases []string
	switch k.Kind {
	case KeyOperator:
		switch k.Operator {
		case OpMultiply:
			aliases = []string{"*", "x"}
		case OpDivide:
			aliases = []string{"/"}
		}
		aliases = append(aliases, k.Operator.String())
	case KeyDigit:
		aliases = []string{"digit:" + k.String()}
	default:
		for alias, nk := range namedKeys {
			if nk == k && alias != k.String() && alias != strings.ToLower(k.String()) {
				aliases = append(aliases, alias)
			}
		}
	}
	if len(aliases) == 0 {
		return ""
	}
	slices.Sort(aliases)
	return "`" + strings.Join(aliases, "`, `") + "`"
}
