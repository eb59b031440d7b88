package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// KeyKind identifies the class of a keypad event.
type KeyKind int

const (
	KeyDigit KeyKind = iota + 1
	KeyDecimal
	KeyToggleSign
	KeyPercent
	KeyOperator
	KeyEquals
	KeyBackspace
	KeyClearEntry
	KeyAllClear
)

// String returns the kebab-case name of the kind.
func (k KeyKind) String() string {
	switch k {
	case KeyDigit:
		return "digit"
	case KeyDecimal:
		return "decimal"
	case KeyToggleSign:
		return "toggle-sign"
	case KeyPercent:
		return "percent"
	case KeyOperator:
		return "operator"
	case KeyEquals:
		return "equals"
	case KeyBackspace:
		return "backspace"
	case KeyClearEntry:
		return "clear-entry"
	case KeyAllClear:
		return "all-clear"
	}
	return "unknown"
}

// Key is a discrete input event coming from the keypad.
type Key struct {
	Kind     KeyKind
	Digit    byte     // '0'..'9' when Kind == KeyDigit
	Operator Operator // set when Kind == KeyOperator
}

var (
	Decimal    = Key{Kind: KeyDecimal}
	ToggleSign = Key{Kind: KeyToggleSign}
	Percent    = Key{Kind: KeyPercent}
	Equals     = Key{Kind: KeyEquals}
	Backspace  = Key{Kind: KeyBackspace}
	ClearEntry = Key{Kind: KeyClearEntry}
	AllClear   = Key{Kind: KeyAllClear}
)

// Digit returns the key for a single decimal digit. It panics on anything else.
func Digit(d byte) Key {
	if d < '0' || d > '9' {
		panic(fmt.Sprintf("domain: invalid digit %q", d))
	}
	return Key{Kind: KeyDigit, Digit: d}
}

// Op returns the key selecting an operator.
func Op(op Operator) Key {
	return Key{Kind: KeyOperator, Operator: op}
}

// Valid reports whether the key is well formed.
func (k Key) Valid() bool {
	switch k.Kind {
	case KeyDigit:
		return k.Digit >= '0' && k.Digit <= '9'
	case KeyOperator:
		return k.Operator != OpNone
	case KeyDecimal, KeyToggleSign, KeyPercent, KeyEquals, KeyBackspace, KeyClearEntry, KeyAllClear:
		return true
	}
	return false
}

// String returns the keypad label of the key.
func (k Key) String() string {
	switch k.Kind {
	case KeyDigit:
		return string(k.Digit)
	case KeyDecimal:
		return "."
	case KeyToggleSign:
		return "±"
	case KeyPercent:
		return "%"
	case KeyOperator:
		return k.Operator.Symbol()
	case KeyEquals:
		return "="
	case KeyBackspace:
		return "⌫"
	case KeyClearEntry:
		return "C"
	case KeyAllClear:
		return "AC"
	}
	return "?"
}

var digitNames = [...]string{"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}

// Label returns the accessibility label of the key.
func (k Key) Label() string {
	switch k.Kind {
	case KeyDigit:
		return digitNames[k.Digit-'0']
	case KeyDecimal:
		return "Decimal Point"
	case KeyToggleSign:
		return "Toggle Sign"
	case KeyPercent:
		return "Percent"
	case KeyOperator:
		name := k.Operator.String()
		return strings.ToUpper(name[:1]) + name[1:]
	case KeyEquals:
		return "Equals"
	case KeyBackspace:
		return "Backspace"
	case KeyClearEntry:
		return "Clear Entry"
	case KeyAllClear:
		return "All Clear"
	}
	return "Unknown"
}

// MarshalText encodes the key as its keypad label.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownKey, k.Kind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes any label accepted by ParseKey.
func (k *Key) UnmarshalText(text []byte) error {
	key, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = key
	return nil
}

var namedKeys = map[string]Key{
	".":           Decimal,
	",":           Decimal,
	"decimal":     Decimal,
	"±":           ToggleSign,
	"+/-":         ToggleSign,
	"neg":         ToggleSign,
	"toggle-sign": ToggleSign,
	"%":           Percent,
	"percent":     Percent,
	"=":           Equals,
	"equals":      Equals,
	"⌫":           Backspace,
	"bs":          Backspace,
	"backspace":   Backspace,
	"c":           ClearEntry,
	"ce":          ClearEntry,
	"clear-entry": ClearEntry,
	"ac":          AllClear,
	"all-clear":   AllClear,
}

// ParseKey maps a keypad label or key name to a Key.
//
// Accepted forms are the keypad glyphs ("7", ".", "±", "%", "×", "=", "⌫", "C", "AC"),
// ASCII aliases ("*", "/", "+/-", "bs", "CE") and names ("digit:7", "operator:divide",
// "equals", "all-clear"). Matching is case-insensitive.
func ParseKey(label string) (Key, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return Digit(s[0]), nil
	}
	if k, ok := namedKeys[s]; ok {
		return k, nil
	}
	if rest, ok := strings.CutPrefix(s, "digit:"); ok && len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9' {
		return Digit(rest[0]), nil
	}
	name := strings.TrimPrefix(s, "operator:")
	if name != "" {
		if op, err := ParseOperator(name); err == nil && op != OpNone {
			return Op(op), nil
		}
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// ParseKeys tokenizes a whitespace separated key script such as "5 + 3 =".
// Tokens that are not a single label are split into characters, so "12.5×3=" works too.
func ParseKeys(script string) ([]Key, error) {
	var keys []Key
	for _, tok := range strings.FieldsFunc(script, unicode.IsSpace) {
		if k, err := ParseKey(tok); err == nil {
			keys = append(keys, k)
			continue
		}
		for _, r := range tok {
			k, err := ParseKey(string(r))
			if err != nil {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownKey, string(r), tok)
			}
			keys = append(keys, k)
		}
	}
	return keys, nil
}
