package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

const (
	// fractionScale rounds results to 12 fractional digits to hide floating-point noise.
	fractionScale = 1e12

	// exponentThreshold is the magnitude above which results switch to exponential notation.
	exponentThreshold = 1e12

	// exponentDigits is the number of fractional mantissa digits kept in exponential notation.
	exponentDigits = 6
)

// Evaluate applies op to the operands a and b and returns the normalized result.
//
// When b is nil or op is OpNone it only normalizes a (see Normalize). Empty operands and a
// lone "." count as zero. Division by an exact zero returns domain.ErrDivideByZero and a
// NaN or infinite result returns domain.ErrNonFinite; both wrap domain.ErrArithmetic.
func Evaluate(a string, b *string, op domain.Operator) (string, error) {
	if b == nil || op == domain.OpNone {
		return Normalize(a), nil
	}

	an, err := operand(a)
	if err != nil {
		return "", err
	}
	bn, err := operand(*b)
	if err != nil {
		return "", err
	}

	var result float64
	switch op {
	case domain.OpAdd:
		result = an + bn
	case domain.OpSubtract:
		result = an - bn
	case domain.OpMultiply:
		result = an * bn
	case domain.OpDivide:
		if bn == 0 {
			return "", domain.ErrDivideByZero
		}
		result = an / bn
	default:
		return "", fmt.Errorf("%w: operator %d", domain.ErrUnknownKey, int(op))
	}

	if !isFinite(result) {
		return "", domain.ErrNonFinite
	}
	if math.Abs(result) > exponentThreshold {
		return formatExponential(result), nil
	}
	return Normalize(formatNumber(roundFraction(result))), nil
}

// Normalize returns the canonical display form of a numeric literal.
//
// Values that are not finite numbers yield domain.ErrorText. Literals already written in
// exponential notation are kept as they are. Everything else is rounded to 12 fractional
// digits and printed in its shortest form without a trailing point or zeros.
func Normalize(s string) string {
	n, ok := parseNumber(s)
	if !ok || !isFinite(n) {
		return domain.ErrorText
	}
	if strings.ContainsAny(s, "eE") {
		return s
	}
	return trimFraction(formatNumber(roundFraction(n)))
}

// Percent divides a literal by one hundred, normalizing before and after.
func Percent(s string) (string, error) {
	normalized := Normalize(s)
	if normalized == domain.ErrorText {
		return "", domain.ErrNonFinite
	}
	n, _ := parseNumber(normalized)
	out := Normalize(formatNumber(n / 100))
	if out == domain.ErrorText {
		return "", domain.ErrNonFinite
	}
	return out, nil
}

func operand(s string) (float64, error) {
	if s == "" || s == "." {
		return 0, nil
	}
	n, ok := parseNumber(s)
	if !ok || !isFinite(n) {
		return 0, fmt.Errorf("%w: operand %q", domain.ErrNonFinite, s)
	}
	return n, nil
}

// parseNumber treats blank input as zero.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// maxExactScaled is the largest magnitude at which every integer is representable (2^53).
const maxExactScaled = 1 << 53

// roundFraction rounds half up at the 12th fractional digit.
// Values too large to carry 12 fractional digits are returned unchanged.
func roundFraction(n float64) float64 {
	scaled := n * fractionScale
	if math.Abs(scaled) >= maxExactScaled {
		return n
	}
	r := math.Floor(scaled+0.5) / fractionScale
	if !isFinite(r) {
		return n
	}
	return r
}

// formatNumber prints n the way a JavaScript Number is converted to a string:
// plain decimal digits for magnitudes in [1e-7, 1e21), exponential notation otherwise.
func formatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return compactExponent(strconv.FormatFloat(n, 'e', -1, 64))
}

func formatExponential(n float64) string {
	s := strconv.FormatFloat(n, 'e', exponentDigits, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	return compactExponent(trimFraction(mantissa) + "e" + exp)
}

// compactExponent rewrites "1.5e+07" as "1.5e+7".
func compactExponent(s string) string {
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok || exp == "" {
		return s
	}
	sign := "+"
	if exp[0] == '+' || exp[0] == '-' {
		sign, exp = exp[:1], exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}

func trimFraction(s string) string {
	if !strings.Contains(s, ".") || strings.ContainsAny(s, "eE") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
