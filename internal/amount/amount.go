// Package amount converts decimal currency strings to the gateway's
// fixed-point integer encoding: the decimal point is removed and the
// fractional part padded to two digits ("45.25" -> "4525", "54" -> "5400").
package amount

import (
	"fmt"
	"strings"
)

// Encode converts a decimal amount string to its fixed-point form. An empty
// input encodes to an empty string (the field is simply not sent). Inputs
// with more than two fractional digits are rejected rather than truncated.
func Encode(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if !isDigits(whole) || whole == "" {
		return "", fmt.Errorf("amount %q is not a decimal number", s)
	}
	if !hasDot {
		return whole + "00", nil
	}
	if !isDigits(frac) {
		return "", fmt.Errorf("amount %q is not a decimal number", s)
	}
	switch len(frac) {
	case 1:
		return whole + frac + "0", nil
	case 2:
		return whole + frac, nil
	default:
		return "", fmt.Errorf("amount %q must have at most two fractional digits", s)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
