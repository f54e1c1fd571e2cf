// Package sanitize cleans free-text fields before they are merged into a
// gateway request. Each field class has its own disallowed character set and
// maximum length, taken from the Orbital interface specification.
package sanitize

import (
	"strings"
	"unicode"
)

const (
	maxAddressLine = 30
	maxCity        = 20
	maxState       = 2
	maxPostalCode  = 5
	maxPhone       = 14
	maxName        = 30
	maxEmail       = 50
)

// Address fields must not include any of: % | ^ \ /
func stripAddressChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '%', '|', '^', '\\', '/':
			return -1
		default:
			return r
		}
	}, s)
}

// Phone numbers are sent as AAAEEENNNNXXXX (area code, exchange, number,
// extension), so common formatting characters are removed.
func stripPhoneChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '-', '.':
			return -1
		default:
			return r
		}
	}, s)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// AddressLine sanitizes a street address line.
func AddressLine(s string) string {
	return truncate(stripAddressChars(s), maxAddressLine)
}

// City sanitizes a city name.
func City(s string) string {
	return truncate(stripAddressChars(s), maxCity)
}

// State sanitizes a state or province code.
func State(s string) string {
	return truncate(stripAddressChars(s), maxState)
}

// PostalCode sanitizes a ZIP or postal code.
func PostalCode(s string) string {
	return truncate(stripAddressChars(s), maxPostalCode)
}

// Phone sanitizes a phone number.
func Phone(s string) string {
	return truncate(stripPhoneChars(s), maxPhone)
}

// Name caps a customer name. No character filtering is applied.
func Name(s string) string {
	return truncate(s, maxName)
}

// Email caps an email address. No character filtering is applied.
func Email(s string) string {
	return truncate(s, maxEmail)
}

// StripControl removes Unicode control and format characters (category C)
// that would corrupt the wire document. It is applied to every slot value
// after field-specific sanitization.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.C) {
			return -1
		}
		return r
	}, s)
}
