package sanitize

import (
	"strings"
	"testing"
)

func TestAddressLine_StripsDisallowedChars(t *testing.T) {
	if got := AddressLine("101 Main% St|/"); got != "101 Main St" {
		t.Fatalf("AddressLine got %q want %q", got, "101 Main St")
	}
	if got := AddressLine(`5 North^eastern \Blvd`); got != "5 Northeastern Blvd" {
		t.Fatalf("AddressLine got %q want %q", got, "5 Northeastern Blvd")
	}
}

func TestPhone_StripsFormattingChars(t *testing.T) {
	if got := Phone("(603) 555-1234"); got != "603 5551234" {
		t.Fatalf("Phone got %q want %q", got, "603 5551234")
	}
}

func TestTruncation(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		max  int
	}{
		{"address", AddressLine, 30},
		{"city", City, 20},
		{"state", State, 2},
		{"postal", PostalCode, 5},
		{"phone", Phone, 14},
		{"name", Name, 30},
		{"email", Email, 50},
	}
	long := strings.Repeat("a", 60)
	for _, c := range cases {
		if got := c.fn(long); len(got) != c.max {
			t.Fatalf("%s: got len %d want %d", c.name, len(got), c.max)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"101 Main% St|/", "Apt 2", "(603) 555-1234", strings.Repeat("x", 45)}
	for _, in := range inputs {
		once := AddressLine(in)
		if twice := AddressLine(once); twice != once {
			t.Fatalf("AddressLine not idempotent: %q -> %q -> %q", in, once, twice)
		}
		once = Phone(in)
		if twice := Phone(once); twice != once {
			t.Fatalf("Phone not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestStripControl(t *testing.T) {
	if got := StripControl("abc\x00def\nghi"); got != "abcdefghi" {
		t.Fatalf("StripControl got %q", got)
	}
	// Zero-width joiner is category Cf and must go; plain text survives.
	if got := StripControl("a‍b"); got != "ab" {
		t.Fatalf("StripControl got %q", got)
	}
	if got := StripControl("Bedford NH"); got != "Bedford NH" {
		t.Fatalf("StripControl got %q", got)
	}
}
