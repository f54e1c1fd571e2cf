package orbital

// CardBrand identifies the payment network inferred from an account number
// prefix. The string values are the codes the gateway expects in the
// CardBrand slot.
type CardBrand string

const (
	Visa            CardBrand = "Visa"
	MasterCard      CardBrand = "MC"
	Amex            CardBrand = "Amex"
	Discover        CardBrand = "Discover"
	JCB             CardBrand = "JCB"
	ElectronicCheck CardBrand = "EC"
	Unknown         CardBrand = ""
)

// Security code presence indicator values (Visa/Discover only).
const (
	SecValPresent     = "1"
	SecValIllegible   = "2"
	SecValUnavailable = "9"
)

// Classify infers the card brand from the leading digits of an account
// number. Numbers too short to match any prefix classify as Unknown.
func Classify(accountNumber string) CardBrand {
	switch {
	case hasPrefix(accountNumber, "4"):
		return Visa
	case hasPrefix(accountNumber, "5"):
		return MasterCard
	case hasPrefix(accountNumber, "6011", "65"):
		return Discover
	case hasPrefix(accountNumber, "34", "37"):
		return Amex
	case hasPrefix(accountNumber, "2131", "1800", "35"):
		return JCB
	default:
		return Unknown
	}
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}

// SupportsOnlineReversal reports whether the brand can reverse an
// authorization online. Brands without online reversal support use the void
// operation instead.
func SupportsOnlineReversal(brand CardBrand) bool {
	switch brand {
	case MasterCard, Discover, Visa:
		return true
	default:
		return false
	}
}

// securityCodeIndicator resolves the CardSecValInd slot:
//
//	1  value is present
//	2  value on card but illegible
//	9  cardholder states data not available
//
// The indicator (and with it the security code value) is only sent on
// authorizing messages for Visa and Discover; a caller-supplied override
// wins when set.
func securityCodeIndicator(brand CardBrand, cvv, override, messageType, expiry string) string {
	if cvv == "" {
		return ""
	}
	if override != "" {
		return override
	}
	if messageType != MessageTypeAuthorize && messageType != MessageTypeAuthorizeCapture {
		return ""
	}
	if brand == Visa || brand == Discover {
		if expiry != "" {
			return SecValPresent
		}
		return SecValUnavailable
	}
	return ""
}
