// Package mask turns raw keystrokes into display masks and canonical forms.
//
// Every function re-derives its output from the digits alone, so feeding an
// already masked value back in returns it unchanged.
package mask

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// CountryCode is the Brazilian calling code prepended by ToE164.
const CountryCode = "55"

// Region is the phonenumbers region used for plausibility checks.
const Region = "BR"

const maxPhoneDigits = 11

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone formats raw input progressively as (DD) XXXXX-XXXX, keeping at most
// 11 digits.
func Phone(raw string) string {
	d := Digits(raw)
	if len(d) > maxPhoneDigits {
		d = d[:maxPhoneDigits]
	}

	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// ToE164 is a best-effort canonicalisation: digits already carrying the
// country code (12+ digits starting with 55) just get a plus sign, anything
// else is assumed to be a national number.
func ToE164(masked string) string {
	d := Digits(masked)
	if strings.HasPrefix(d, CountryCode) && len(d) >= 12 {
		return "+" + d
	}
	return "+" + CountryCode + d
}

// DisplayPhone renders a 10 or 11 digit national number for humans.
// Other lengths are returned untouched.
func DisplayPhone(phone string) string {
	d := Digits(phone)
	switch len(d) {
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return phone
	}
}

// IsValidNumber asks libphonenumber whether the canonical form is a real
// Brazilian number. The form itself only checks digit counts; this is used
// for config and operator tooling.
func IsValidNumber(e164 string) bool {
	num, err := phonenumbers.Parse(e164, Region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
