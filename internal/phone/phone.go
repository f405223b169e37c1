// Package phone turns free-text phone numbers from input files into the
// international form the registration lookup expects.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrNoDigits is returned when a number contains no ASCII digits at all.
var ErrNoDigits = errors.New("phone number has no digits")

// QueryForm returns number as "+<digits>".
//
// A leading '+' or "00" marks the number as international. Otherwise, when
// defaultRegion is set, the number is parsed as a national number of that
// region with libphonenumber and formatted E.164. Numbers that do not parse
// for the region fall back to "+" followed by their digits, which is also what
// happens when no region is configured.
func QueryForm(number, defaultRegion string) (string, error) {
	digits, international := extractDigits(number)
	if digits == "" {
		return "", ErrNoDigits
	}
	if international || defaultRegion == "" {
		return "+" + digits, nil
	}

	num, err := phonenumbers.Parse(digits, strings.ToUpper(defaultRegion))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "+" + digits, nil
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// IsKnownRegion reports whether region is an ISO 3166-1 alpha-2 code that
// libphonenumber has numbering metadata for.
func IsKnownRegion(region string) bool {
	return phonenumbers.GetCountryCodeForRegion(strings.ToUpper(region)) != 0
}

// Region returns the region code for an international number, or "" if it
// cannot be determined.
func Region(number string) string {
	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}

// extractDigits strips everything but ASCII digits and reports whether the
// number was written in international notation.
func extractDigits(number string) (string, bool) {
	s := strings.TrimSpace(number)
	international := strings.HasPrefix(s, "+")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if !international && strings.HasPrefix(digits, "00") {
		digits = strings.TrimPrefix(digits, "00")
		international = true
	}
	return digits, international
}
