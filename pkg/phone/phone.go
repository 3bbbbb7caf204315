package phone

import "strings"

// Normalize canonicalizes a raw phone number to E.164 dial format so it
// can be used as a join key when matching calls to applications. It is
// total: any input yields a result, junk characters are simply dropped.
func Normalize(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	digitsOnly := digits.String()

	if len(digitsOnly) == 11 && strings.HasPrefix(digitsOnly, "1") {
		return "+" + digitsOnly
	}

	if len(digitsOnly) == 10 {
		return "+1" + digitsOnly
	}

	if strings.HasPrefix(raw, "+") {
		return raw
	}

	return "+1" + digitsOnly
}
