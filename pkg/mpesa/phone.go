package mpesa

import "strings"

const (
	countryCode = "254"
	phoneLength = 12
)

// NormalizePhone converts a Kenyan mobile number to 2547XXXXXXXX / 2541XXXXXXXX.
// A number with a leading 0 is treated as local; anything else must already carry
// the 254 prefix. v must be a string.
func NormalizePhone(v any) (string, error) {
	phone, ok := v.(string)
	if !ok {
		return "", ErrInvalidPhone
	}

	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")

	switch {
	case strings.HasPrefix(phone, "0"):
		phone = countryCode + phone[1:]
	case !strings.HasPrefix(phone, countryCode):
		return "", ErrInvalidPhone
	}

	if len(phone) != phoneLength || !isDigits(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
