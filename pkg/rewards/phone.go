package rewards

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a South African mobile number to its ten digit
// national form (0XXXXXXXXX). Spaces, dashes, brackets and a +27/27 country
// prefix are accepted.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '(', r == ')':
		case r == '+' && b.Len() == 0:
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
		}
	}

	digits := b.String()
	if strings.HasPrefix(digits, "27") && len(digits) == 11 {
		digits = "0" + digits[2:]
	}
	if len(digits) != 10 || digits[0] != '0' {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return digits, nil
}
