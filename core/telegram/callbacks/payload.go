package callbacks

import (
	"strconv"
	"strings"
)

// IndexToken encodes a 1-based position as prefix+n, e.g. "bar_3".
func IndexToken(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// ParseIndexToken extracts the positive integer following prefix.
// It reports false for any token that is not exactly prefix followed by
// decimal digits.
func ParseIndexToken(token, prefix string) (int, bool) {
	if prefix == "" || !strings.HasPrefix(token, prefix) {
		return 0, false
	}
	digits := token[len(prefix):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
