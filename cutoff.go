package walksat

import (
	"strconv"
	"strings"
)

// ParseCutoff parses a flip-count argument with an optional K/M/B suffix
// (thousands/millions/billions), as accepted by -cutoff and -restart.
func ParseCutoff(s string) (int64, error) {
	factor := int64(1)
	if s == "" {
		return 0, NewUsageError("empty cutoff argument")
	}
	switch s[len(s)-1] {
	case 'K':
		factor = 1000
		s = s[:len(s)-1]
	case 'M':
		factor = 1000000
		s = s[:len(s)-1]
	case 'B':
		factor = 1000000000
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, NewUsageError("bad cutoff argument: %s", err)
	}
	return n * factor, nil
}
