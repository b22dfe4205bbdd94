package application

import (
	"math"
	"strconv"
	"strings"
)

// maxQuantity keeps float-to-int conversion exact.
const maxQuantity = 1 << 53

// CoerceNumber turns a raw form value into a non-negative number. Accepted
// syntax: surrounding space, an optional sign, decimal digits with an
// optional fraction and exponent, or an unsigned 0x/0o/0b integer. Anything
// else, and any value that is not finite and positive, becomes 0.
func CoerceNumber(raw string) float64 {
	f, ok := parseNumber(strings.TrimSpace(raw))
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return f
}

// CoerceQuantity is CoerceNumber truncated to a whole count.
func CoerceQuantity(raw string) int64 {
	return wholeCount(CoerceNumber(raw))
}

// wholeCount floors f to a count in [0, maxQuantity]; values outside that
// range become 0.
func wholeCount(f float64) int64 {
	if math.IsNaN(f) || f <= 0 || f > maxQuantity {
		return 0
	}
	return int64(math.Floor(f))
}

func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		u, err := strconv.ParseUint(s, 0, 64)
		return float64(u), err == nil
	}
	// hex floats such as 0x1p4
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
