package vaxpatch

import (
	"fmt"
	"math"
	"strings"
)

func hexToInt(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// decodeHexPairs turns a payload like "DE AD be ef" into bytes. Spaces are
// skipped anywhere, including between the two digits of a byte. A trailing
// unpaired digit is dropped.
func decodeHexPairs(payload string) ([]byte, error) {
	out := make([]byte, 0, len(payload)/2)

	var hi int
	gotFirst := false
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		if c == ' ' {
			continue
		}
		v := hexToInt(c)
		if v < 0 {
			return nil, fmt.Errorf("%w: '%c' [%d]", ErrBadHexDigit, c, c)
		}
		if gotFirst {
			out = append(out, byte(hi<<4|v))
			gotFirst = false
		} else {
			hi = v
			gotFirst = true
		}
	}

	return out, nil
}

// parseOffset reads a base-16 offset the forgiving way: leading whitespace
// and an optional sign are accepted, digits are consumed until the first
// non-hex character, and anything else is ignored. No digits yields 0.
// Negative results clamp to 0.
func parseOffset(payload string) int64 {
	s := strings.TrimLeft(payload, " \t\n\v\f\r")

	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && hexToInt(s[2]) >= 0 {
		s = s[2:]
	}

	var n int64
	for i := 0; i < len(s); i++ {
		v := hexToInt(s[i])
		if v < 0 {
			break
		}
		if n > math.MaxInt64>>4 {
			// saturate like strtol
			n = math.MaxInt64
			break
		}
		n = n<<4 | int64(v)
	}

	if neg {
		return 0
	}
	return n
}
