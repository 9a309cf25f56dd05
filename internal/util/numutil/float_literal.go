package numutil

import (
	"math"
	"strconv"
	"strings"
)

// FloatLiteral returns the shortest decimal representation of f that
// round-trips, always keeping at least one fractional digit.
//
// Example:
//
//	5    -> "5.0"
//	12.5 -> "12.5"
//	0.1  -> "0.1"
func FloatLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
