package output

import (
	"strconv"
	"strings"
)

// FormatDecimal formats a float in plain decimal notation with the shortest
// representation that round-trips, always keeping a fractional part:
// 16 becomes "16.0", 16.5 stays "16.5".
func FormatDecimal(f float64) string {
	str := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(str, '.') {
		str += ".0"
	}
	return str
}
