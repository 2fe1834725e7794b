package repository

import (
	"math"
	"strconv"
	"strings"
)

// formatThaiAmount renders a monetary amount the way the portal displays it:
// below a million, a comma-grouped integer; above, the value divided by a
// million per "ล้าน" suffix, with up to two decimals and trailing zeros
// stripped.
func formatThaiAmount(amount float64) string {
	neg := amount < 0
	v := math.Abs(amount)

	if v < 1_000_000 {
		s := groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
		if neg {
			return "-" + s
		}
		return s
	}

	suffix := ""
	for v >= 1_000_000 {
		v /= 1_000_000
		suffix += "ล้าน"
	}

	var s string
	if v == math.Trunc(v) {
		s = groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
	} else {
		s = strconv.FormatFloat(v, 'f', 2, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
		if i := strings.IndexByte(s, '.'); i >= 0 {
			s = groupThousands(s[:i]) + s[i:]
		} else {
			s = groupThousands(s)
		}
	}

	s = s + " " + suffix
	if neg {
		return "-" + s
	}
	return s
}

// splitClimateTypes undoes the comma-join the decomposer applies to a
// climate measure's type list.
func splitClimateTypes(joined string) []string {
	return strings.Split(joined, ", ")
}

// groupThousands inserts comma separators into a plain digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
