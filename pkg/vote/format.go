package vote

import (
	"fmt"
	"strconv"
)

// FormatScore renders a score for display. Scores whose magnitude reaches a
// thousand are shown in thousands with one decimal place, keeping the sign.
func FormatScore(n int) string {
	if n >= 1000 || n <= -1000 {
		return scaled(n, 1000, "k")
	}
	return strconv.Itoa(n)
}

// FormatCount renders auxiliary counters such as downloads.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return scaled(n, 1_000_000, "M")
	case n >= 1000:
		return scaled(n, 1000, "k")
	default:
		return strconv.Itoa(n)
	}
}

// scaled divides n by unit to one decimal place, rounding halves away from
// zero. unit must be a multiple of 20.
func scaled(n, unit int, suffix string) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	tenths := (n + unit/20) / (unit / 10)
	return fmt.Sprintf("%s%d.%d%s", sign, tenths/10, tenths%10, suffix)
}
