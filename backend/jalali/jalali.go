// Package jalali validates Jalali (solar hijri) date strings and converts
// them to Gregorian ISO strings so history can be ordered chronologically.
package jalali

import (
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Valid reports whether s is a well-formed Jalali date in Y/M/D form.
// Leading and trailing whitespace is ignored. It never panics; any parse
// failure or out-of-range month/day (including leap-year rules for the
// 30th of Esfand) yields false.
func Valid(s string) bool {
	_, ok := parse(s)
	return ok
}

// ToGregorian converts a Jalali Y/M/D string to the equivalent Gregorian
// date in ISO 8601 form (YYYY-MM-DD). If s is not a valid Jalali date the
// input is returned unchanged, so callers sorting mixed values degrade to
// string order instead of failing.
func ToGregorian(s string) string {
	pt, ok := parse(s)
	if !ok {
		return s
	}
	return pt.Time().Format("2006-01-02")
}

// SortKey is the ordering key for week boundaries. Converted dates are
// zero-padded ISO strings, so lexicographic order equals chronological
// order even across Jalali year boundaries.
func SortKey(s string) string {
	return ToGregorian(s)
}

func parse(s string) (ptime.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return ptime.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ptime.Time{}, false
		}
		nums[i] = n
	}

	y, m, d := nums[0], nums[1], nums[2]
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return ptime.Time{}, false
	}

	// ptime.Date normalizes out-of-range values the way time.Date does,
	// so an invalid calendar date is detected by the round trip.
	pt := ptime.Date(y, ptime.Month(m), d, 12, 0, 0, 0, time.UTC)
	if pt.Year() != y || int(pt.Month()) != m || pt.Day() != d {
		return ptime.Time{}, false
	}
	return pt, true
}
