package util

import (
	"fmt"
	"regexp"
	"strconv"
)

var rangePattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)

// ParseRange parses an inclusive integer range written "MIN-MAX" (e.g.
// "2-6"). A single number N is the range N-N.
func ParseRange(s string) (lo, hi int, err error) {
	matches := rangePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, 0, fmt.Errorf("invalid range: '%s'. Use format like '2-6' or '4'", s)
	}

	lo, err = strconv.Atoi(matches[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numeric value: %v", err)
	}
	hi = lo
	if matches[2] != "" {
		if hi, err = strconv.Atoi(matches[2]); err != nil {
			return 0, 0, fmt.Errorf("invalid numeric value: %v", err)
		}
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("invalid range: '%s'. MIN must not exceed MAX", s)
	}
	return lo, hi, nil
}

// FormatRange is the inverse of ParseRange.
func FormatRange(lo, hi int) string {
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}
