package util

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// ParseDigits parses a digit string such as "3141" or "3,1,4,1" into its
// digits.
func ParseDigits(s string) ([]int, error) {
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return nil, fmt.Errorf("invalid digits: empty sequence")
	}
	digits := make([]int, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid digits: '%s' contains %q", s, r)
		}
		digits = append(digits, int(r-'0'))
	}
	return digits, nil
}

// FormatDigits writes digits as a plain string, e.g. "3141".
func FormatDigits(digits []int) string {
	var b strings.Builder
	for _, d := range digits {
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}

// RandomDigits draws length digits uniformly from 0-9.
func RandomDigits(rng *rand.Rand, length int) []int {
	digits := make([]int, length)
	for i := range digits {
		digits[i] = rng.IntN(10)
	}
	return digits
}
