package util

import (
	"math"
	"strconv"
	"strings"
)

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// Percent returns a fraction as a percentage rounded to one decimal.
func Percent(frac float64) float64 { return Round(frac*100, 1) }

// FmtFloat formats f with the shortest representation that round-trips.
func FmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// FmtFixed formats f with exactly places decimals.
func FmtFixed(f float64, places int) string { return strconv.FormatFloat(f, 'f', places, 64) }

// ParseNames splits CLI args on commas and whitespace, lowercases them and
// drops empties and repeats while keeping first-seen order.
//
//	["jerome-tt,alban-tt", " ALBAN-TT "] -> ["jerome-tt", "alban-tt"]
func ParseNames(args []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, a := range args {
		for _, f := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			n := strings.ToLower(strings.TrimSpace(f))
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
