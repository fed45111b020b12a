package naming

import (
	"sort"
	"strings"
)

// Compare returns the natural ordering of two filenames: -1 when a sorts
// first, +1 when b sorts first, 0 when they are equivalent. Both names are
// tokenized into maximal runs of digits and maximal runs of non-digits;
// digit runs compare by numeric value (so "10" > "9" and leading zeros do
// not matter), non-digit runs compare case-insensitively. The first
// differing token pair decides. When one token sequence is a prefix of the
// other, the shorter name sorts first. When a digit run meets a non-digit
// run at the same position, the digit run sorts first.
func Compare(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		digitsA, endA := scanRun(a, ia)
		digitsB, endB := scanRun(b, ib)

		var c int
		switch {
		case digitsA && digitsB:
			c = compareNumeric(a[ia:endA], b[ib:endB])
		case !digitsA && !digitsB:
			c = strings.Compare(strings.ToLower(a[ia:endA]), strings.ToLower(b[ib:endB]))
		case digitsA:
			c = -1
		default:
			c = 1
		}
		if c != 0 {
			return c
		}
		ia, ib = endA, endB
	}

	switch {
	case ia < len(a):
		return 1
	case ib < len(b):
		return -1
	}
	return 0
}

// NaturalLess reports whether a sorts before b under natural ordering.
func NaturalLess(a, b string) bool {
	return Compare(a, b) < 0
}

// SortNatural sorts names in place using natural ordering. The sort is
// stable, so names that compare as equivalent keep their incoming order.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

// scanRun reports whether the run starting at i consists of digits, and
// returns the index just past its end. Multi-byte runes are never digits,
// so they group into the surrounding text run.
func scanRun(s string, i int) (digits bool, end int) {
	digits = isDigit(s[i])
	end = i + 1
	for end < len(s) && isDigit(s[end]) == digits {
		end++
	}
	return digits, end
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// compareNumeric compares two digit runs by numeric value without parsing
// them into integers, so arbitrarily long runs cannot overflow. After
// stripping leading zeros, a longer run is a bigger number; equal-length
// runs compare lexicographically.
func compareNumeric(x, y string) int {
	x = strings.TrimLeft(x, "0")
	y = strings.TrimLeft(y, "0")
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	return strings.Compare(x, y)
}
