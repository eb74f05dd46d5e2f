package io

import (
	"sort"
	"strconv"
)

// NaturalLess compares strings so that embedded integers order
// numerically: "halo_2" sorts before "halo_10". Ties on numeric value
// fall back to the string comparison, so "02" and "2" stay deterministic.
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aTok, aNum, aRest := nextToken(a)
		bTok, bNum, bRest := nextToken(b)

		if aNum && bNum {
			ai, aErr := strconv.ParseInt(aTok, 10, 64)
			bi, bErr := strconv.ParseInt(bTok, 10, 64)
			if aErr == nil && bErr == nil && ai != bi {
				return ai < bi
			}
		}
		if aTok != bTok {
			return aTok < bTok
		}

		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// NaturalSort sorts names in place in natural order.
func NaturalSort(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

// nextToken splits off the leading run of digits or non-digits.
func nextToken(s string) (tok string, isNum bool, rest string) {
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }

	isNum = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == isNum {
		i++
	}
	return s[:i], isNum, s[i:]
}
