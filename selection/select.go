/*package selection implements membership lookups and bin assignment for
halo and particle index arrays. The functions here decide which entries of
a catalog take part in an analysis step, so their duplicate and ordering
behavior is specified exactly.*/
package selection

import (
	"fmt"
	"log"
	"sort"
)

// Mode selects the algorithm used by SelectIfIn. All three modes agree when
// s is a duplicate-free subset of a, but they differ in index ordering and
// in how duplicates are handled, so the mode is part of the contract.
type Mode int

const (
	// Iterate scans a once and returns indices in ascending order.
	// Duplicated values of a contribute one index per occurrence;
	// duplicates in s are ignored.
	Iterate Mode = iota
	// Intersect intersects the two arrays as sets. The returned indices
	// point at the first occurrence of each common value and are ordered so
	// that a[idx] is sorted. Duplicates in either array collapse.
	Intersect
	// SearchSort argsorts a once and binary-searches for every element of
	// s. Indices come back in the order of s, duplicated values in s
	// produce duplicated indices, and only the first occurrence of a
	// duplicated value of a is ever found.
	SearchSort
)

// String returns the name used for the mode in config files.
func (m Mode) String() string {
	switch m {
	case Iterate:
		return "iterate"
	case Intersect:
		return "intersect"
	case SearchSort:
		return "searchsort"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a config-file mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "iterate":
		return Iterate, nil
	case "intersect":
		return Intersect, nil
	case "searchsort":
		return SearchSort, nil
	}
	return 0, fmt.Errorf("The selection mode '%s' is not one of "+
		"'iterate', 'intersect' or 'searchsort'.", s)
}

// Options contains optional promises which let SelectIfIn skip work.
type Options struct {
	// AssumeUnique promises that neither array contains duplicates.
	AssumeUnique bool
	// AssumeSubset promises that every element of s occurs in a, letting
	// SearchSort skip its filtering pass. If the promise is broken, the
	// missing values silently map onto insertion-point indices, which are
	// wrong. Iterate and Intersect ignore this option.
	AssumeSubset bool
	// WarnIfNotSubset logs a warning when s contains values missing from a.
	WarnIfNotSubset bool
}

// SelectIfIn returns the indices into a of the elements which also occur in
// s. The exact index set depends on the mode: see the Mode constants. An
// unknown mode is an error.
func SelectIfIn(a, s []int64, mode Mode, opts ...Options) ([]int, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}

	if opt.WarnIfNotSubset && !isSubset(a, s) {
		log.Printf("SelectIfIn: 's' is not a subset of 'a'.")
	}

	switch mode {
	case Iterate:
		return selectIterate(a, s), nil
	case Intersect:
		return selectIntersect(a, s), nil
	case SearchSort:
		return selectSearchSort(a, s, opt), nil
	}
	return nil, fmt.Errorf("The selection mode '%s' is not one of "+
		"'iterate', 'intersect' or 'searchsort'.", mode)
}

func selectIterate(a, s []int64) []int {
	set := make(map[int64]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}

	idx := []int{}
	for i, v := range a {
		if _, ok := set[v]; ok {
			idx = append(idx, i)
		}
	}
	return idx
}

func selectIntersect(a, s []int64) []int {
	first := make(map[int64]int, len(a))
	for i, v := range a {
		if _, ok := first[v]; !ok {
			first[v] = i
		}
	}

	inS := make(map[int64]struct{}, len(s))
	for _, v := range s {
		inS[v] = struct{}{}
	}

	common := []int64{}
	for v := range first {
		if _, ok := inS[v]; ok {
			common = append(common, v)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	idx := make([]int, len(common))
	for i, v := range common {
		idx[i] = first[v]
	}
	return idx
}

func selectSearchSort(a, s []int64, opt Options) []int {
	// Stable argsort, so ties resolve to the first occurrence in a.
	sorter := make([]int, len(a))
	for i := range sorter {
		sorter[i] = i
	}
	sort.SliceStable(sorter, func(i, j int) bool {
		return a[sorter[i]] < a[sorter[j]]
	})

	sorted := make([]int64, len(a))
	for i, j := range sorter {
		sorted[i] = a[j]
	}

	if !opt.AssumeSubset {
		kept := make([]int64, 0, len(s))
		for _, v := range s {
			if contains(sorted, v) {
				kept = append(kept, v)
			}
		}
		s = kept
	}

	idx := make([]int, len(s))
	for i, v := range s {
		pos := sort.Search(len(sorted), func(k int) bool {
			return sorted[k] >= v
		})
		// Values above max(a) can only get here when AssumeSubset lied.
		if pos == len(sorted) {
			pos--
		}
		idx[i] = sorter[pos]
	}
	return idx
}

// contains binary-searches a sorted slice.
func contains(sorted []int64, v int64) bool {
	pos := sort.Search(len(sorted), func(k int) bool { return sorted[k] >= v })
	return pos < len(sorted) && sorted[pos] == v
}

func isSubset(a, s []int64) bool {
	set := make(map[int64]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range s {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
