package selection

import (
	"math"
	"sort"
)

// DefaultClusterEdges are the cluster mass bin edges in solar masses,
// 10^14.0 to 10^15.4 in steps of 0.2 dex.
var DefaultClusterEdges = func() []float64 {
	edges := make([]float64, 8)
	for i := range edges {
		edges[i] = math.Pow(10, 14.0+0.2*float64(i))
	}
	return edges
}()

// Digitize assigns every value the index of the bin it falls into, treating
// the bins as right-open intervals [edges[i], edges[i+1]). Values below
// edges[0] map to 0 and values at or above the last edge map to len(edges),
// so in-range values get indices 1 through len(edges)-1.
func Digitize(xs, edges []float64) []int {
	idx := make([]int, len(xs))
	for i, x := range xs {
		idx[i] = sort.Search(len(edges), func(k int) bool {
			return edges[k] > x
		})
	}
	return idx
}

// DigitizeClusters bins halo masses, in solar masses, into cluster mass
// bins. Without explicit edges the 0.2 dex bins from 10^14.0 to 10^15.4 are
// used. Masses above the last edge are clamped into the highest bin rather
// than overflowing, so every cluster lands in a usable bin.
func DigitizeClusters(masses []float64, edges ...[]float64) []int {
	bins := DefaultClusterEdges
	if len(edges) > 0 {
		bins = edges[0]
	}

	idx := Digitize(masses, bins)
	for i := range idx {
		if idx[i] == len(bins) {
			idx[i] = len(bins) - 1
		}
	}
	return idx
}

// Masked compresses xs down to the entries whose mask value equals index.
// The mask is typically the output of Digitize, with index selecting one
// bin. Panics if the lengths differ.
func Masked[T any](xs []T, mask []int, index int) []T {
	if len(xs) != len(mask) {
		panic("xs and mask of unequal length in call to Masked(xs, mask)")
	}

	out := []T{}
	for i := range xs {
		if mask[i] == index {
			out = append(out, xs[i])
		}
	}
	return out
}
