package selection

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testA = []int64{1, 4, 2, 6, 7, 3, 9, 5, 8}
	testS = []int64{4, 8, 2, 0}
)

func TestSelectIfInIterate(t *testing.T) {
	idx, err := SelectIfIn(testA, testS, Iterate)
	require.NoError(t, err)
	// Ascending index order, regardless of the order of s.
	require.Equal(t, []int{1, 2, 8}, idx)
}

func TestSelectIfInIntersect(t *testing.T) {
	idx, err := SelectIfIn(testA, testS, Intersect)
	require.NoError(t, err)
	// Ordered so that testA[idx] is sorted: 2, 4, 8.
	require.Equal(t, []int{2, 1, 8}, idx)
}

func TestSelectIfInSearchSort(t *testing.T) {
	idx, err := SelectIfIn(testA, testS, SearchSort)
	require.NoError(t, err)
	// Order of s, with the missing value 0 filtered out.
	require.Equal(t, []int{1, 8, 2}, idx)
}

func TestSelectIfInSearchSortAssumeSubset(t *testing.T) {
	// With the subset promise broken, the value 0 maps onto its insertion
	// point instead of being filtered. The resulting index is wrong, but
	// deterministic.
	idx, err := SelectIfIn(testA, testS, SearchSort, Options{AssumeSubset: true})
	require.NoError(t, err)
	require.Equal(t, []int{1, 8, 2, 0}, idx)
}

func TestSelectIfInDuplicatesInA(t *testing.T) {
	a := []int64{1, 2, 2, 3}
	s := []int64{2}

	idx, err := SelectIfIn(a, s, Iterate)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, idx, "iterate keeps every occurrence")

	idx, err = SelectIfIn(a, s, Intersect)
	require.NoError(t, err)
	require.Equal(t, []int{1}, idx, "intersect collapses to the first occurrence")

	idx, err = SelectIfIn(a, s, SearchSort)
	require.NoError(t, err)
	require.Equal(t, []int{1}, idx, "searchsort finds only the first occurrence")
}

func TestSelectIfInDuplicatesInS(t *testing.T) {
	a := []int64{1, 2, 3}
	s := []int64{2, 2}

	idx, err := SelectIfIn(a, s, Iterate)
	require.NoError(t, err)
	require.Equal(t, []int{1}, idx, "iterate ignores duplicates in s")

	idx, err = SelectIfIn(a, s, Intersect)
	require.NoError(t, err)
	require.Equal(t, []int{1}, idx)

	idx, err = SelectIfIn(a, s, SearchSort)
	require.NoError(t, err)
	require.Equal(t, []int{1, 1}, idx, "searchsort duplicates the index")
}

func TestSelectIfInModeAgreement(t *testing.T) {
	// For a duplicate-free subset, the three modes return the same index
	// set, although not in the same order.
	a := []int64{10, 30, 20, 50, 40}
	s := []int64{20, 40}

	iter, err := SelectIfIn(a, s, Iterate)
	require.NoError(t, err)
	inter, err := SelectIfIn(a, s, Intersect)
	require.NoError(t, err)
	search, err := SelectIfIn(a, s, SearchSort)
	require.NoError(t, err)

	require.ElementsMatch(t, iter, inter)
	require.ElementsMatch(t, iter, search)
}

func TestSelectIfInEmpty(t *testing.T) {
	for _, mode := range []Mode{Iterate, Intersect, SearchSort} {
		idx, err := SelectIfIn(testA, []int64{}, mode)
		require.NoError(t, err)
		require.Empty(t, idx)

		idx, err = SelectIfIn([]int64{}, testS, mode)
		require.NoError(t, err)
		require.Empty(t, idx)
	}
}

func TestSelectIfInUnknownMode(t *testing.T) {
	_, err := SelectIfIn(testA, testS, Mode(17))
	require.Error(t, err)
}

func TestSelectIfInWarnIfNotSubset(t *testing.T) {
	buf := &bytes.Buffer{}
	out := log.Writer()
	log.SetOutput(buf)
	defer log.SetOutput(out)

	_, err := SelectIfIn(testA, testS, Iterate, Options{WarnIfNotSubset: true})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "'s' is not a subset of 'a'")

	buf.Reset()
	_, err = SelectIfIn(testA, []int64{4, 8}, Iterate,
		Options{WarnIfNotSubset: true})
	require.NoError(t, err)
	require.Empty(t, buf.String())
}

func TestParseMode(t *testing.T) {
	for _, want := range []Mode{Iterate, Intersect, SearchSort} {
		got, err := ParseMode(want.String())
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseMode("bisect")
	require.Error(t, err)
}
