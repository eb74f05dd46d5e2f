package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigitize(t *testing.T) {
	edges := []float64{0, 1, 2}
	xs := []float64{-0.5, 0, 0.5, 1, 2, 3}
	require.Equal(t, []int{0, 1, 1, 2, 3, 3}, Digitize(xs, edges))
}

func TestDigitizeClustersDefaultEdges(t *testing.T) {
	masses := []float64{
		math.Pow(10, 13.0),
		math.Pow(10, 14.0),
		math.Pow(10, 14.1),
		math.Pow(10, 15.3),
		math.Pow(10, 15.4001),
	}
	// The overweight cluster clamps into the last bin instead of
	// overflowing to index 8.
	require.Equal(t, []int{0, 1, 1, 7, 7}, DigitizeClusters(masses))
}

func TestDigitizeClustersCustomEdges(t *testing.T) {
	edges := []float64{0, 2, 4}
	masses := []float64{1, 4, 3, 0, 5, 600, -1}
	require.Equal(t, []int{1, 2, 2, 1, 2, 2, 0},
		DigitizeClusters(masses, edges))
}

func TestMasked(t *testing.T) {
	xs := []float64{10, 20, 30, 40}
	mask := []int{1, 2, 1, 3}
	require.Equal(t, []float64{10, 30}, Masked(xs, mask, 1))
	require.Empty(t, Masked(xs, mask, 5))

	ids := []int64{7, 8, 9, 10}
	require.Equal(t, []int64{8}, Masked(ids, mask, 2))

	require.Panics(t, func() { Masked(xs, mask[:2], 1) })
}
