package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackHistograms(t *testing.T) {
	hists := [][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
		{math.NaN(), 8},
	}
	binIdx := []int{1, 1, 2, 2}

	st, err := StackHistograms(hists, binIdx, -1)
	require.NoError(t, err)
	require.Len(t, st.Mean, 2)

	require.InDelta(t, 2, st.Mean[0][0], 1e-10)
	require.InDelta(t, 3, st.Mean[0][1], 1e-10)
	require.InDelta(t, 2, st.Median[0][0], 1e-10)

	// The NaN in the last histogram drops out of the first column.
	require.InDelta(t, 5, st.Mean[1][0], 1e-10)
	require.InDelta(t, 7, st.Mean[1][1], 1e-10)

	// Interpolated percentiles of {1, 3}.
	require.InDelta(t, 1.32, st.Lower[0][0], 1e-10)
	require.InDelta(t, 2.68, st.Upper[0][0], 1e-10)
}

func TestStackHistogramsEmptyBin(t *testing.T) {
	hists := [][]float64{{1, 2}}
	binIdx := []int{2}

	st, err := StackHistograms(hists, binIdx, 2)
	require.NoError(t, err)
	require.True(t, math.IsNaN(st.Mean[0][0]))
	require.InDelta(t, 1, st.Mean[1][0], 1e-10)
}

func TestStackHistogramsErrors(t *testing.T) {
	_, err := StackHistograms([][]float64{{1}}, []int{1, 2}, -1)
	require.Error(t, err)

	_, err = StackHistograms([][]float64{{1}, {1, 2}}, []int{1, 1}, -1)
	require.Error(t, err)

	_, err = StackHistograms([][]float64{}, []int{}, -1)
	require.Error(t, err)
}

func TestStack2DHistograms(t *testing.T) {
	h1 := [][]float64{{1, 2}, {3, 4}}
	h2 := [][]float64{{3, math.NaN()}, {5, 6}}

	out, err := Stack2DHistograms([][][]float64{h1, h2}, []int{1, 1}, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)

	require.InDelta(t, 2, out[0][0][0], 1e-10)
	require.InDelta(t, 2, out[0][0][1], 1e-10, "NaN entries drop out")
	require.InDelta(t, 4, out[0][1][0], 1e-10)
	require.InDelta(t, 5, out[0][1][1], 1e-10)
}

func TestStack2DHistogramsShapeMismatch(t *testing.T) {
	h1 := [][]float64{{1, 2}, {3, 4}}
	h2 := [][]float64{{1, 2, 3}, {4, 5, 6}}
	_, err := Stack2DHistograms([][][]float64{h1, h2}, []int{1, 1}, 1)
	require.Error(t, err)
}

func TestRunningAverage(t *testing.T) {
	data := [][]float64{
		{1, 0},
		{3, 0},
	}
	avg := RunningAverage(data, [2]float64{0, 2})

	// Column 0 weights the centers 0.5 and 1.5 by 1 and 3.
	require.InDelta(t, 1.25, avg[0], 1e-10)
	require.True(t, math.IsNaN(avg[1]), "all-zero columns average to NaN")
}

func TestRunningAverageSkipsNaN(t *testing.T) {
	data := [][]float64{
		{math.NaN()},
		{2},
	}
	avg := RunningAverage(data, [2]float64{0, 2})
	require.InDelta(t, 1.5, avg[0], 1e-10)
}
