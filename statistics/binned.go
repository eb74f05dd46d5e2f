/*package statistics implements the binned aggregation, histogram
normalization and stacking routines behind the profile pipelines. All
functions are NaN-aware: NaN entries are treated as missing data and empty
bins aggregate to NaN rather than zero.*/
package statistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	mathsort "github.com/cpellner/tngprof/math/sort"
)

// BinnedStatistic is a per-bin aggregate of a quantity. Lower and Upper are
// error bar lengths below and above Values, not absolute positions.
type BinnedStatistic struct {
	Values, Lower, Upper []float64
}

// BinnedMeans computes the per-bin mean of values, where binIdx assigns
// every value to a bin the way Digitize does: 1-indexed, with 0 and values
// past the last bin catching out-of-range entries, which are dropped.
// Both error bars are the bin standard deviation. nBins = -1 uses the
// largest bin index present. Empty bins yield NaN.
func BinnedMeans(values []float64, binIdx []int, nBins int) (*BinnedStatistic, error) {
	nBins, err := checkBins(values, binIdx, nBins)
	if err != nil {
		return nil, err
	}

	st := newBinnedStatistic(nBins)
	for b := 1; b <= nBins; b++ {
		xs := binValues(values, binIdx, b)
		if len(xs) == 0 {
			continue
		}

		mean := stat.Mean(xs, nil)
		std := math.Sqrt(stat.MomentAbout(2, xs, mean, nil))
		st.Values[b-1] = mean
		st.Lower[b-1], st.Upper[b-1] = std, std
	}
	return st, nil
}

// BinnedMedians computes the per-bin median of values with asymmetric
// error bars: the distances from the median down to the 16th and up to the
// 84th percentile. Bin assignment matches BinnedMeans.
func BinnedMedians(values []float64, binIdx []int, nBins int) (*BinnedStatistic, error) {
	nBins, err := checkBins(values, binIdx, nBins)
	if err != nil {
		return nil, err
	}

	st := newBinnedStatistic(nBins)
	for b := 1; b <= nBins; b++ {
		xs := binValues(values, binIdx, b)
		if len(xs) == 0 {
			continue
		}

		med := quantile(xs, 0.5)
		st.Values[b-1] = med
		st.Lower[b-1] = med - quantile(xs, 0.16)
		st.Upper[b-1] = quantile(xs, 0.84) - med
	}
	return st, nil
}

func checkBins(values []float64, binIdx []int, nBins int) (int, error) {
	if len(values) != len(binIdx) {
		return 0, fmt.Errorf("There are %d values, but the bin index array "+
			"has length %d.", len(values), len(binIdx))
	}
	if nBins == -1 {
		nBins = 0
		for _, b := range binIdx {
			if b > nBins {
				nBins = b
			}
		}
	}
	return nBins, nil
}

func newBinnedStatistic(nBins int) *BinnedStatistic {
	st := &BinnedStatistic{
		Values: make([]float64, nBins),
		Lower:  make([]float64, nBins),
		Upper:  make([]float64, nBins),
	}
	for i := 0; i < nBins; i++ {
		st.Values[i] = math.NaN()
		st.Lower[i] = math.NaN()
		st.Upper[i] = math.NaN()
	}
	return st
}

// binValues collects the non-NaN members of bin b.
func binValues(values []float64, binIdx []int, b int) []float64 {
	xs := []float64{}
	for i, v := range values {
		if binIdx[i] == b && !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	return xs
}

// quantile is the p-quantile of xs under numpy's linear interpolation
// convention: h = p (n - 1) indexes the sorted values and a fractional h
// interpolates between the two neighboring order statistics, so the
// median of an odd-length slice is its middle element. The input is
// copied so that callers keep their ordering.
func quantile(xs []float64, p float64) float64 {
	buf := make([]float64, len(xs))
	copy(buf, xs)
	mathsort.Quick(buf)

	h := p * float64(len(buf)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return buf[lo] + (h-float64(lo))*(buf[hi]-buf[lo])
}
