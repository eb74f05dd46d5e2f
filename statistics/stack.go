package statistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// HistogramStack aggregates per-halo histograms inside every mass bin.
// The outer index is the mass bin (0-based for Digitize bins 1..nBins),
// the inner index runs over histogram bins. Lower and Upper are the 16th
// and 84th percentile values, not error bar lengths.
type HistogramStack struct {
	Mean, Median, Lower, Upper [][]float64
}

// StackHistograms stacks one histogram per halo into per-mass-bin mean,
// median and 16th/84th percentile histograms. binIdx assigns each halo to
// a mass bin the way DigitizeClusters does; nBins = -1 uses the largest
// index present. Histogram bins with no finite members stack to NaN.
func StackHistograms(hists [][]float64, binIdx []int, nBins int) (*HistogramStack, error) {
	if len(hists) != len(binIdx) {
		return nil, fmt.Errorf("There are %d histograms, but the bin index "+
			"array has length %d.", len(hists), len(binIdx))
	}
	width, err := histWidth(hists)
	if err != nil {
		return nil, err
	}
	if nBins == -1 {
		nBins = maxBin(binIdx)
	}

	st := &HistogramStack{
		Mean:   make([][]float64, nBins),
		Median: make([][]float64, nBins),
		Lower:  make([][]float64, nBins),
		Upper:  make([][]float64, nBins),
	}

	for b := 1; b <= nBins; b++ {
		mean := make([]float64, width)
		median := make([]float64, width)
		lower := make([]float64, width)
		upper := make([]float64, width)

		for j := 0; j < width; j++ {
			xs := []float64{}
			for i := range hists {
				if binIdx[i] == b && !math.IsNaN(hists[i][j]) {
					xs = append(xs, hists[i][j])
				}
			}

			if len(xs) == 0 {
				mean[j] = math.NaN()
				median[j] = math.NaN()
				lower[j] = math.NaN()
				upper[j] = math.NaN()
				continue
			}

			mean[j] = stat.Mean(xs, nil)
			median[j] = quantile(xs, 0.5)
			lower[j] = quantile(xs, 0.16)
			upper[j] = quantile(xs, 0.84)
		}

		st.Mean[b-1] = mean
		st.Median[b-1] = median
		st.Lower[b-1] = lower
		st.Upper[b-1] = upper
	}

	return st, nil
}

// Stack2DHistograms stacks one 2D histogram per halo into a per-mass-bin
// element-wise NaN-aware mean. All histograms must share a shape; the
// result has one (ny, nx) mean histogram per mass bin.
func Stack2DHistograms(hists [][][]float64, binIdx []int, nBins int) ([][][]float64, error) {
	if len(hists) != len(binIdx) {
		return nil, fmt.Errorf("There are %d histograms, but the bin index "+
			"array has length %d.", len(hists), len(binIdx))
	}
	if len(hists) == 0 {
		return nil, fmt.Errorf("There are no histograms to stack.")
	}

	ny, nx := len(hists[0]), len(hists[0][0])
	for i := range hists {
		if len(hists[i]) != ny || len(hists[i][0]) != nx {
			return nil, fmt.Errorf("Histogram %d has shape (%d, %d), but "+
				"histogram 0 has shape (%d, %d).",
				i, len(hists[i]), len(hists[i][0]), ny, nx)
		}
	}
	if nBins == -1 {
		nBins = maxBin(binIdx)
	}

	out := make([][][]float64, nBins)
	for b := 1; b <= nBins; b++ {
		mean := make([][]float64, ny)
		for iy := 0; iy < ny; iy++ {
			mean[iy] = make([]float64, nx)
			for ix := 0; ix < nx; ix++ {
				sum, n := 0.0, 0
				for i := range hists {
					v := hists[i][iy][ix]
					if binIdx[i] == b && !math.IsNaN(v) {
						sum += v
						n++
					}
				}
				if n == 0 {
					mean[iy][ix] = math.NaN()
				} else {
					mean[iy][ix] = sum / float64(n)
				}
			}
		}
		out[b-1] = mean
	}

	return out, nil
}

// RunningAverage returns, for every x-column of a (ny, nx) histogram, the
// average y-bin center weighted by the column entries. NaN entries are
// skipped and all-zero columns average to NaN.
func RunningAverage(data [][]float64, yRange [2]float64) []float64 {
	ny := len(data)
	if ny == 0 {
		return []float64{}
	}
	nx := len(data[0])

	dy := (yRange[1] - yRange[0]) / float64(ny)
	centers := make([]float64, ny)
	for iy := range centers {
		centers[iy] = yRange[0] + dy*(float64(iy)+0.5)
	}

	avg := make([]float64, nx)
	for ix := 0; ix < nx; ix++ {
		var wSum, cSum float64
		for iy := 0; iy < ny; iy++ {
			w := data[iy][ix]
			if math.IsNaN(w) {
				continue
			}
			wSum += w
			cSum += w * centers[iy]
		}
		if wSum == 0 {
			avg[ix] = math.NaN()
		} else {
			avg[ix] = cSum / wSum
		}
	}

	return avg
}

func histWidth(hists [][]float64) (int, error) {
	if len(hists) == 0 {
		return 0, fmt.Errorf("There are no histograms to stack.")
	}
	width := len(hists[0])
	for i := range hists {
		if len(hists[i]) != width {
			return 0, fmt.Errorf("Histogram %d has %d bins, but histogram "+
				"0 has %d.", i, len(hists[i]), width)
		}
	}
	return width, nil
}

func maxBin(binIdx []int) int {
	n := 0
	for _, b := range binIdx {
		if b > n {
			n = b
		}
	}
	return n
}
