package statistics

import (
	"fmt"
)

// Normalization selects how ColumnNormalizedHist2D scales each x-column.
type Normalization int

const (
	// NormDensity divides every column by its sum, so columns integrate
	// to one.
	NormDensity Normalization = iota
	// NormRange divides every column by its maximum, so columns span
	// [0, 1].
	NormRange
)

// ParseNormalization converts a config-file normalization name into a
// Normalization.
func ParseNormalization(s string) (Normalization, error) {
	switch s {
	case "density":
		return NormDensity, nil
	case "range":
		return NormRange, nil
	}
	return 0, fmt.Errorf("The normalization '%s' is not one of 'density' "+
		"or 'range'.", s)
}

// Hist2D is a 2D histogram stored transposed relative to its accumulation
// order: Data[iy][ix], shape (ny, nx), so image plotters can consume it
// row by row.
type Hist2D struct {
	XEdges, YEdges []float64
	Data           [][]float64
}

// ColumnNormalizedHist2D accumulates a 2D histogram of the (x, y) points
// over the fixed ranges xRange and yRange with nx by ny bins, then
// normalizes every x-column according to norm. A nil weights slice counts
// points; otherwise each point contributes its weight. Points outside the
// ranges are dropped, except that the upper edges are inclusive. Columns
// whose normalization constant is zero come back as NaN.
func ColumnNormalizedHist2D(
	x, y, weights []float64, nx, ny int,
	xRange, yRange [2]float64, norm Normalization,
) (*Hist2D, error) {
	switch norm {
	case NormDensity, NormRange:
	default:
		return nil, fmt.Errorf("The normalization '%d' is not one of "+
			"'density' or 'range'.", norm)
	}

	if len(x) != len(y) {
		return nil, fmt.Errorf("There are %d x values, but %d y values.",
			len(x), len(y))
	}
	if weights != nil && len(weights) != len(x) {
		return nil, fmt.Errorf("There are %d points, but %d weights.",
			len(x), len(weights))
	}
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("The bin counts (%d, %d) must be positive.",
			nx, ny)
	}

	// Accumulate in column-major order, (nx, ny), and transpose at the end.
	cols := make([][]float64, nx)
	for i := range cols {
		cols[i] = make([]float64, ny)
	}

	for i := range x {
		ix, okx := binOf(x[i], xRange, nx)
		iy, oky := binOf(y[i], yRange, ny)
		if !okx || !oky {
			continue
		}

		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		cols[ix][iy] += w
	}

	h := &Hist2D{
		XEdges: linspace(xRange, nx),
		YEdges: linspace(yRange, ny),
		Data:   make([][]float64, ny),
	}
	for iy := range h.Data {
		h.Data[iy] = make([]float64, nx)
	}

	for ix := 0; ix < nx; ix++ {
		var denom float64
		switch norm {
		case NormDensity:
			for iy := 0; iy < ny; iy++ {
				denom += cols[ix][iy]
			}
		case NormRange:
			for iy := 0; iy < ny; iy++ {
				if cols[ix][iy] > denom {
					denom = cols[ix][iy]
				}
			}
		}

		// Zero columns divide to 0/0 = NaN, which is what plotting wants.
		for iy := 0; iy < ny; iy++ {
			h.Data[iy][ix] = cols[ix][iy] / denom
		}
	}

	return h, nil
}

// Hist2DCounts is ColumnNormalizedHist2D without the normalization step,
// for archiving the raw accumulation next to the normalized one.
func Hist2DCounts(
	x, y, weights []float64, nx, ny int, xRange, yRange [2]float64,
) (*Hist2D, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("There are %d x values, but %d y values.",
			len(x), len(y))
	}
	if weights != nil && len(weights) != len(x) {
		return nil, fmt.Errorf("There are %d points, but %d weights.",
			len(x), len(weights))
	}
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("The bin counts (%d, %d) must be positive.",
			nx, ny)
	}

	h := &Hist2D{
		XEdges: linspace(xRange, nx),
		YEdges: linspace(yRange, ny),
		Data:   make([][]float64, ny),
	}
	for iy := range h.Data {
		h.Data[iy] = make([]float64, nx)
	}

	for i := range x {
		ix, okx := binOf(x[i], xRange, nx)
		iy, oky := binOf(y[i], yRange, ny)
		if !okx || !oky {
			continue
		}

		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		h.Data[iy][ix] += w
	}

	return h, nil
}

// binOf maps a value onto its bin in a fixed range, keeping the upper edge
// inclusive.
func binOf(v float64, r [2]float64, n int) (int, bool) {
	if v < r[0] || v > r[1] {
		return 0, false
	}
	i := int(float64(n) * (v - r[0]) / (r[1] - r[0]))
	if i == n {
		i--
	}
	return i, true
}

// linspace returns the n+1 bin edges spanning r.
func linspace(r [2]float64, n int) []float64 {
	edges := make([]float64, n+1)
	dx := (r[1] - r[0]) / float64(n)
	for i := range edges {
		edges[i] = r[0] + dx*float64(i)
	}
	edges[n] = r[1]
	return edges
}
