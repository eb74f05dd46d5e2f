/*package render draws the PNG figures and HTML galleries produced by the
analysis modes: 2D histogram heat maps, density profiles and binned
statistic profiles with error bars.*/
package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	mathsort "github.com/cpellner/tngprof/math/sort"
	"github.com/cpellner/tngprof/statistics"
)

// heatGrid adapts a Hist2D to plotter.GridXYZ. NaN cells render as zero.
type heatGrid struct {
	h *statistics.Hist2D
}

func (g heatGrid) Dims() (c, r int) {
	return len(g.h.XEdges) - 1, len(g.h.YEdges) - 1
}

func (g heatGrid) Z(c, r int) float64 {
	v := g.h.Data[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (g heatGrid) X(c int) float64 {
	return (g.h.XEdges[c] + g.h.XEdges[c+1]) / 2
}

func (g heatGrid) Y(r int) float64 {
	return (g.h.YEdges[r] + g.h.YEdges[r+1]) / 2
}

// PlotHist2D renders a 2D histogram as a heat map PNG. The color scale is
// clipped at the 99th percentile of the finite cells so a single hot cell
// cannot wash out the map.
func PlotHist2D(h *statistics.Hist2D, title, xLabel, yLabel, fname string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	hm := plotter.NewHeatMap(heatGrid{h}, palette.Heat(16, 1))
	hm.Min, hm.Max = 0, clipMax(h)
	p.Add(hm)

	return p.Save(8*vg.Inch, 6*vg.Inch, fname)
}

func clipMax(h *statistics.Hist2D) float64 {
	vals := []float64{}
	for _, row := range h.Data {
		for _, v := range row {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return 1
	}

	max := mathsort.Percentile(vals, 0.01)
	if max <= 0 {
		return 1
	}
	return max
}
