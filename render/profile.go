package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cpellner/tngprof/statistics"
)

// Line is one labeled curve of a profile plot, with one value per bin.
// A nil Color picks from the default cycle.
type Line struct {
	Label  string
	Values []float64
	Color  color.Color
}

var defaultColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

// PlotProfiles draws one curve per Line at the centers of the shared bin
// edges and saves a PNG. When logY is set the values are plotted as log10,
// dropping non-positive bins.
func PlotProfiles(
	edges []float64, lines []Line,
	title, xLabel, yLabel string, logY bool, fname string,
) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	for k, ln := range lines {
		xys := plotter.XYs{}
		for i, v := range ln.Values {
			if math.IsNaN(v) {
				continue
			}
			y := v
			if logY {
				if v <= 0 {
					continue
				}
				y = math.Log10(v)
			}
			xys = append(xys, plotter.XY{X: center(edges, i), Y: y})
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Width = vg.Points(1)
		l.Color = ln.Color
		if l.Color == nil {
			l.Color = defaultColors[k%len(defaultColors)]
		}

		p.Add(l)
		p.Legend.Add(ln.Label, l)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(8*vg.Inch, 6*vg.Inch, fname)
}

// errPoints feeds a BinnedStatistic to plotter.NewYErrorBars.
type errPoints struct {
	xs, ys, lo, hi []float64
}

func (e errPoints) Len() int                      { return len(e.xs) }
func (e errPoints) XY(i int) (float64, float64)   { return e.xs[i], e.ys[i] }
func (e errPoints) YError(i int) (float64, float64) { return e.lo[i], e.hi[i] }

// PlotBinnedStatistic draws a binned statistic at the bin centers with its
// asymmetric error bars. NaN bins are skipped.
func PlotBinnedStatistic(
	edges []float64, st *statistics.BinnedStatistic,
	title, xLabel, yLabel, fname string,
) error {
	pts := errPoints{}
	for i, v := range st.Values {
		if math.IsNaN(v) {
			continue
		}
		pts.xs = append(pts.xs, center(edges, i))
		pts.ys = append(pts.ys, v)
		pts.lo = append(pts.lo, st.Lower[i])
		pts.hi = append(pts.hi, st.Upper[i])
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	xys := plotter.XYs{}
	for i := range pts.xs {
		xys = append(xys, plotter.XY{X: pts.xs[i], Y: pts.ys[i]})
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.Color = defaultColors[0]
	points.Color = defaultColors[0]

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	bars.Color = defaultColors[0]

	p.Add(line, points, bars)

	return p.Save(8*vg.Inch, 6*vg.Inch, fname)
}

func center(edges []float64, i int) float64 {
	if i+1 < len(edges) {
		return (edges[i] + edges[i+1]) / 2
	}
	// More values than edges: fall back to the bin index.
	return float64(i)
}
