package render

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// GalleryItem is one chart of the HTML gallery: a set of curves over a
// shared x axis, typically one per-halo or per-mass-bin profile.
type GalleryItem struct {
	Title  string
	XLabel string
	X      []float64
	Lines  []Line
}

// WriteGallery renders the items into a single scrollable HTML page, one
// interactive chart per item.
func WriteGallery(fname, title string, items []GalleryItem) error {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)

	for _, item := range items {
		chart := charts.NewLine()
		chart.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: item.Title}),
			charts.WithXAxisOpts(opts.XAxis{Name: item.XLabel}),
		)

		xs := make([]string, len(item.X))
		for i, x := range item.X {
			xs[i] = fmt.Sprintf("%.3g", x)
		}
		chart.SetXAxis(xs)

		for _, ln := range item.Lines {
			data := make([]opts.LineData, len(ln.Values))
			for i, v := range ln.Values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					data[i] = opts.LineData{Value: nil}
				} else {
					data[i] = opts.LineData{Value: v}
				}
			}
			chart.AddSeries(ln.Label, data)
		}

		page.AddCharts(chart)
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
