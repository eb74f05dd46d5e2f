package cmd

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/cpellner/tngprof/cmd/catalog"
	"github.com/cpellner/tngprof/cmd/halo"
	"github.com/cpellner/tngprof/cosmo"
	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/render"
	"github.com/cpellner/tngprof/statistics"
)

// The halo catalog piped between modes always carries these columns.
var (
	haloIntNames   = []string{"ID"}
	haloFloatNames = []string{
		"M200c", "R200c", "TVir", "X", "Y", "Z", "VX", "VY", "VZ",
	}
	haloColOrder = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	haloColSizes = []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
)

// formatHaloLines renders a halo catalog, plus its virial temperatures,
// into the text format piped between modes.
func formatHaloLines(c *halo.Catalog, tvir []float64) []string {
	n := c.Len()
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	vxs, vys, vzs := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i], zs[i] = c.Positions[i][0], c.Positions[i][1],
			c.Positions[i][2]
		vxs[i], vys[i], vzs[i] = c.Velocities[i][0], c.Velocities[i][1],
			c.Velocities[i][2]
	}

	lines := []string{catalog.CommentString(
		haloIntNames, haloFloatNames, haloColOrder, haloColSizes)}
	lines = append(lines, catalog.FormatCols(
		[][]int64{c.IDs},
		[][]float64{c.Masses, c.Radii, tvir, xs, ys, zs, vxs, vys, vzs},
		haloColOrder,
	)...)
	return lines
}

// parseHaloLines parses the text catalog back into a halo.Catalog and the
// virial temperature column.
func parseHaloLines(lines []string) (*halo.Catalog, []float64, error) {
	icols, fcols, err := catalog.ParseLines(lines, []int{0},
		[]int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if err != nil {
		return nil, nil, err
	}

	n := len(icols[0])
	if n == 0 {
		return nil, nil, fmt.Errorf("The input halo catalog is empty.")
	}

	c := &halo.Catalog{
		IDs:        icols[0],
		Masses:     fcols[0],
		Radii:      fcols[1],
		Positions:  make([][3]float64, n),
		Velocities: make([][3]float64, n),
	}
	for i := 0; i < n; i++ {
		c.Positions[i] = [3]float64{fcols[3][i], fcols[4][i], fcols[5][i]}
		c.Velocities[i] = [3]float64{fcols[6][i], fcols[7][i], fcols[8][i]}
	}
	return c, fcols[2], nil
}

// gasData bundles the per-particle arrays the prof and vel modes read.
type gasData struct {
	pos    [][3]float64
	masses []float64
	temps  []float64
	vel    [][3]float64
}

// readGasData loads the gas snapshot and derives the cell temperatures.
func readGasData(gConfig *GlobalConfig, needVel bool) (*gasData, error) {
	r := io.NewSnapshotReader(gConfig.SnapshotDir)

	pos, err := r.Vector("Coordinates")
	if err != nil {
		return nil, err
	}
	masses, err := r.Scalar("Masses")
	if err != nil {
		return nil, err
	}
	u, err := r.Scalar("InternalEnergy")
	if err != nil {
		return nil, err
	}
	xe, err := r.Scalar("ElectronAbundance")
	if err != nil {
		return nil, err
	}
	sfr, err := r.Scalar("StarFormationRate")
	if err != nil {
		return nil, err
	}

	if len(pos) != len(masses) {
		return nil, fmt.Errorf("The snapshot in %s has %d positions, but "+
			"%d masses.", gConfig.SnapshotDir, len(pos), len(masses))
	}

	temps, err := cosmo.GasTemperatures(u, xe, sfr)
	if err != nil {
		return nil, err
	}

	g := &gasData{pos: pos, masses: masses, temps: temps}
	if needVel {
		if g.vel, err = r.Vector("Velocities"); err != nil {
			return nil, err
		}
		if len(g.vel) != len(pos) {
			return nil, fmt.Errorf("The snapshot in %s has %d positions, "+
				"but %d velocities.", gConfig.SnapshotDir, len(pos),
				len(g.vel))
		}
	}
	return g, nil
}

// binEdges returns n+1 evenly spaced edges over r.
func binEdges(n int, r [2]float64) []float64 {
	edges := make([]float64, n+1)
	dx := (r[1] - r[0]) / float64(n)
	for i := range edges {
		edges[i] = r[0] + dx*float64(i)
	}
	edges[n] = r[1]
	return edges
}

func log10All(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Log10(x)
	}
	return out
}

// Expected entry shapes of the three per-halo archive layouts. The bin
// counts are wildcards so replotting does not need the original mode
// config.

func temperatureArchiveShapes() map[string][]int {
	return map[string][]int{
		"histogram":          {-1, -1},
		"original_histogram": {-1, -1},
		"xedges":             {-1},
		"yedges":             {-1},
		"halo_id":            {1},
		"halo_mass":          {1},
		"virial_temperature": {1},
	}
}

func densityArchiveShapes() map[string][]int {
	return map[string][]int{
		"total_histogram": {-1},
		"cool_histogram":  {-1},
		"warm_histogram":  {-1},
		"hot_histogram":   {-1},
		"edges":           {-1},
		"halo_id":         {1},
		"halo_mass":       {1},
	}
}

func velocityArchiveShapes() map[string][]int {
	return map[string][]int{
		"velocity":  {-1},
		"lower":     {-1},
		"upper":     {-1},
		"edges":     {-1},
		"halo_id":   {1},
		"halo_mass": {1},
	}
}

// renderTemperatureArchive redraws the temperature-radius heat map of one
// per-halo archive.
func renderTemperatureArchive(a io.Archive, figDir string) error {
	rows, err := a.Entries["histogram"].Rows()
	if err != nil {
		return err
	}
	h := &statistics.Hist2D{
		XEdges: a.Entries["xedges"].Data,
		YEdges: a.Entries["yedges"].Data,
		Data:   rows,
	}

	title := fmt.Sprintf("Halo %d temperature distribution",
		int64(a.Entries["halo_id"].Value()))
	return render.PlotHist2D(h, title, "r / R200c", "log10 T [K]",
		filepath.Join(figDir, a.Name+".png"))
}

// renderDensityArchive redraws the split density profiles of one per-halo
// archive.
func renderDensityArchive(a io.Archive, figDir string) error {
	lines := []render.Line{
		{Label: "total", Values: a.Entries["total_histogram"].Data},
		{Label: "cool", Values: a.Entries["cool_histogram"].Data},
		{Label: "warm", Values: a.Entries["warm_histogram"].Data},
		{Label: "hot", Values: a.Entries["hot_histogram"].Data},
	}

	title := fmt.Sprintf("Halo %d gas density",
		int64(a.Entries["halo_id"].Value()))
	return render.PlotProfiles(a.Entries["edges"].Data, lines, title,
		"r / R200c", "log10 density", true,
		filepath.Join(figDir, a.Name+".png"))
}

// renderVelocityArchive redraws the radial velocity profile of one
// per-halo archive.
func renderVelocityArchive(a io.Archive, figDir string) error {
	st := &statistics.BinnedStatistic{
		Values: a.Entries["velocity"].Data,
		Lower:  a.Entries["lower"].Data,
		Upper:  a.Entries["upper"].Data,
	}

	title := fmt.Sprintf("Halo %d radial velocity",
		int64(a.Entries["halo_id"].Value()))
	return render.PlotBinnedStatistic(a.Entries["edges"].Data, st, title,
		"r / R200c", "v_r [km/s]", filepath.Join(figDir, a.Name+".png"))
}
