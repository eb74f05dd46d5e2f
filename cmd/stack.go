package cmd

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/cpellner/tngprof/cmd/catalog"
	"github.com/cpellner/tngprof/cosmo"
	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/parse"
	"github.com/cpellner/tngprof/render"
	"github.com/cpellner/tngprof/selection"
	"github.com/cpellner/tngprof/statistics"
	"gonum.org/v1/gonum/stat"
)

// StackConfig aggregates the per-halo archives of a previous prof or vel
// run into mass-binned stacks, writing one archive per cluster mass bin
// and a summary table to stdout. Only archives whose halo appears in the
// catalog read from stdin take part.
type StackConfig struct {
	pType profileType

	stem      string
	massEdges []float64
	outStem   string
	savePlots bool
}

var _ Mode = &StackConfig{}

func (config *StackConfig) ExampleConfig() string {
	return `[stack.config]

#####################
## Required Fields ##
#####################

# ProfileType names the kind of per-halo archives to stack: 'temperature',
# 'density' or 'velocity'.
ProfileType = temperature

#####################
## Optional Fields ##
#####################

# Stem is the archive name prefix of the run being stacked. It defaults to
# the default OutStem of the mode that produces the profile type: 'prof'
# for temperature and density, 'vel' for velocity.
# Stem = prof

# MassEdges are the cluster mass bin edges as log10(M / Msun). Halos above
# the last edge land in the highest bin. The default is 0.2 dex bins from
# 10^14.0 to 10^15.4 Msun.
# MassEdges = 14.0, 14.2, 14.4, 14.6, 14.8, 15.0, 15.2, 15.4

# OutStem is the prefix of the written stack archives,
# <OutStem>_<ProfileType>_bin_<i>.npz.
# OutStem = stack

# SavePlots also renders a PNG figure per mass bin.
# SavePlots = false
`
}

func (config *StackConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("stack.config")

	var pType string
	vars.String(&pType, "ProfileType", "")
	vars.String(&config.stem, "Stem", "")
	vars.Floats(&config.massEdges, "MassEdges", []float64{})
	vars.String(&config.outStem, "OutStem", "stack")
	vars.Bool(&config.savePlots, "SavePlots", false)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	if err := parse.ReadFlags(flags, vars); err != nil {
		return err
	}

	if pType == "" {
		return fmt.Errorf("The variable 'ProfileType' was not set.")
	}
	var err error
	if config.pType, err = parseProfileType(pType, true); err != nil {
		return err
	}
	if config.stem == "" {
		config.stem = defaultStem(config.pType)
	}

	return config.validate()
}

func (config *StackConfig) validate() error {
	for i := 1; i < len(config.massEdges); i++ {
		if config.massEdges[i] <= config.massEdges[i-1] {
			return fmt.Errorf("The variable 'MassEdges' was set to a "+
				"non-increasing sequence: %g is followed by %g.",
				config.massEdges[i-1], config.massEdges[i])
		}
	}
	if len(config.massEdges) == 1 {
		return fmt.Errorf("The variable 'MassEdges' needs at least two " +
			"edges.")
	}
	if config.outStem == "" {
		return fmt.Errorf("The variable 'OutStem' was set to an empty string.")
	}
	return nil
}

// binEdgesMsun returns the mass bin edges in solar masses.
func (config *StackConfig) binEdgesMsun() []float64 {
	if len(config.massEdges) == 0 {
		return selection.DefaultClusterEdges
	}
	edges := make([]float64, len(config.massEdges))
	for i, e := range config.massEdges {
		edges[i] = math.Pow(10, e)
	}
	return edges
}

func (config *StackConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
###################
## tngprof stack ##
###################`,
		)
	}
	t := time.Now()

	cat, _, err := parseHaloLines(stdin)
	if err != nil {
		return nil, err
	}

	archives, err := io.ReadArchiveDir(
		gConfig.DataDir, config.stem+"_halo_",
		archiveShapes(config.pType), false,
	)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("No archives in %s match the stem '%s'.",
			gConfig.DataDir, config.stem)
	}
	t = logging.Step(t, fmt.Sprintf("read %d archives", len(archives)))

	archIDs := make([]int64, len(archives))
	for i, a := range archives {
		archIDs[i] = int64(a.Entries["halo_id"].Value())
	}
	idx, err := selection.SelectIfIn(archIDs, cat.IDs, selection.Iterate)
	if err != nil {
		return nil, err
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("None of the archived halos appear in the " +
			"input catalog.")
	}

	kept := make([]io.Archive, len(idx))
	masses := make([]float64, len(idx))
	for i, j := range idx {
		kept[i] = archives[j]
		masses[i] = archives[j].Entries["halo_mass"].Value()
	}

	edges := config.binEdgesMsun()
	binIdx := selection.DigitizeClusters(masses, edges)
	nBins := len(edges) - 1

	switch config.pType {
	case temperatureProfile:
		err = config.stackTemperature(gConfig, kept, binIdx, nBins, edges)
	case densityProfile:
		err = config.stackDensity(gConfig, kept, binIdx, nBins, edges)
	case velocityProfile:
		err = config.stackVelocity(gConfig, kept, binIdx, nBins, edges)
	}
	if err != nil {
		return nil, err
	}
	logging.Step(t, fmt.Sprintf("stacked %d halos into %d mass bins",
		len(kept), nBins))

	return summaryLines(masses, binIdx, nBins), nil
}

func (config *StackConfig) stackTemperature(
	gConfig *GlobalConfig, kept []io.Archive,
	binIdx []int, nBins int, edges []float64,
) error {
	hists := make([][][]float64, len(kept))
	for i, a := range kept {
		rows, err := a.Entries["histogram"].Rows()
		if err != nil {
			return err
		}
		hists[i] = rows
	}

	means, err := statistics.Stack2DHistograms(hists, binIdx, nBins)
	if err != nil {
		return err
	}

	xedges := kept[0].Entries["xedges"].Data
	yedges := kept[0].Entries["yedges"].Data
	yRange := [2]float64{yedges[0], yedges[len(yedges)-1]}

	for b := 1; b <= nBins; b++ {
		n := binCount(binIdx, b)
		if n == 0 {
			continue
		}

		mean := means[b-1]
		entries := []io.Entry{
			io.Matrix("histogram", mean),
			io.Vector("running_average",
				statistics.RunningAverage(mean, yRange)),
			io.Vector("xedges", xedges),
			io.Vector("yedges", yedges),
			io.Scalar("halo_count", float64(n)),
			io.Scalar("mass_low", edges[b-1]),
			io.Scalar("mass_high", edges[b]),
		}

		name := fmt.Sprintf("%s_temperature_bin_%d", config.outStem, b)
		fname := filepath.Join(gConfig.DataDir, name+".npz")
		if err := io.WriteArchive(fname, entries); err != nil {
			return err
		}

		if config.savePlots {
			h := &statistics.Hist2D{XEdges: xedges, YEdges: yedges, Data: mean}
			err := render.PlotHist2D(h, massBinTitle(b, edges, n),
				"r / R200c", "log10 T [K]",
				filepath.Join(gConfig.FigureDir, name+".png"))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (config *StackConfig) stackDensity(
	gConfig *GlobalConfig, kept []io.Archive,
	binIdx []int, nBins int, edges []float64,
) error {
	entryNames := append([]string{"total"}, regimeNames...)
	rhoCrit := rhoCritical(gConfig)

	stacks := map[string]*statistics.HistogramStack{}
	for _, name := range entryNames {
		hists := make([][]float64, len(kept))
		for i, a := range kept {
			hists[i] = a.Entries[name+"_histogram"].Data
		}
		st, err := statistics.StackHistograms(hists, binIdx, nBins)
		if err != nil {
			return err
		}
		stacks[name] = st
	}

	rEdges := kept[0].Entries["edges"].Data

	for b := 1; b <= nBins; b++ {
		n := binCount(binIdx, b)
		if n == 0 {
			continue
		}

		entries := []io.Entry{}
		for _, name := range entryNames {
			st := stacks[name]
			entries = append(entries,
				io.Vector(name+"_mean", st.Mean[b-1]),
				io.Vector(name+"_median", st.Median[b-1]),
				io.Vector(name+"_lower", st.Lower[b-1]),
				io.Vector(name+"_upper", st.Upper[b-1]),
			)
		}
		entries = append(entries,
			io.Vector("edges", rEdges),
			io.Scalar("halo_count", float64(n)),
			io.Scalar("mass_low", edges[b-1]),
			io.Scalar("mass_high", edges[b]),
			io.Scalar("rho_critical", rhoCrit),
		)

		name := fmt.Sprintf("%s_density_bin_%d", config.outStem, b)
		fname := filepath.Join(gConfig.DataDir, name+".npz")
		if err := io.WriteArchive(fname, entries); err != nil {
			return err
		}

		if config.savePlots {
			lines := make([]render.Line, len(entryNames))
			for k, entryName := range entryNames {
				lines[k] = render.Line{
					Label:  entryName,
					Values: overdensity(stacks[entryName].Median[b-1], rhoCrit),
				}
			}
			err := render.PlotProfiles(rEdges, lines,
				massBinTitle(b, edges, n), "r / R200c", "density / rho_crit",
				true, filepath.Join(gConfig.FigureDir, name+".png"))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (config *StackConfig) stackVelocity(
	gConfig *GlobalConfig, kept []io.Archive,
	binIdx []int, nBins int, edges []float64,
) error {
	hists := make([][]float64, len(kept))
	for i, a := range kept {
		hists[i] = a.Entries["velocity"].Data
	}
	st, err := statistics.StackHistograms(hists, binIdx, nBins)
	if err != nil {
		return err
	}

	rEdges := kept[0].Entries["edges"].Data

	for b := 1; b <= nBins; b++ {
		n := binCount(binIdx, b)
		if n == 0 {
			continue
		}

		entries := []io.Entry{
			io.Vector("mean", st.Mean[b-1]),
			io.Vector("median", st.Median[b-1]),
			io.Vector("lower", st.Lower[b-1]),
			io.Vector("upper", st.Upper[b-1]),
			io.Vector("edges", rEdges),
			io.Scalar("halo_count", float64(n)),
			io.Scalar("mass_low", edges[b-1]),
			io.Scalar("mass_high", edges[b]),
		}

		name := fmt.Sprintf("%s_velocity_bin_%d", config.outStem, b)
		fname := filepath.Join(gConfig.DataDir, name+".npz")
		if err := io.WriteArchive(fname, entries); err != nil {
			return err
		}

		if config.savePlots {
			// The stack's lower and upper are percentile values: convert to
			// error bar lengths around the median.
			plotted := &statistics.BinnedStatistic{
				Values: st.Median[b-1],
				Lower:  make([]float64, len(st.Median[b-1])),
				Upper:  make([]float64, len(st.Median[b-1])),
			}
			for j := range plotted.Values {
				plotted.Lower[j] = st.Median[b-1][j] - st.Lower[b-1][j]
				plotted.Upper[j] = st.Upper[b-1][j] - st.Median[b-1][j]
			}

			err := render.PlotBinnedStatistic(rEdges, plotted,
				massBinTitle(b, edges, n), "r / R200c", "v_r [km/s]",
				filepath.Join(gConfig.FigureDir, name+".png"))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// rhoCritical is the critical density at the snapshot redshift in
// Msun / kpc^3, the units of the stacked density profiles.
// cosmo.RhoCritical returns Msun/h / (Mpc/h)^3, so the h factors are
// folded back in and the volume rescaled.
func rhoCritical(gConfig *GlobalConfig) float64 {
	h100 := gConfig.H0 / 100
	rho := cosmo.RhoCritical(
		gConfig.H0, gConfig.OmegaM, gConfig.OmegaL, gConfig.Redshift)
	return rho * h100 * h100 / 1e9
}

func overdensity(xs []float64, rhoCrit float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x / rhoCrit
	}
	return out
}

func binCount(binIdx []int, b int) int {
	n := 0
	for _, idx := range binIdx {
		if idx == b {
			n++
		}
	}
	return n
}

func massBinTitle(b int, edges []float64, n int) string {
	return fmt.Sprintf("log10 M200c in [%.1f, %.1f), %d halos",
		math.Log10(edges[b-1]), math.Log10(edges[b]), n)
}

// summaryLines formats the per-mass-bin summary table written to stdout.
func summaryLines(masses []float64, binIdx []int, nBins int) []string {
	bins, counts := []int64{}, []int64{}
	meanMasses := []float64{}
	for b := 1; b <= nBins; b++ {
		xs := []float64{}
		for i, idx := range binIdx {
			if idx == b {
				xs = append(xs, masses[i])
			}
		}
		if len(xs) == 0 {
			continue
		}

		bins = append(bins, int64(b))
		counts = append(counts, int64(len(xs)))
		meanMasses = append(meanMasses, stat.Mean(xs, nil))
	}

	lines := []string{catalog.CommentString(
		[]string{"Bin", "Halos"}, []string{"MeanM200c"},
		[]int{0, 1, 2}, []int{1, 1, 1},
	)}
	return append(lines, catalog.FormatCols(
		[][]int64{bins, counts}, [][]float64{meanMasses}, []int{0, 1, 2},
	)...)
}
