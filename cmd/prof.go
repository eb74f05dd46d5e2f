package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/cpellner/tngprof/cmd/halo"
	"github.com/cpellner/tngprof/cosmo"
	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/parse"
	"github.com/cpellner/tngprof/selection"
	"github.com/cpellner/tngprof/statistics"
)

type profileType int

const (
	temperatureProfile profileType = iota
	densityProfile
	velocityProfile
)

// The cool/warm/hot gas regimes split at these log10 temperatures.
var regimeEdges = []float64{4.5, 5.5}

var regimeNames = []string{"cool", "warm", "hot"}

func parseProfileType(s string, allowVelocity bool) (profileType, error) {
	switch s {
	case "temperature":
		return temperatureProfile, nil
	case "density":
		return densityProfile, nil
	case "velocity":
		if allowVelocity {
			return velocityProfile, nil
		}
	}
	return 0, fmt.Errorf("The variable 'ProfileType' was set to '%s'.", s)
}

func (p profileType) String() string {
	switch p {
	case temperatureProfile:
		return "temperature"
	case densityProfile:
		return "density"
	case velocityProfile:
		return "velocity"
	}
	return fmt.Sprintf("profileType(%d)", int(p))
}

// defaultStem is the archive name stem the mode producing the given
// profile type writes by default.
func defaultStem(p profileType) string {
	if p == velocityProfile {
		return "vel"
	}
	return "prof"
}

func archiveShapes(p profileType) map[string][]int {
	switch p {
	case temperatureProfile:
		return temperatureArchiveShapes()
	case densityProfile:
		return densityArchiveShapes()
	}
	return velocityArchiveShapes()
}

// ProfConfig computes per-halo radial gas profiles: either a 2D
// radius-temperature histogram or volume-normalized density profiles split
// by temperature regime. One .npz archive is written per halo.
type ProfConfig struct {
	pType profileType

	radialBins, temperatureBins int64
	rMaxMult                    float64
	tempMin, tempMax            float64
	norm                        statistics.Normalization

	outStem   string
	savePlots bool
}

var _ Mode = &ProfConfig{}

func (config *ProfConfig) ExampleConfig() string {
	return `[prof.config]

#####################
## Required Fields ##
#####################

# ProfileType determines what is computed for every halo.
# Known profile types are:
# temperature - a 2D histogram of gas mass over radius and temperature,
#               normalized within each radial column.
# density -     volume-normalized radial density profiles of the total,
#               cool, warm and hot gas.
ProfileType = temperature

#####################
## Optional Fields ##
#####################

# RadialBins is the number of radial bins.
# RadialBins = 50

# TemperatureBins is the number of log-temperature bins of the 2D
# histogram. Only used when ProfileType = temperature.
# TemperatureBins = 50

# RMaxMult is the outer profile radius as a multiple of R200c.
# RMaxMult = 2.0

# TempMin and TempMax bound the temperature axis, as log10(T / K).
# TempMin = 3.0
# TempMax = 8.5

# Normalization sets how each radial column of the 2D histogram is scaled:
# 'density' divides by the column sum, 'range' by the column maximum.
# Normalization = density

# OutStem is the prefix of the written archive files,
# <OutStem>_halo_<id>.npz.
# OutStem = prof

# SavePlots also renders a PNG figure per halo.
# SavePlots = false
`
}

func (config *ProfConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("prof.config")

	var pType, norm string
	vars.String(&pType, "ProfileType", "")
	vars.Int(&config.radialBins, "RadialBins", 50)
	vars.Int(&config.temperatureBins, "TemperatureBins", 50)
	vars.Float(&config.rMaxMult, "RMaxMult", 2.0)
	vars.Float(&config.tempMin, "TempMin", 3.0)
	vars.Float(&config.tempMax, "TempMax", 8.5)
	vars.String(&norm, "Normalization", "density")
	vars.String(&config.outStem, "OutStem", "prof")
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
	if config.pType, err = parseProfileType(pType, false); err != nil {
		return err
	}
	if config.norm, err = statistics.ParseNormalization(norm); err != nil {
		return err
	}

	return config.validate()
}

func (config *ProfConfig) validate() error {
	if config.radialBins < 1 {
		return fmt.Errorf("The variable 'RadialBins' was set to %d.",
			config.radialBins)
	}
	if config.temperatureBins < 1 {
		return fmt.Errorf("The variable 'TemperatureBins' was set to %d.",
			config.temperatureBins)
	}
	if config.rMaxMult <= 0 {
		return fmt.Errorf("The variable 'RMaxMult' was set to %g.",
			config.rMaxMult)
	}
	if config.tempMin >= config.tempMax {
		return fmt.Errorf("The variable 'TempMin' was set to %g, which is "+
			"not below 'TempMax' = %g.", config.tempMin, config.tempMax)
	}
	if config.outStem == "" {
		return fmt.Errorf("The variable 'OutStem' was set to an empty string.")
	}
	return nil
}

func (config *ProfConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
##################
## tngprof prof ##
##################`,
		)
	}
	t := time.Now()

	cat, tvir, err := parseHaloLines(stdin)
	if err != nil {
		return nil, err
	}

	g, err := readGasData(gConfig, false)
	if err != nil {
		return nil, err
	}
	t = logging.Step(t, "read gas snapshot")

	tree := halo.NewParticleTree(g.pos)
	t = logging.Step(t, "built particle tree")

	radii := make([]float64, cat.Len())
	for i := range radii {
		radii[i] = cat.Radii[i] * config.rMaxMult
	}
	members := tree.QueryHalos(cat.Positions, radii, gConfig.Workers)
	t = logging.Step(t, "queried halo members")

	for i := range members {
		entries, err := config.haloEntries(gConfig, g, cat, tvir, members[i], i)
		if err != nil {
			return nil, err
		}

		name := fmt.Sprintf("%s_halo_%d", config.outStem, cat.IDs[i])
		fname := filepath.Join(gConfig.DataDir, name+".npz")
		if err := io.WriteArchive(fname, entries); err != nil {
			return nil, err
		}

		if config.savePlots {
			a := io.Archive{Name: name, Entries: entryMap(entries)}
			if config.pType == temperatureProfile {
				err = renderTemperatureArchive(a, gConfig.FigureDir)
			} else {
				err = renderDensityArchive(a, gConfig.FigureDir)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	logging.Step(t, fmt.Sprintf("profiled %d halos", cat.Len()))

	return stdin, nil
}

// haloEntries computes the archive contents for a single halo.
func (config *ProfConfig) haloEntries(
	gConfig *GlobalConfig, g *gasData,
	cat *halo.Catalog, tvir []float64, member []int, i int,
) ([]io.Entry, error) {
	pos := make([][3]float64, len(member))
	masses := make([]float64, len(member))
	temps := make([]float64, len(member))
	for j, idx := range member {
		pos[j] = g.pos[idx]
		masses[j] = g.masses[idx]
		temps[j] = g.temps[idx]
	}

	d := cosmo.PeriodicDistances(pos, cat.Positions[i], gConfig.BoxWidth)
	for j := range d {
		d[j] /= cat.Radii[i]
	}

	if config.pType == temperatureProfile {
		return config.temperatureEntries(d, masses, temps, cat, tvir, i)
	}
	return config.densityEntries(d, masses, temps, cat, i)
}

func (config *ProfConfig) temperatureEntries(
	d, masses, temps []float64,
	cat *halo.Catalog, tvir []float64, i int,
) ([]io.Entry, error) {
	var mTot float64
	for _, m := range masses {
		mTot += m
	}
	weights := make([]float64, len(masses))
	for j := range weights {
		weights[j] = masses[j] / mTot
	}

	nx, ny := int(config.radialBins), int(config.temperatureBins)
	xRange := [2]float64{0, config.rMaxMult}
	yRange := [2]float64{config.tempMin, config.tempMax}
	logT := log10All(temps)

	h, err := statistics.ColumnNormalizedHist2D(
		d, logT, weights, nx, ny, xRange, yRange, config.norm,
	)
	if err != nil {
		return nil, err
	}
	counts, err := statistics.Hist2DCounts(
		d, logT, weights, nx, ny, xRange, yRange,
	)
	if err != nil {
		return nil, err
	}

	return []io.Entry{
		io.Matrix("histogram", h.Data),
		io.Matrix("original_histogram", counts.Data),
		io.Vector("xedges", h.XEdges),
		io.Vector("yedges", h.YEdges),
		io.Scalar("halo_id", float64(cat.IDs[i])),
		io.Scalar("halo_mass", cat.Masses[i]),
		io.Scalar("virial_temperature", tvir[i]),
	}, nil
}

func (config *ProfConfig) densityEntries(
	d, masses, temps []float64, cat *halo.Catalog, i int,
) ([]io.Entry, error) {
	rRange := [2]float64{0, config.rMaxMult}
	nBins := int(config.radialBins)

	total, edges, err := statistics.VolumeNormalizedProfile(
		d, masses, nBins, cat.Radii[i], rRange,
	)
	if err != nil {
		return nil, err
	}

	entries := []io.Entry{io.Vector("total_histogram", total)}

	regime := selection.Digitize(log10All(temps), regimeEdges)
	for k, name := range regimeNames {
		prof, _, err := statistics.VolumeNormalizedProfile(
			selection.Masked(d, regime, k),
			selection.Masked(masses, regime, k),
			nBins, cat.Radii[i], rRange,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, io.Vector(name+"_histogram", prof))
	}

	return append(entries,
		io.Vector("edges", edges),
		io.Scalar("halo_id", float64(cat.IDs[i])),
		io.Scalar("halo_mass", cat.Masses[i]),
	), nil
}

func entryMap(entries []io.Entry) map[string]io.Entry {
	out := map[string]io.Entry{}
	for _, e := range entries {
		out[e.Name] = e
	}
	return out
}
