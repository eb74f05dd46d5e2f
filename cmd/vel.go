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

// VelConfig computes per-halo radial velocity profiles of the gas, taken
// relative to the halo bulk motion. One .npz archive is written per halo.
type VelConfig struct {
	radialBins int64
	rMaxMult   float64
	useMedian  bool
	outStem    string
	savePlots  bool
}

var _ Mode = &VelConfig{}

func (config *VelConfig) ExampleConfig() string {
	return `[vel.config]

# RadialBins is the number of radial bins.
# RadialBins = 50

# RMaxMult is the outer profile radius as a multiple of R200c.
# RMaxMult = 2.0

# Statistic selects the per-bin aggregate: 'mean' with standard deviation
# error bars, or 'median' with 16th/84th percentile error bars.
# Statistic = mean

# OutStem is the prefix of the written archive files,
# <OutStem>_halo_<id>.npz.
# OutStem = vel

# SavePlots also renders a PNG figure per halo.
# SavePlots = false
`
}

func (config *VelConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("vel.config")

	var statistic string
	vars.Int(&config.radialBins, "RadialBins", 50)
	vars.Float(&config.rMaxMult, "RMaxMult", 2.0)
	vars.String(&statistic, "Statistic", "mean")
	vars.String(&config.outStem, "OutStem", "vel")
	vars.Bool(&config.savePlots, "SavePlots", false)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	if err := parse.ReadFlags(flags, vars); err != nil {
		return err
	}

	switch statistic {
	case "mean":
		config.useMedian = false
	case "median":
		config.useMedian = true
	default:
		return fmt.Errorf("The variable 'Statistic' was set to '%s'.",
			statistic)
	}

	return config.validate()
}

func (config *VelConfig) validate() error {
	if config.radialBins < 1 {
		return fmt.Errorf("The variable 'RadialBins' was set to %d.",
			config.radialBins)
	}
	if config.rMaxMult <= 0 {
		return fmt.Errorf("The variable 'RMaxMult' was set to %g.",
			config.rMaxMult)
	}
	if config.outStem == "" {
		return fmt.Errorf("The variable 'OutStem' was set to an empty string.")
	}
	return nil
}

func (config *VelConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
#################
## tngprof vel ##
#################`,
		)
	}
	t := time.Now()

	cat, _, err := parseHaloLines(stdin)
	if err != nil {
		return nil, err
	}

	g, err := readGasData(gConfig, true)
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

	edges := binEdges(int(config.radialBins), [2]float64{0, config.rMaxMult})

	for i := range members {
		pos := make([][3]float64, len(members[i]))
		vel := make([][3]float64, len(members[i]))
		for j, idx := range members[i] {
			pos[j] = g.pos[idx]
			vel[j] = g.vel[idx]
		}

		vr, err := cosmo.RadialVelocities(
			cat.Positions[i], cat.Velocities[i], pos, vel,
		)
		if err != nil {
			return nil, err
		}

		d := cosmo.PeriodicDistances(pos, cat.Positions[i], gConfig.BoxWidth)
		for j := range d {
			d[j] /= cat.Radii[i]
		}

		binIdx := selection.Digitize(d, edges)
		var st *statistics.BinnedStatistic
		if config.useMedian {
			st, err = statistics.BinnedMedians(vr, binIdx,
				int(config.radialBins))
		} else {
			st, err = statistics.BinnedMeans(vr, binIdx,
				int(config.radialBins))
		}
		if err != nil {
			return nil, err
		}

		entries := []io.Entry{
			io.Vector("velocity", st.Values),
			io.Vector("lower", st.Lower),
			io.Vector("upper", st.Upper),
			io.Vector("edges", edges),
			io.Scalar("halo_id", float64(cat.IDs[i])),
			io.Scalar("halo_mass", cat.Masses[i]),
		}

		name := fmt.Sprintf("%s_halo_%d", config.outStem, cat.IDs[i])
		fname := filepath.Join(gConfig.DataDir, name+".npz")
		if err := io.WriteArchive(fname, entries); err != nil {
			return nil, err
		}

		if config.savePlots {
			a := io.Archive{Name: name, Entries: entryMap(entries)}
			if err := renderVelocityArchive(a, gConfig.FigureDir); err != nil {
				return nil, err
			}
		}
	}
	logging.Step(t, fmt.Sprintf("profiled %d halos", cat.Len()))

	return stdin, nil
}
