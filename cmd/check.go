package cmd

import (
	"fmt"
	"log"
	"math"

	"github.com/cpellner/tngprof/cmd/halo"
	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/parse"
)

// CheckConfig compares the global configuration and the on-disk simulation
// data against user-supplied expectations. Every variable is optional, so
// an empty config file checks nothing but that the data can be read.
type CheckConfig struct {
	h0, omegaM, omegaL float64
	boxWidth           float64
	lookbackGyr        float64
	haloCount          int64
	particleCount      int64
}

var _ Mode = &CheckConfig{}

func (config *CheckConfig) ExampleConfig() string {
	return `[check.config]

# All variables are optional. Every variable which is set is compared
# against the global configuration or against the data on disk, and the
# mode fails if any comparison fails.

# Cosmological parameters the global config must match.
# H0 = 67.74
# OmegaM = 0.3089
# OmegaL = 0.6911

# Box width the global config must match.
# BoxWidth = 205000.0

# Lookback time in Gyr at the configured redshift, computed from the
# configured cosmology and compared to within 0.01 Gyr.
# LookbackGyr = 0.0

# Number of halos the group catalog must contain.
# HaloCount = 600000

# Number of gas cells the snapshot must contain.
# ParticleCount = 15000000
`
}

func (config *CheckConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("check.config")

	vars.Float(&config.h0, "H0", math.NaN())
	vars.Float(&config.omegaM, "OmegaM", math.NaN())
	vars.Float(&config.omegaL, "OmegaL", math.NaN())
	vars.Float(&config.boxWidth, "BoxWidth", math.NaN())
	vars.Float(&config.lookbackGyr, "LookbackGyr", math.NaN())
	vars.Int(&config.haloCount, "HaloCount", -1)
	vars.Int(&config.particleCount, "ParticleCount", -1)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	return parse.ReadFlags(flags, vars)
}

func (config *CheckConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
###################
## tngprof check ##
###################`,
		)
	}

	lines, failed := []string{}, 0
	check := func(desc string, ok bool) {
		if ok {
			lines = append(lines, "passed: "+desc)
		} else {
			lines = append(lines, "FAILED: "+desc)
			failed++
		}
	}

	if !math.IsNaN(config.h0) {
		check(fmt.Sprintf("h0 = %g (config has %g)",
			config.h0, gConfig.H0), config.h0 == gConfig.H0)
	}
	if !math.IsNaN(config.omegaM) {
		check(fmt.Sprintf("omega_m = %g (config has %g)",
			config.omegaM, gConfig.OmegaM), config.omegaM == gConfig.OmegaM)
	}
	if !math.IsNaN(config.omegaL) {
		check(fmt.Sprintf("omega_l = %g (config has %g)",
			config.omegaL, gConfig.OmegaL), config.omegaL == gConfig.OmegaL)
	}
	if !math.IsNaN(config.boxWidth) {
		check(fmt.Sprintf("box_width = %g (config has %g)",
			config.boxWidth, gConfig.BoxWidth),
			config.boxWidth == gConfig.BoxWidth)
	}

	if !math.IsNaN(config.lookbackGyr) {
		tl := gConfig.Cosmology().LookbackTime(gConfig.Redshift)
		check(fmt.Sprintf("lookback time at z = %g is %.2f Gyr (found %.2f)",
			gConfig.Redshift, config.lookbackGyr, tl),
			math.Abs(tl-config.lookbackGyr) < 0.01)
	}

	if config.haloCount >= 0 {
		cat, err := halo.ReadCatalog(gConfig.CatalogDir, gConfig.Fields())
		if err != nil {
			return nil, err
		}
		check(fmt.Sprintf("catalog has %d halos (found %d)",
			config.haloCount, cat.Len()),
			config.haloCount == int64(cat.Len()))
	}

	if config.particleCount >= 0 {
		r := io.NewSnapshotReader(gConfig.SnapshotDir)
		masses, err := r.Scalar("Masses")
		if err != nil {
			return nil, err
		}
		check(fmt.Sprintf("snapshot has %d gas cells (found %d)",
			config.particleCount, len(masses)),
			config.particleCount == int64(len(masses)))
	}

	if failed > 0 {
		return lines, fmt.Errorf("%d of %d checks failed.",
			failed, len(lines))
	}
	return lines, nil
}
