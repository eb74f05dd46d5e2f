package cmd

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/cpellner/tngprof/cmd/halo"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/parse"
)

// SelectConfig chooses the halos an analysis runs over, either by a mass
// range or by explicit catalog IDs, and writes the halo catalog that the
// downstream modes read from stdin.
type SelectConfig struct {
	minMass, maxMass float64
	ids              []int64
	maxHalos         int64
}

var _ Mode = &SelectConfig{}

func (config *SelectConfig) ExampleConfig() string {
	return `[select.config]

# MinMass and MaxMass give the M200c selection range as log10(M / Msun).
# Halos with MinMass <= log10(M200c) < MaxMass are kept.
# MinMass = 14
# MaxMass = 16

# IDs explicitly names the halos to select instead of using a mass range.
# IDs given here which are missing from the catalog are logged and dropped.
# IDs = 0, 5, 19

# MaxHalos caps the number of selected halos. -1 means no cap.
# MaxHalos = -1
`
}

func (config *SelectConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("select.config")

	vars.Float(&config.minMass, "MinMass", 14)
	vars.Float(&config.maxMass, "MaxMass", 16)
	vars.Ints(&config.ids, "IDs", []int64{})
	vars.Int(&config.maxHalos, "MaxHalos", -1)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	if err := parse.ReadFlags(flags, vars); err != nil {
		return err
	}

	return config.validate()
}

func (config *SelectConfig) validate() error {
	if config.minMass >= config.maxMass {
		return fmt.Errorf("The variable 'MinMass' was set to %g, which is "+
			"not below 'MaxMass' = %g.", config.minMass, config.maxMass)
	}
	if config.maxHalos < -1 {
		return fmt.Errorf("The variable 'MaxHalos' was set to %d.",
			config.maxHalos)
	}
	return nil
}

func (config *SelectConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
####################
## tngprof select ##
####################`,
		)
	}
	t := time.Now()

	logging.Debugf("Snapshot redshift %g, lookback time %.2f Gyr",
		gConfig.Redshift, gConfig.Cosmology().LookbackTime(gConfig.Redshift))

	cat, err := halo.ReadCatalog(gConfig.CatalogDir, gConfig.Fields())
	if err != nil {
		return nil, err
	}
	t = logging.Step(t, "read group catalog")

	if len(config.ids) > 0 {
		cat, err = cat.SelectIDs(config.ids)
		if err != nil {
			return nil, err
		}
	} else {
		cat = cat.SelectMassRange(
			math.Pow(10, config.minMass), math.Pow(10, config.maxMass),
		)
	}

	if config.maxHalos >= 0 && int64(cat.Len()) > config.maxHalos {
		cat = truncateCatalog(cat, int(config.maxHalos))
	}

	if cat.Len() == 0 {
		return nil, fmt.Errorf("The selection matched no halos.")
	}
	logging.Step(t, fmt.Sprintf("selected %d halos", cat.Len()))

	return formatHaloLines(cat, cat.VirialTemperatures()), nil
}

func truncateCatalog(c *halo.Catalog, n int) *halo.Catalog {
	return &halo.Catalog{
		IDs:        c.IDs[:n],
		Masses:     c.Masses[:n],
		Radii:      c.Radii[:n],
		Positions:  c.Positions[:n],
		Velocities: c.Velocities[:n],
	}
}
