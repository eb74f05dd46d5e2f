package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/parse"
)

// ReplotConfig re-renders the figures of an earlier prof or vel run from
// its per-halo archives, without touching the simulation data.
type ReplotConfig struct {
	pType profileType
	stem  string
}

var _ Mode = &ReplotConfig{}

func (config *ReplotConfig) ExampleConfig() string {
	return `[replot.config]

#####################
## Required Fields ##
#####################

# ProfileType names the kind of per-halo archives to replot:
# 'temperature', 'density' or 'velocity'.
ProfileType = temperature

#####################
## Optional Fields ##
#####################

# Stem is the archive name prefix of the run being replotted. It defaults
# to the default OutStem of the mode that produces the profile type.
# Stem = prof
`
}

func (config *ReplotConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("replot.config")

	var pType string
	vars.String(&pType, "ProfileType", "")
	vars.String(&config.stem, "Stem", "")

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
	return nil
}

func (config *ReplotConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
####################
## tngprof replot ##
####################`,
		)
	}
	t := time.Now()

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

	for _, a := range archives {
		switch config.pType {
		case temperatureProfile:
			err = renderTemperatureArchive(a, gConfig.FigureDir)
		case densityProfile:
			err = renderDensityArchive(a, gConfig.FigureDir)
		case velocityProfile:
			err = renderVelocityArchive(a, gConfig.FigureDir)
		}
		if err != nil {
			return nil, err
		}
	}
	logging.Step(t, fmt.Sprintf("replotted %d archives", len(archives)))

	return stdin, nil
}
