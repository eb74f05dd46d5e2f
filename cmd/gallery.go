package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/parse"
	"github.com/cpellner/tngprof/render"
	"github.com/cpellner/tngprof/statistics"
)

// GalleryConfig collects the per-halo archives of a run into a single
// scrollable HTML page of interactive charts, one chart per halo.
type GalleryConfig struct {
	pType    profileType
	stem     string
	maxItems int64
}

var _ Mode = &GalleryConfig{}

func (config *GalleryConfig) ExampleConfig() string {
	return `[gallery.config]

#####################
## Required Fields ##
#####################

# ProfileType names the kind of per-halo archives to collect:
# 'temperature', 'density' or 'velocity'.
ProfileType = temperature

#####################
## Optional Fields ##
#####################

# Stem is the archive name prefix of the run being collected. It defaults
# to the default OutStem of the mode that produces the profile type.
# Stem = prof

# MaxItems caps the number of charts on the page. -1 means no cap.
# MaxItems = -1
`
}

func (config *GalleryConfig) ReadConfig(fname string, flags []string) error {
	vars := parse.NewConfigVars("gallery.config")

	var pType string
	vars.String(&pType, "ProfileType", "")
	vars.String(&config.stem, "Stem", "")
	vars.Int(&config.maxItems, "MaxItems", -1)

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
	if config.maxItems < -1 {
		return fmt.Errorf("The variable 'MaxItems' was set to %d.",
			config.maxItems)
	}
	return nil
}

func (config *GalleryConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		log.Println(`
#####################
## tngprof gallery ##
#####################`,
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
	if config.maxItems >= 0 && int64(len(archives)) > config.maxItems {
		archives = archives[:config.maxItems]
	}

	items := make([]render.GalleryItem, len(archives))
	for i, a := range archives {
		item, err := config.galleryItem(a)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	fname := filepath.Join(gConfig.FigureDir,
		fmt.Sprintf("gallery_%s.html", config.pType))
	title := fmt.Sprintf("%s %s profiles",
		gConfig.SimulationName, config.pType)
	if err := render.WriteGallery(fname, title, items); err != nil {
		return nil, err
	}
	logging.Step(t, fmt.Sprintf("wrote a gallery of %d charts", len(items)))

	return []string{fname}, nil
}

func (config *GalleryConfig) galleryItem(a io.Archive) (render.GalleryItem, error) {
	id := int64(a.Entries["halo_id"].Value())

	switch config.pType {
	case temperatureProfile:
		rows, err := a.Entries["histogram"].Rows()
		if err != nil {
			return render.GalleryItem{}, err
		}
		yedges := a.Entries["yedges"].Data
		yRange := [2]float64{yedges[0], yedges[len(yedges)-1]}

		return render.GalleryItem{
			Title:  fmt.Sprintf("Halo %d mean log10 T", id),
			XLabel: "r / R200c",
			X:      binCenters(a.Entries["xedges"].Data),
			Lines: []render.Line{
				{Label: "mean log10 T",
					Values: statistics.RunningAverage(rows, yRange)},
			},
		}, nil

	case densityProfile:
		lines := make([]render.Line, 0, 4)
		for _, name := range append([]string{"total"}, regimeNames...) {
			lines = append(lines, render.Line{
				Label:  name,
				Values: log10All(a.Entries[name+"_histogram"].Data),
			})
		}
		return render.GalleryItem{
			Title:  fmt.Sprintf("Halo %d log10 density", id),
			XLabel: "r / R200c",
			X:      binCenters(a.Entries["edges"].Data),
			Lines:  lines,
		}, nil
	}

	vr := a.Entries["velocity"].Data
	lower := a.Entries["lower"].Data
	upper := a.Entries["upper"].Data
	lo := make([]float64, len(vr))
	hi := make([]float64, len(vr))
	for i := range vr {
		lo[i] = vr[i] - lower[i]
		hi[i] = vr[i] + upper[i]
	}

	return render.GalleryItem{
		Title:  fmt.Sprintf("Halo %d radial velocity", id),
		XLabel: "r / R200c",
		X:      binCenters(a.Entries["edges"].Data),
		Lines: []render.Line{
			{Label: "v_r", Values: vr},
			{Label: "scatter low", Values: lo},
			{Label: "scatter high", Values: hi},
		},
	}, nil
}

func binCenters(edges []float64) []float64 {
	centers := make([]float64, len(edges)-1)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}
	return centers
}
