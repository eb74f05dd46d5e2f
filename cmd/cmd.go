/*package cmd contains code for running tngprof in its various command
line modes.*/
package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cpellner/tngprof/cmd/halo"
	"github.com/cpellner/tngprof/cosmo"
	"github.com/cpellner/tngprof/logging"
	"github.com/cpellner/tngprof/version"
)

var ModeNames map[string]Mode = map[string]Mode{
	"check":   &CheckConfig{},
	"select":  &SelectConfig{},
	"prof":    &ProfConfig{},
	"vel":     &VelConfig{},
	"stack":   &StackConfig{},
	"replot":  &ReplotConfig{},
	"gallery": &GalleryConfig{},
}

// Mode represents the interface used by the main binary when interacting
// with a given command line mode.
type Mode interface {
	// ReadConfig reads a mode-specific config file and stores its contents
	// within the Mode. An empty file name loads the defaults.
	ReadConfig(fname string, flags []string) error
	// ExampleConfig returns the text of an example config file of this
	// mode.
	ExampleConfig() string
	// Run executes the mode. It takes an initialized GlobalConfig struct
	// and a slice of lines representing the contents of stdin, and returns
	// a slice of lines that should be written to stdout along with an
	// error if one occurs.
	Run(gConfig *GlobalConfig, stdin []string) ([]string, error)
}

// GlobalConfig is the YAML configuration used by every mode. It names the
// simulation data on disk, the cosmology, and the knobs shared between
// modes.
type GlobalConfig struct {
	Version string `yaml:"version"`

	SimulationName string `yaml:"simulation_name"`
	SnapshotDir    string `yaml:"snapshot_dir"`
	CatalogDir     string `yaml:"catalog_dir"`
	DataDir        string `yaml:"data_dir"`
	FigureDir      string `yaml:"figure_dir"`

	BoxWidth float64 `yaml:"box_width"`
	Redshift float64 `yaml:"redshift"`
	H0       float64 `yaml:"h0"`
	OmegaM   float64 `yaml:"omega_m"`
	OmegaL   float64 `yaml:"omega_l"`

	IDField       string `yaml:"id_field"`
	MassField     string `yaml:"mass_field"`
	RadiusField   string `yaml:"radius_field"`
	PositionField string `yaml:"position_field"`
	VelocityField string `yaml:"velocity_field"`

	Workers   int    `yaml:"workers"`
	Verbosity string `yaml:"verbosity"`
}

// ReadConfig reads and validates a global YAML config file.
func (config *GlobalConfig) ReadConfig(fname string) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}

	config.Version = version.SourceVersion
	config.MassField = halo.DefaultFields.Mass
	config.RadiusField = halo.DefaultFields.Radius
	config.PositionField = halo.DefaultFields.Position
	config.VelocityField = halo.DefaultFields.Velocity
	config.H0 = 67.74
	config.OmegaM = 0.3089
	config.OmegaL = 0.6911

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("Could not parse %s: %s", fname, err.Error())
	}

	if err := config.validate(); err != nil {
		return err
	}

	switch config.Verbosity {
	case "", "nil":
		logging.Mode = logging.Nil
	case "performance":
		logging.Mode = logging.Performance
	case "debug":
		logging.Mode = logging.Debug
	default:
		return fmt.Errorf("The 'verbosity' variable is set to '%s', "+
			"which I don't recognize.", config.Verbosity)
	}

	return nil
}

// validate checks that all the user-supplied fields of GlobalConfig are
// properly set.
func (config *GlobalConfig) validate() error {
	major, minor, patch, err := version.Parse(config.Version)
	if err != nil {
		return fmt.Errorf("I couldn't parse the 'version' variable: %s",
			err.Error())
	}
	smajor, sminor, spatch, _ := version.Parse(version.SourceVersion)
	if major != smajor || minor != sminor || patch != spatch {
		return fmt.Errorf("The 'version' variable is set to %s, but the "+
			"version of the source is %s.",
			config.Version, version.SourceVersion)
	}

	if config.SimulationName == "" {
		return fmt.Errorf("The 'simulation_name' variable isn't set.")
	}

	if config.SnapshotDir == "" {
		return fmt.Errorf("The 'snapshot_dir' variable isn't set.")
	} else if err = validateDir(config.SnapshotDir); err != nil {
		return fmt.Errorf("The 'snapshot_dir' variable is set to '%s', "+
			"but %s", config.SnapshotDir, err.Error())
	}

	if config.CatalogDir == "" {
		return fmt.Errorf("The 'catalog_dir' variable isn't set.")
	} else if err = validateDir(config.CatalogDir); err != nil {
		return fmt.Errorf("The 'catalog_dir' variable is set to '%s', "+
			"but %s", config.CatalogDir, err.Error())
	}

	if config.DataDir == "" {
		return fmt.Errorf("The 'data_dir' variable isn't set.")
	}
	if config.FigureDir == "" {
		return fmt.Errorf("The 'figure_dir' variable isn't set.")
	}

	if config.BoxWidth <= 0 {
		return fmt.Errorf("The 'box_width' variable is set to %g, but box "+
			"widths must be positive.", config.BoxWidth)
	}
	if config.Redshift < 0 {
		return fmt.Errorf("The 'redshift' variable is set to %g, but "+
			"redshifts must be non-negative.", config.Redshift)
	}
	if config.Workers < 0 {
		return fmt.Errorf("The 'workers' variable is set to %d, but "+
			"worker counts must be non-negative.", config.Workers)
	}

	return nil
}

// EnsureOutputDirs creates the derived-data and figure directories if they
// do not exist yet.
func (config *GlobalConfig) EnsureOutputDirs() error {
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return fmt.Errorf("Could not create the data_dir '%s': %s",
			config.DataDir, err.Error())
	}
	if err := os.MkdirAll(config.FigureDir, 0755); err != nil {
		return fmt.Errorf("Could not create the figure_dir '%s': %s",
			config.FigureDir, err.Error())
	}
	return nil
}

// Fields returns the group catalog field names to read.
func (config *GlobalConfig) Fields() halo.Fields {
	return halo.Fields{
		ID:       config.IDField,
		Mass:     config.MassField,
		Radius:   config.RadiusField,
		Position: config.PositionField,
		Velocity: config.VelocityField,
	}
}

// Cosmology returns the cosmological parameter set of the simulation.
func (config *GlobalConfig) Cosmology() cosmo.Cosmology {
	return cosmo.Cosmology{
		H0: config.H0, OmegaM: config.OmegaM, OmegaL: config.OmegaL,
	}
}

// validateDir returns an error if there are any problems with the given
// directory.
func validateDir(name string) error {
	if info, err := os.Stat(name); err != nil {
		return fmt.Errorf("%s does not exist.", name)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory.", name)
	}

	return nil
}

// ExampleConfig returns an example global configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	return fmt.Sprintf(`# Global tngprof configuration.

# Target version of tngprof. This option merely allows tngprof to notice
# when its source and configuration files are not from the same version.
#
# This variable defaults to the source version if not included.
version: %s

# Name of the simulation run, used in archive and figure names.
simulation_name: TNG300-1

# Directory holding the field-per-file .npy gas snapshot (Coordinates.npy,
# Masses.npy, InternalEnergy.npy, ElectronAbundance.npy,
# StarFormationRate.npy, Velocities.npy).
snapshot_dir: path/to/snapshot/

# Directory holding the field-per-file .npy group catalog
# (Group_M_Crit200.npy, Group_R_Crit200.npy, GroupPos.npy, GroupVel.npy).
catalog_dir: path/to/groups/

# Derived per-halo archives are written here.
data_dir: path/to/data/

# Figures and galleries are written here.
figure_dir: path/to/figures/

# Side length of the periodic box, in the units of the snapshot positions.
box_width: 205000.0

# Snapshot redshift.
redshift: 0.0

# Cosmological parameters. Default to the TNG (Planck 2015) values.
# h0: 67.74
# omega_m: 0.3089
# omega_l: 0.6911

# Group catalog field names. The defaults match the TNG FoF catalogs,
# which have no ID file: halos are numbered by catalog row unless
# id_field names an int64 .npy file of explicit IDs.
# id_field:
# mass_field: Group_M_Crit200
# radius_field: Group_R_Crit200
# position_field: GroupPos
# velocity_field: GroupVel

# Number of concurrent halo queries. 0 uses every core.
workers: 0

# One of nil, performance, debug.
verbosity: nil
`, version.SourceVersion)
}

