package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpellner/tngprof/cosmo"
	"github.com/cpellner/tngprof/io"
)

// testSimulation writes a tiny synthetic snapshot and group catalog: two
// cluster halos with eight gas cells each, strung out along the x axis.
func testSimulation(t *testing.T) *GlobalConfig {
	t.Helper()
	dir := t.TempDir()
	snapDir := filepath.Join(dir, "snap")
	catDir := filepath.Join(dir, "groups")
	require.NoError(t, os.MkdirAll(snapDir, 0755))
	require.NoError(t, os.MkdirAll(catDir, 0755))

	masses := []float64{2e14, 5e14}
	radii := []float64{1000, 1500}
	centers := [][3]float64{
		{5000, 5000, 5000}, {20000, 20000, 20000},
	}

	require.NoError(t, io.WriteFloats(
		filepath.Join(catDir, "Group_M_Crit200.npy"), masses))
	require.NoError(t, io.WriteFloats(
		filepath.Join(catDir, "Group_R_Crit200.npy"), radii))
	require.NoError(t, io.WriteVectors(
		filepath.Join(catDir, "GroupPos.npy"), centers))
	require.NoError(t, io.WriteVectors(
		filepath.Join(catDir, "GroupVel.npy"),
		[][3]float64{{0, 0, 0}, {0, 0, 0}}))

	fracs := []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.1, 1.3, 1.5}
	pos := [][3]float64{}
	vel := [][3]float64{}
	gasMass, u, xe, sfr := []float64{}, []float64{}, []float64{}, []float64{}
	for h := range centers {
		for i, f := range fracs {
			c := centers[h]
			pos = append(pos, [3]float64{c[0] + f*radii[h], c[1], c[2]})
			vel = append(vel, [3]float64{100, 0, 0})
			gasMass = append(gasMass, 1e8)
			// A spread of internal energies, one star-forming cell per halo.
			u = append(u, 100*float64(i+1)*float64(i+1))
			xe = append(xe, 1.0)
			if i == 0 {
				sfr = append(sfr, 0.5)
			} else {
				sfr = append(sfr, 0)
			}
		}
	}

	require.NoError(t, io.WriteVectors(
		filepath.Join(snapDir, "Coordinates.npy"), pos))
	require.NoError(t, io.WriteVectors(
		filepath.Join(snapDir, "Velocities.npy"), vel))
	require.NoError(t, io.WriteFloats(
		filepath.Join(snapDir, "Masses.npy"), gasMass))
	require.NoError(t, io.WriteFloats(
		filepath.Join(snapDir, "InternalEnergy.npy"), u))
	require.NoError(t, io.WriteFloats(
		filepath.Join(snapDir, "ElectronAbundance.npy"), xe))
	require.NoError(t, io.WriteFloats(
		filepath.Join(snapDir, "StarFormationRate.npy"), sfr))

	gConfig := &GlobalConfig{
		SimulationName: "test-sim",
		SnapshotDir:    snapDir,
		CatalogDir:     catDir,
		DataDir:        filepath.Join(dir, "data"),
		FigureDir:      filepath.Join(dir, "figs"),
		BoxWidth:       40000,
		H0:             67.74, OmegaM: 0.3089, OmegaL: 0.6911,
		MassField:     "Group_M_Crit200",
		RadiusField:   "Group_R_Crit200",
		PositionField: "GroupPos",
		VelocityField: "GroupVel",
		Workers:       1,
	}
	require.NoError(t, gConfig.EnsureOutputDirs())
	return gConfig
}

func runSelect(t *testing.T, gConfig *GlobalConfig) []string {
	t.Helper()
	config := &SelectConfig{}
	require.NoError(t, config.ReadConfig("", []string{}))
	lines, err := config.Run(gConfig, nil)
	require.NoError(t, err)
	return lines
}

func TestPipelineSelect(t *testing.T) {
	gConfig := testSimulation(t)
	lines := runSelect(t, gConfig)
	require.Len(t, lines, 3)

	cat, tvir, err := parseHaloLines(lines)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1}, cat.IDs)
	require.Len(t, tvir, 2)
	require.Greater(t, tvir[1], tvir[0])
}

func TestPipelineTemperature(t *testing.T) {
	gConfig := testSimulation(t)
	lines := runSelect(t, gConfig)

	config := &ProfConfig{}
	require.NoError(t, config.ReadConfig("", []string{
		"--ProfileType", "temperature",
		"--RadialBins", "4", "--TemperatureBins", "5",
	}))
	out, err := config.Run(gConfig, lines)
	require.NoError(t, err)
	require.Equal(t, lines, out)

	entries, err := io.ReadArchive(
		filepath.Join(gConfig.DataDir, "prof_halo_1.npz"))
	require.NoError(t, err)
	require.Equal(t, []int{5, 4}, entries["histogram"].Shape)
	require.Equal(t, []int{5}, entries["xedges"].Shape)
	require.Equal(t, 1.0, entries["halo_id"].Value())
	require.Equal(t, 5e14, entries["halo_mass"].Value())

	stack := &StackConfig{}
	require.NoError(t, stack.ReadConfig("", []string{
		"--ProfileType", "temperature",
	}))
	summary, err := stack.Run(gConfig, lines)
	require.NoError(t, err)
	// Header plus one row per occupied mass bin: 2e14 and 5e14 Msun land
	// in different 0.2 dex bins.
	require.Len(t, summary, 3)

	stacked, err := io.ReadArchive(
		filepath.Join(gConfig.DataDir, "stack_temperature_bin_2.npz"))
	require.NoError(t, err)
	require.Equal(t, 1.0, stacked["halo_count"].Value())
	require.Equal(t, []int{4}, stacked["running_average"].Shape)
}

func TestPipelineDensity(t *testing.T) {
	gConfig := testSimulation(t)
	lines := runSelect(t, gConfig)

	config := &ProfConfig{}
	require.NoError(t, config.ReadConfig("", []string{
		"--ProfileType", "density", "--RadialBins", "4",
	}))
	_, err := config.Run(gConfig, lines)
	require.NoError(t, err)

	entries, err := io.ReadArchive(
		filepath.Join(gConfig.DataDir, "prof_halo_0.npz"))
	require.NoError(t, err)
	for _, name := range []string{
		"total_histogram", "cool_histogram", "warm_histogram",
		"hot_histogram",
	} {
		require.Equal(t, []int{4}, entries[name].Shape, name)
	}
	require.Equal(t, []int{5}, entries["edges"].Shape)

	stack := &StackConfig{}
	require.NoError(t, stack.ReadConfig("", []string{
		"--ProfileType", "density",
	}))
	_, err = stack.Run(gConfig, lines)
	require.NoError(t, err)

	stacked, err := io.ReadArchive(
		filepath.Join(gConfig.DataDir, "stack_density_bin_2.npz"))
	require.NoError(t, err)
	require.Equal(t, []int{4}, stacked["total_median"].Shape)

	// The critical density scalar normalizes the profiles to overdensities.
	h100 := gConfig.H0 / 100
	want := cosmo.RhoCritical(
		gConfig.H0, gConfig.OmegaM, gConfig.OmegaL, gConfig.Redshift,
	) * h100 * h100 / 1e9
	require.InEpsilon(t, want, stacked["rho_critical"].Value(), 1e-10)
	require.InEpsilon(t, 2.775e11*h100*h100/1e9,
		stacked["rho_critical"].Value(), 0.01)
}

func TestPipelineCheck(t *testing.T) {
	gConfig := testSimulation(t)

	config := &CheckConfig{}
	require.NoError(t, config.ReadConfig("", []string{
		"--HaloCount", "2", "--LookbackGyr", "0",
	}))
	lines, err := config.Run(gConfig, nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// A z = 0 snapshot has no lookback time, so expecting one fails.
	config = &CheckConfig{}
	require.NoError(t, config.ReadConfig("", []string{
		"--LookbackGyr", "5",
	}))
	lines, err = config.Run(gConfig, nil)
	require.Error(t, err)
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "FAILED")
}

func TestPipelineVelocity(t *testing.T) {
	gConfig := testSimulation(t)
	lines := runSelect(t, gConfig)

	config := &VelConfig{}
	require.NoError(t, config.ReadConfig("", []string{
		"--RadialBins", "4",
	}))
	_, err := config.Run(gConfig, lines)
	require.NoError(t, err)

	entries, err := io.ReadArchive(
		filepath.Join(gConfig.DataDir, "vel_halo_0.npz"))
	require.NoError(t, err)
	require.Equal(t, []int{4}, entries["velocity"].Shape)

	// Every gas cell moves at +100 km/s along the radial direction, so
	// every populated bin averages to 100.
	for i, v := range entries["velocity"].Data {
		if !math.IsNaN(v) {
			require.InDelta(t, 100, v, 1e-9, "bin %d", i)
		}
	}

	replot := &ReplotConfig{}
	require.NoError(t, replot.ReadConfig("", []string{
		"--ProfileType", "velocity",
	}))
	_, err = replot.Run(gConfig, lines)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(gConfig.FigureDir, "vel_halo_0.png"))
	require.NoError(t, err)

	gallery := &GalleryConfig{}
	require.NoError(t, gallery.ReadConfig("", []string{
		"--ProfileType", "velocity",
	}))
	out, err := gallery.Run(gConfig, lines)
	require.NoError(t, err)
	require.Len(t, out, 1)
	_, err = os.Stat(out[0])
	require.NoError(t, err)
}
