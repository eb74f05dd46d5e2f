package cosmo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGasTemperature(t *testing.T) {
	require.InDelta(t, 984.94, GasTemperature(10, 0, 0), 0.5)
	require.InDelta(t, 673.04, GasTemperature(10, 0.5, 0), 0.5)

	// Star-forming gas is pinned, whatever its internal energy.
	require.Equal(t, 1e3, GasTemperature(10, 0, 0.1))
	require.Equal(t, 1e3, GasTemperature(1e6, 1, 1e-8))
}

func TestGasTemperatures(t *testing.T) {
	temps, err := GasTemperatures(
		[]float64{10, 10}, []float64{0, 0}, []float64{0, 1})
	require.NoError(t, err)
	require.InDelta(t, 984.94, temps[0], 0.5)
	require.Equal(t, 1e3, temps[1])

	_, err = GasTemperatures([]float64{1}, []float64{1, 2}, []float64{1})
	require.Error(t, err)
}

func TestVirialTemperature(t *testing.T) {
	// A 10^14 Msun cluster with R_vir = 1 Mpc sits at T_vir ~ 1.6e7 K.
	require.InEpsilon(t, 1.564e7, VirialTemperature(1e14, 1000), 0.01)
}

func TestRadialVelocities(t *testing.T) {
	center := [3]float64{0, 0, 0}
	pos := [][3]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 0}}
	vel := [][3]float64{{5, 2, 0}, {0, -3, 1}, {7, 7, 7}}

	vr, err := RadialVelocities(center, [3]float64{0, 0, 0}, pos, vel)
	require.NoError(t, err)
	require.InDelta(t, 5, vr[0], 1e-10)
	require.InDelta(t, -3, vr[1], 1e-10)
	require.Equal(t, 0.0, vr[2], "a particle on the center has no direction")

	vr, err = RadialVelocities(center, [3]float64{1, 0, 0}, pos, vel)
	require.NoError(t, err)
	require.InDelta(t, 4, vr[0], 1e-10)

	_, err = RadialVelocities(center, [3]float64{}, pos, vel[:1])
	require.Error(t, err)
}

func TestPeriodicDistance(t *testing.T) {
	a := [3]float64{1, 0, -2.5}
	b := [3]float64{0, 1, 0}
	require.InDelta(t, 1.5, PeriodicDistance(a, b, 2), 1e-10)

	// Inside half a box length nothing wraps.
	require.InDelta(t, math.Sqrt(2),
		PeriodicDistance([3]float64{1, 1, 0}, [3]float64{0, 0, 0}, 100),
		1e-10)
}

func TestPeriodicDistances(t *testing.T) {
	a := [][3]float64{{1, 0, -2.5}, {0, 1, 0}}
	d := PeriodicDistances(a, [3]float64{0, 1, 0}, 2)
	require.InDelta(t, 1.5, d[0], 1e-10)
	require.InDelta(t, 0, d[1], 1e-10)
}

func TestLookbackTime(t *testing.T) {
	// Reference values for the TNG cosmology.
	require.InDelta(t, 10.5137, Planck15.LookbackTime(2), 0.05)
	require.InDelta(t, 13.1588, Planck15.LookbackTime(8), 0.05)
	require.Equal(t, 0.0, Planck15.LookbackTime(0))

	// Sentinel redshifts pass through.
	require.Equal(t, -1.0, Planck15.LookbackTime(-1))
}

func TestRedshiftFromLookbackTime(t *testing.T) {
	z := 3.0
	tl := Planck15.LookbackTime(z)
	require.InDelta(t, z, Planck15.RedshiftFromLookbackTime(tl), 1e-3)

	require.Equal(t, -2.0, Planck15.RedshiftFromLookbackTime(-2))
	require.True(t, math.IsInf(
		Planck15.RedshiftFromLookbackTime(Planck15.Age()+1), 1))
}

func TestHubbleFrac(t *testing.T) {
	require.InDelta(t, 1, HubbleFrac(0.3089, 0.6911, 0), 1e-10)
	require.Greater(t, HubbleFrac(0.3089, 0.6911, 2), 1.0)
}

func TestRhoCritical(t *testing.T) {
	// ~2.775e11 Msun/h / (Mpc/h)^3 at z = 0, independent of H0.
	require.InEpsilon(t, 2.775e11, RhoCritical(70, 0.27, 0.73, 0), 0.01)
}
