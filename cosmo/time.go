package cosmo

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Cosmology bundles the flat Lambda-CDM parameters used by the
// time-redshift conversions. H0 is in km/s/Mpc.
type Cosmology struct {
	H0, OmegaM, OmegaL float64
}

// Planck15 is the parameter set of the IllustrisTNG runs.
var Planck15 = Cosmology{H0: 67.74, OmegaM: 0.3089, OmegaL: 0.6911}

// ageAt integrates da / (a H(a)) up to the scale factor 1/(1+z), giving
// the cosmic time at redshift z in Gyr. The integrand is rewritten as
// sqrt(a) / sqrt(OmegaM + OmegaL a^3) so it stays finite at a = 0.
func (c Cosmology) ageAt(z float64) float64 {
	aMax := 1 / (1 + z)
	f := func(a float64) float64 {
		return math.Sqrt(a) / math.Sqrt(c.OmegaM+c.OmegaL*a*a*a)
	}
	t := quad.Fixed(f, 0, aMax, 200, nil, 0)

	hubbleTimeGyr := MpcMks / 1000 / c.H0 / GyrSec
	return t * hubbleTimeGyr
}

// Age is the present age of the universe in Gyr.
func (c Cosmology) Age() float64 {
	return c.ageAt(0)
}

// LookbackTime converts a redshift into a lookback time in Gyr. Negative
// redshifts pass through unchanged so that sentinel values survive the
// conversion.
func (c Cosmology) LookbackTime(z float64) float64 {
	if z < 0 {
		return z
	}
	return c.ageAt(0) - c.ageAt(z)
}

// LookbackTimes is the slice form of LookbackTime.
func (c Cosmology) LookbackTimes(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i := range zs {
		out[i] = c.LookbackTime(zs[i])
	}
	return out
}

// RedshiftFromLookbackTime inverts LookbackTime by bisection. Negative
// times pass through unchanged and times at or beyond the age of the
// universe return +Inf.
func (c Cosmology) RedshiftFromLookbackTime(t float64) float64 {
	if t < 0 {
		return t
	}
	if t >= c.Age() {
		return math.Inf(1)
	}

	lo, hi := 0.0, 1e4
	for i := 0; i < 128; i++ {
		mid := (lo + hi) / 2
		if c.LookbackTime(mid) < t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// RedshiftsFromLookbackTimes is the slice form of RedshiftFromLookbackTime.
func (c Cosmology) RedshiftsFromLookbackTimes(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i := range ts {
		out[i] = c.RedshiftFromLookbackTime(ts[i])
	}
	return out
}
