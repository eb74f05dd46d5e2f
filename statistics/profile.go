package statistics

import (
	"fmt"
	"math"
)

// VolumeNormalizedProfile histograms radial distances, given in units of
// the halo radius, weighted by masses, and divides every bin by the
// physical volume of its spherical shell. The shell volumes come from the
// bin edges scaled back up by haloRadius, so the profile is a density in
// mass per haloRadius-unit cubed. The returned edges are in units of the
// halo radius.
func VolumeNormalizedProfile(
	distances, masses []float64, nBins int,
	haloRadius float64, radialRange [2]float64,
) (profile, edges []float64, err error) {
	if len(distances) != len(masses) {
		return nil, nil, fmt.Errorf("There are %d distances, but %d masses.",
			len(distances), len(masses))
	}
	if nBins < 1 {
		return nil, nil, fmt.Errorf("The bin count %d must be positive.",
			nBins)
	}
	if haloRadius <= 0 {
		return nil, nil, fmt.Errorf("The halo radius %g must be positive.",
			haloRadius)
	}

	edges = linspace(radialRange, nBins)
	profile = make([]float64, nBins)
	for i := range distances {
		j, ok := binOf(distances[i], radialRange, nBins)
		if !ok {
			continue
		}
		profile[j] += masses[i]
	}

	for j := 0; j < nBins; j++ {
		rLo, rHi := edges[j]*haloRadius, edges[j+1]*haloRadius
		dV := (rHi*rHi*rHi - rLo*rLo*rLo) * 4 * math.Pi / 3
		profile[j] /= dV
	}

	return profile, edges, nil
}
