package cosmo

import (
	"fmt"
	"math"
)

// RadialVelocities projects the velocities vel, taken relative to the halo
// bulk motion bulk, onto the unit vectors pointing from center to pos.
// Positive values are outflowing. A particle sitting exactly on the center
// has no radial direction and gets 0.
func RadialVelocities(
	center, bulk [3]float64, pos [][3]float64, vel [][3]float64,
) ([]float64, error) {
	if len(pos) != len(vel) {
		return nil, fmt.Errorf("There are %d positions, but %d velocities.",
			len(pos), len(vel))
	}

	vr := make([]float64, len(pos))
	for i := range pos {
		var d [3]float64
		var norm float64
		for j := 0; j < 3; j++ {
			d[j] = pos[i][j] - center[j]
			norm += d[j] * d[j]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue
		}

		var dot float64
		for j := 0; j < 3; j++ {
			dot += (vel[i][j] - bulk[j]) * d[j]
		}
		vr[i] = dot / norm
	}
	return vr, nil
}

// PeriodicDistance is the minimum-image distance between a and b in a
// periodic box of side box. Separations are unwrapped by at most one box
// length per component; points further apart than that are not handled.
func PeriodicDistance(a, b [3]float64, box float64) float64 {
	var sum float64
	for j := 0; j < 3; j++ {
		d := math.Abs(a[j] - b[j])
		if d > box/2 {
			d = math.Abs(d - box)
		}
		sum += d * d
	}
	return math.Sqrt(sum)
}

// PeriodicDistances computes the minimum-image distance from every point of
// a to the single point b.
func PeriodicDistances(a [][3]float64, b [3]float64, box float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = PeriodicDistance(a[i], b, box)
	}
	return out
}
