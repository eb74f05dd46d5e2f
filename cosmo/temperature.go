package cosmo

import (
	"fmt"
)

// GasTemperature converts the internal energy per unit mass u, in (km/s)^2,
// and the electron abundance xe of a gas cell into a temperature in Kelvin
// through the ideal-gas equation of state,
// T = (gamma - 1) u mu / k_B, mu = 4 m_p / (1 + 3 X_H + 4 X_H xe).
// Star-forming gas (sfr > 0) sits on an effective equation of state whose
// temperature is unphysical, so it is pinned to 10^3 K.
func GasTemperature(u, xe, sfr float64) float64 {
	if sfr > 0 {
		return 1e3
	}
	mu := 4 * ProtonMassMks /
		(1 + 3*HydrogenMassFrac + 4*HydrogenMassFrac*xe)
	return (AdiabaticIndex - 1) * u * 1e6 * mu / BoltzmannMks
}

// GasTemperatures is the slice form of GasTemperature.
func GasTemperatures(u, xe, sfr []float64) ([]float64, error) {
	if len(u) != len(xe) || len(u) != len(sfr) {
		return nil, fmt.Errorf("The energy, abundance and SFR arrays have "+
			"lengths %d, %d and %d.", len(u), len(xe), len(sfr))
	}

	temps := make([]float64, len(u))
	for i := range temps {
		temps[i] = GasTemperature(u[i], xe[i], sfr[i])
	}
	return temps, nil
}

// VirialTemperature estimates T_vir = mu m_p G M / (2 k_B R) for a halo of
// mass m in Msun and radius r in kpc, with mu = 0.6 for fully ionized gas.
func VirialTemperature(m, r float64) float64 {
	const mu = 0.6
	return mu * ProtonMassMks * GMks * (m * MSunMks) /
		(2 * BoltzmannMks * (r * KpcMks))
}
