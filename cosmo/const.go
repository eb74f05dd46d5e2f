package cosmo

// Physical constants in MKS units, plus the primordial hydrogen mass
// fraction and the adiabatic index of the simulation's equation of state.
const (
	GMks          = 6.67430e-11
	MSunMks       = 1.98892e30
	MpcMks        = 3.0856775814913673e22
	KpcMks        = MpcMks / 1000
	ProtonMassMks = 1.67262192369e-27
	BoltzmannMks  = 1.380649e-23
	GyrSec        = 3.15576e16

	HydrogenMassFrac = 0.76
	AdiabaticIndex   = 5.0 / 3.0
)
