package cascade

import "github.com/hadronlab/cascade/internal/hep"

// Remnant tracks the nucleus left behind as the cascade strips
// nucleons from the target. Channels mutate a local copy and commit
// only after their kinematics succeed.
type Remnant struct {
	A  int
	Z  int
	P4 hep.FourVec
}

// NewRemnant builds an at-rest remnant for a target with mass number a
// and charge z.
func NewRemnant(a, z int) Remnant {
	return Remnant{A: a, Z: z, P4: hep.AtRest(hep.NucleusMass(a, z))}
}

// Valid reports whether the nucleon bookkeeping is physical.
func (r Remnant) Valid() bool {
	return r.A >= 0 && r.Z >= 0 && r.Z <= r.A
}

// Neutrons returns the neutron count.
func (r Remnant) Neutrons() int { return r.A - r.Z }

// ProtonFraction returns Z/A, or zero for an empty remnant.
func (r Remnant) ProtonFraction() float64 {
	if r.A <= 0 {
		return 0
	}
	return float64(r.Z) / float64(r.A)
}
