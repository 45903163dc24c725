// Package nuclear models the momentum of nucleons bound in the target.
package nuclear

import (
	"math"
	"math/rand"

	"github.com/hadronlab/cascade/internal/hep"
)

// defaultFermiMomentum is the symmetric-matter Fermi surface in GeV.
const defaultFermiMomentum = 0.250

// FermiGas samples nucleon momenta uniformly inside a Fermi sphere
// whose radius scales with the species abundance in the remnant.
type FermiGas struct {
	// KF is the Fermi surface momentum for symmetric matter, GeV.
	KF float64
}

// NewFermiGas returns a Fermi gas with the default surface momentum.
func NewFermiGas() *FermiGas {
	return &FermiGas{KF: defaultFermiMomentum}
}

// SampleMomentum draws a bound-nucleon 3-momentum for the given
// species in a remnant of mass number a and charge z.
func (m *FermiGas) SampleMomentum(rng *rand.Rand, code hep.Code, a, z int) hep.Vec3 {
	kf := m.KF
	if a > 0 {
		frac := float64(z) / float64(a)
		if code == hep.CodeNeutron {
			frac = 1 - frac
		}
		// local density approximation: surface scales with the cube
		// root of the species abundance
		kf *= math.Cbrt(2 * frac)
	}

	k := kf * math.Cbrt(rng.Float64())
	cosT := 2*rng.Float64() - 1
	sinT := math.Sqrt(1 - cosT*cosT)
	phi := 2 * math.Pi * rng.Float64()
	return hep.Vec3{
		X: k * sinT * math.Cos(phi),
		Y: k * sinT * math.Sin(phi),
		Z: k * cosT,
	}
}
