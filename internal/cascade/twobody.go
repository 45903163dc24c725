package cascade

import (
	"math"
	"math/rand"

	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hep"
)

// TwoBodyKinematics solves the 1+2 -> 3+4 final state for a fixed
// center-of-mass scattering cosine. bindE is subtracted from the
// projectile energy before the collision. The azimuth is drawn
// uniformly. Failures are recoverable.
func TwoBodyKinematics(rng *rand.Rand, m3, m4 float64, p1, p2 hep.FourVec, cosCM, bindE float64) (hep.FourVec, hep.FourVec, error) {
	var zero hep.FourVec
	if cosCM < -1 || cosCM > 1 {
		return zero, zero, kinematicf("scattering cosine %.4f outside [-1,1]", cosCM)
	}

	p1.E -= bindE
	total := p1.Add(p2)
	m := total.M()
	if m < m3+m4 {
		return zero, zero, kinematicf("invariant mass %.4f below threshold %.4f", m, m3+m4)
	}

	e3 := (m*m + m3*m3 - m4*m4) / (2 * m)
	pcm := math.Sqrt(math.Max(e3*e3-m3*m3, 0))
	sinCM := math.Sqrt(1 - cosCM*cosCM)
	phi := 2 * math.Pi * rng.Float64()

	beta := total.BoostVector()
	p3cm := hep.Vec3{
		X: pcm * sinCM * math.Cos(phi),
		Y: pcm * sinCM * math.Sin(phi),
		Z: pcm * cosCM,
	}.RotateUz(beta.Unit())

	p3 := hep.FourVec{E: e3, P: p3cm}.Boost(beta)
	p4 := total.Sub(p3)
	return p3, p4, nil
}

// elastic scatters the hadron off the whole remnant through a
// tabulated large-angle deflection. The remnant recoils; no nucleons
// are removed.
func (c *Cascade) elastic(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant) error {
	p := rec.Particle(idx)
	if !rem.Valid() || rem.A < 1 {
		return ErrRemnantExhausted
	}

	var theta float64
	if p.Code.IsNucleon() {
		theta = NucleonElasticTheta(rng)
	} else {
		theta = PionElasticTheta(rng)
	}

	p3, p4, err := TwoBodyKinematics(rng, p.Mass(), rem.P4.M(), p.P4, rem.P4, math.Cos(theta), 0)
	if err != nil {
		return err
	}

	rem.P4 = p4
	p.Status = event.StatusDecayed
	rec.Append(event.Particle{
		Code:      p.Code,
		P4:        p3,
		Status:    event.StatusStableFinal,
		Mother:    idx,
		Rescatter: event.RescatterUnset,
	})
	return nil
}
