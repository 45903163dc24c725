package cascade

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hep"
)

const (
	// bindingEnergyAbs is subtracted from the projectile energy in
	// two-body absorption, GeV.
	bindingEnergyAbs = 0.075

	maxMultiplicityDraws = 10000
	maxGaussianDraws     = 100

	// maxDecayProducts bounds a single phase-space call; larger final
	// states are split across intermediate carriers.
	maxDecayProducts = 18
)

// absorb dispatches the deep-inelastic channels: pion production or
// absorption of the hadron on one or more bound nucleons.
func (c *Cascade) absorb(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, fate Fate) error {
	if fate == FatePionProduction {
		return c.pionProduction(rng, rec, idx, rem)
	}

	p := rec.Particle(idx)
	switch {
	case rem.A < 2:
		return fmt.Errorf("absorption needs two nucleons, remnant has %d: %w", rem.A, ErrRemnantExhausted)
	case rem.Z < 1 && (p.Code == hep.CodePiMinus || p.Code == hep.CodeKMinus):
		return fmt.Errorf("negative meson absorption needs a proton: %w", ErrRemnantExhausted)
	case rem.Neutrons() < 1 && (p.Code == hep.CodePiPlus || p.Code == hep.CodeKPlus):
		return fmt.Errorf("positive meson absorption needs a neutron: %w", ErrRemnantExhausted)
	}

	keMeV := p.KinE() * 1000
	if p.Code.IsPion() || p.Code.IsKaon() {
		twoBodyProb := 1.14 * (0.903 - 0.00189*float64(rem.A)) * (1.35 - 0.00467*keMeV)
		if rng.Float64() < twoBodyProb {
			return c.twoBodyAbsorption(rng, rec, idx, rem, keMeV)
		}
	}
	return c.multiNucleonAbsorption(rng, rec, idx, rem, keMeV)
}

// twoBodyAbsorption absorbs a meson on a quasideuteron pair, emitting
// two nucleons. The pair species follow isospin-weighted branches.
func (c *Cascade) twoBodyAbsorption(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, keMeV float64) error {
	p := rec.Particle(idx)
	ppcnt := rem.ProtonFraction()

	var t1, t2, s1, s2 hep.Code
	switch p.Code {
	case hep.CodePiPlus, hep.CodeKPlus:
		probD := 2 * ppcnt * (1 - ppcnt)
		probNN := 0.083 * (1 - ppcnt) * (1 - ppcnt)
		if rng.Float64()*(probD+probNN) < probD {
			t1, t2, s1, s2 = hep.CodeNeutron, hep.CodeProton, hep.CodeProton, hep.CodeProton
		} else {
			t1, t2, s1, s2 = hep.CodeNeutron, hep.CodeNeutron, hep.CodeProton, hep.CodeNeutron
		}
	case hep.CodePiMinus, hep.CodeKMinus:
		probD := 2 * ppcnt * (1 - ppcnt)
		probPP := 0.083 * ppcnt * ppcnt
		if rng.Float64()*(probD+probPP) < probD {
			t1, t2, s1, s2 = hep.CodeProton, hep.CodeNeutron, hep.CodeNeutron, hep.CodeNeutron
		} else {
			t1, t2, s1, s2 = hep.CodeProton, hep.CodeProton, hep.CodeProton, hep.CodeNeutron
		}
	case hep.CodePiZero:
		probD := 0.88 * ppcnt * (1 - ppcnt)
		probPP := 0.14 * ppcnt * ppcnt
		probNN := 0.14 * (1 - ppcnt) * (1 - ppcnt)
		r := rng.Float64() * (probD + probPP + probNN)
		switch {
		case r < probD:
			t1, t2, s1, s2 = hep.CodeNeutron, hep.CodeProton, hep.CodeNeutron, hep.CodeProton
		case r < probD+probPP:
			t1, t2, s1, s2 = hep.CodeProton, hep.CodeProton, hep.CodeProton, hep.CodeProton
		default:
			t1, t2, s1, s2 = hep.CodeNeutron, hep.CodeNeutron, hep.CodeNeutron, hep.CodeNeutron
		}
	default:
		return fmt.Errorf("two-body absorption for %v: %w", p.Code, ErrUnsupportedChannel)
	}

	newZ := rem.Z + p.Code.Charge()
	if t1 == hep.CodeProton {
		newZ--
	}
	if t2 == hep.CodeProton {
		newZ--
	}
	newA := rem.A - 2
	if newZ < 0 || newZ > newA {
		return kinematicf("pair branch leaves remnant A=%d Z=%d", newA, newZ)
	}

	q1 := c.boundNucleon(rng, t1, rem)
	q2 := c.boundNucleon(rng, t2, rem)
	pair := q1.Add(q2)

	cosCM := c.angles.ScatterCosine(rng, p.Code, t1, s1, keMeV, AngleAbsorption)
	if cosCM < -1 {
		return kinematicf("no pair absorption angle at %.1f MeV", keMeV)
	}

	p3, p4, err := TwoBodyKinematics(rng, s1.Mass(), s2.Mass(), p.P4, pair, cosCM, bindingEnergyAbs)
	if err != nil {
		return err
	}

	rem.A = newA
	rem.Z = newZ
	rem.P4 = rem.P4.Sub(pair)
	p.Status = event.StatusDecayed
	rec.Append(event.Particle{Code: s1, P4: p3, Status: event.StatusStableFinal, Mother: idx, Rescatter: event.RescatterUnset})
	rec.Append(event.Particle{Code: s2, P4: p4, Status: event.StatusStableFinal, Mother: idx, Rescatter: event.RescatterUnset})
	return nil
}

// nonZero draws a uniform variate in (0,1).
func nonZero(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}

// sampleMultiplicity draws the emitted proton and neutron counts for
// multi-nucleon absorption from empirical gaussian parameterizations.
func (c *Cascade) sampleMultiplicity(rng *rand.Rand, code hep.Code, a, z int, keMeV float64) (int, int, error) {
	fa, fz := float64(a), float64(z)
	var ns0, nd0, sigNs, sigNd, gamNs float64
	switch {
	case code.IsNucleon():
		if a-z > z {
			nd0 = 135.227*math.Exp(-7.124*(fa-fz)/fa) - 2.762
		} else {
			nd0 = -135.227*math.Exp(-7.124*fz/fa) + 4.914
		}
		sigNd = 2.034 + fa*0.007846
		c1 := 0.041 + keMeV*0.0001525
		c2 := -0.003444 - keMeV*0.00002324
		c3 := 0.064 - keMeV*0.00002993
		gamNs = c1*math.Exp(c2*fa) + c3
	case code.IsPion() || code.IsKaon():
		ns0 = 0.0001*(1+keMeV/250)*(fa-50)*(fa-50) + 8
		nd0 = (1 + keMeV/250) - (fa/200)*(1+2*keMeV/250)
		sigNs = (10 + 4*keMeV/250) * (1 - math.Exp(-0.02*fa))
		sigNd = 4 * (1 - math.Exp(-0.03*keMeV))
	default:
		return 0, 0, fmt.Errorf("multi-nucleon absorption for %v: %w", code, ErrUnsupportedChannel)
	}
	if code == hep.CodePiZero || code == hep.CodeNeutron {
		nd0 -= 2
	}
	if code == hep.CodePiMinus {
		nd0 -= 4
	}

	for iter := 0; iter < maxMultiplicityDraws; iter++ {
		u1, u2 := nonZero(rng), nonZero(rng)
		x2 := math.Sqrt(-2*math.Log(u1)) * math.Sin(2*math.Pi*u2)

		var ns float64
		if code.IsNucleon() {
			ns = -math.Log(nonZero(rng)) / gamNs
		} else {
			nsMax := math.Min(ns0+sigNs*20, fa)
			found := false
			for g := 0; g < maxGaussianDraws; g++ {
				v1, v2 := nonZero(rng), nonZero(rng)
				x1 := math.Sqrt(-2*math.Log(v1)) * math.Cos(2*math.Pi*v2)
				ns = ns0 + sigNs*x1
				if ns > nsMax || ns < 0 {
					continue
				}
				if rng.Float64() > ns/nsMax {
					continue
				}
				found = true
				break
			}
			if !found {
				return 0, 0, fmt.Errorf("singles multiplicity: %w", ErrSamplingDeadlock)
			}
		}

		nd := nd0 + sigNd*x2
		np := int((ns+nd)/2 + 0.5)
		nn := int((ns-nd)/2 + 0.5)

		protonCeil := z + boolInt(code == hep.CodeProton || code == hep.CodePiPlus || code == hep.CodeKPlus) -
			boolInt(code == hep.CodePiMinus || code == hep.CodeKMinus)
		neutronCeil := (a - z) + boolInt(code == hep.CodeNeutron || code == hep.CodePiMinus) -
			boolInt(code == hep.CodePiPlus || code == hep.CodeKPlus)
		switch {
		case np < 0 || nn < 0:
		case np+nn < 2:
		case np+nn == 2 && code.IsNucleon():
		case np > protonCeil:
		case nn > neutronCeil:
		default:
			return np, nn, nil
		}
	}
	return 0, 0, fmt.Errorf("joint multiplicity: %w", ErrSamplingDeadlock)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// multiNucleonAbsorption absorbs the hadron on many nucleons and
// shares its energy across them with phase-space decays. Final states
// above the decay cap are split over five intermediate carriers.
func (c *Cascade) multiNucleonAbsorption(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, keMeV float64) error {
	p := rec.Particle(idx)
	a, z := rem.A, rem.Z

	np, nn, err := c.sampleMultiplicity(rng, p.Code, a, z, keMeV)
	if err != nil {
		return err
	}

	if np+nn > 86 {
		frac := 85 / float64(np+nn)
		np = int(float64(np) * frac)
		nn = int(float64(nn) * frac)
	}

	// never consume the whole remnant
	wholeP := z + boolInt(p.Code == hep.CodeProton || p.Code == hep.CodePiPlus || p.Code == hep.CodeKPlus) -
		boolInt(p.Code == hep.CodePiMinus)
	wholeN := (a - z) + boolInt(p.Code == hep.CodeNeutron || p.Code == hep.CodePiMinus || p.Code == hep.CodeKMinus) -
		boolInt(p.Code == hep.CodePiPlus)
	if np == wholeP && nn == wholeN {
		if rng.Float64() < float64(np)/float64(np+nn) {
			np--
		} else {
			nn--
		}
	}

	// the absorbed hadron joins the remnant before nucleons leave it
	switch p.Code {
	case hep.CodeProton, hep.CodePiPlus, hep.CodeKPlus:
		z++
	case hep.CodePiMinus, hep.CodeKMinus:
		z--
	}
	if p.Code.IsNucleon() {
		a++
	}

	if np+nn <= maxDecayProducts {
		return c.absorbSingleGroup(rng, rec, idx, rem, a, z, np, nn)
	}
	return c.absorbCarrierGroups(rng, rec, idx, rem, a, z, np, nn)
}

// absorbSingleGroup emits all nucleons from one phase-space decay of
// the absorbed hadron.
func (c *Cascade) absorbSingleGroup(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, a, z, np, nn int) error {
	p := rec.Particle(idx)

	species := make([]hep.Code, 0, np+nn)
	massSum := 0.0
	for i := 0; i < np+nn; i++ {
		code := hep.CodeNeutron
		if i < np {
			code = hep.CodeProton
		}
		species = append(species, code)
		massSum += code.Mass()
	}

	// nucleon masses come out of the nucleus; mesons vanish entirely
	dE := massSum
	if p.Code.IsNucleon() || p.Code.IsKaon() {
		dE -= p.Mass()
	}
	parent := hep.FourVec{E: p.P4.E + dE, P: p.P4.P}
	remP4 := rem.P4.Sub(hep.FourVec{E: dE})

	momenta, err := c.decayer.Decay(rng, parent, species, &remP4, c.cfg.RemovalEnergy)
	if err != nil {
		return kinematicf("absorption decay into %d nucleons: %v", len(species), err)
	}

	rem.A = a - (np + nn)
	rem.Z = z - np
	rem.P4 = remP4
	p.Status = event.StatusDecayed
	for i, code := range species {
		rec.Append(event.Particle{Code: code, P4: momenta[i], Status: event.StatusStableFinal, Mother: idx, Rescatter: event.RescatterUnset})
	}
	return nil
}

// absorbCarrierGroups splits a large final state across five
// intermediate carriers, each decayed separately. The first carrier
// keeps the absorbed hadron's species, the other four are nucleons
// drawn from the remnant.
func (c *Cascade) absorbCarrierGroups(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, a, z, np, nn int) error {
	p := rec.Particle(idx)

	groups := make([][]hep.Code, 5)
	npCarried := 0
	for i := 0; i < 4; i++ {
		if float64(np+nn)*rng.Float64() < float64(np) {
			npCarried++
			np--
			z--
			groups[i+1] = append(groups[i+1], hep.CodeProton)
		} else {
			nn--
			groups[i+1] = append(groups[i+1], hep.CodeNeutron)
		}
		a--
	}
	for i := 0; i < np+nn; i++ {
		if i < np {
			groups[i%5] = append(groups[i%5], hep.CodeProton)
			z--
		} else {
			groups[i%5] = append(groups[i%5], hep.CodeNeutron)
		}
		a--
	}

	// each carrier takes a fifth of the momentum and of the energy
	// above its own rest mass
	carrier3 := p.P4.P.Scale(1.0 / 5.0)
	probeM := p.Mass()
	probeP4 := hep.FourVec{E: probeM + (p.P4.E-probeM)/5, P: carrier3}
	protP4 := hep.FourVec{E: hep.MassProton + (p.P4.E-hep.MassProton)/5, P: carrier3}
	neutP4 := hep.FourVec{E: hep.MassNeutron + (p.P4.E-hep.MassNeutron)/5, P: carrier3}

	carriers := make([]event.Particle, 5)
	carriers[0] = event.Particle{Code: p.Code, P4: probeP4, Status: event.StatusDecayed, Mother: idx, Rescatter: event.RescatterUnset}
	for i := 1; i < 5; i++ {
		code, p4 := hep.CodeNeutron, neutP4
		if npCarried > i-1 {
			code, p4 = hep.CodeProton, protP4
		}
		carriers[i] = event.Particle{Code: code, P4: p4, Status: event.StatusDecayed, Mother: idx, Rescatter: event.RescatterUnset}
	}

	remP4 := rem.P4.Sub(probeP4.
		Add(protP4.Scale(float64(npCarried))).
		Add(neutP4.Scale(float64(4 - npCarried))).
		Sub(p.P4))

	outs := make([][]hep.FourVec, 5)
	for i := 0; i < 5; i++ {
		carr := carriers[i]
		massSum := 0.0
		for _, code := range groups[i] {
			massSum += code.Mass()
		}
		dE := massSum
		if carr.Code.IsNucleon() || carr.Code.IsKaon() {
			dE -= carr.Mass()
		}
		parent := hep.FourVec{E: carr.P4.E + dE, P: carr.P4.P}
		remP4 = remP4.Sub(hep.FourVec{E: dE})

		momenta, err := c.decayer.Decay(rng, parent, groups[i], &remP4, c.cfg.RemovalEnergy)
		if err != nil {
			return kinematicf("carrier group %d decay: %v", i, err)
		}
		outs[i] = momenta
	}

	rem.A = a
	rem.Z = z
	rem.P4 = remP4
	p.Status = event.StatusDecayed
	for i := 0; i < 5; i++ {
		ci := rec.Append(carriers[i])
		for j, code := range groups[i] {
			rec.Append(event.Particle{Code: code, P4: outs[i][j], Status: event.StatusStableFinal, Mother: ci, Rescatter: event.RescatterUnset})
		}
	}
	return nil
}

// pionProduction converts the collision into a three-body final state
// with an extra pion, charge conserving against a struck nucleon.
func (c *Cascade) pionProduction(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant) error {
	p := rec.Particle(idx)
	if rem.A < 1 {
		return fmt.Errorf("no nucleon left for pion production: %w", ErrRemnantExhausted)
	}

	tcode := hep.CodeNeutron
	if rng.Float64() <= rem.ProtonFraction() {
		tcode = hep.CodeProton
	}

	var products []hep.Code
	switch p.Code {
	case hep.CodePiPlus:
		products = []hep.Code{hep.CodePiPlus, hep.CodePiZero, tcode}
	case hep.CodePiMinus:
		products = []hep.Code{hep.CodePiMinus, hep.CodePiZero, tcode}
	case hep.CodePiZero:
		products = []hep.Code{hep.CodePiPlus, hep.CodePiMinus, tcode}
	case hep.CodeProton, hep.CodeNeutron:
		products = []hep.Code{p.Code, hep.CodePiZero, tcode}
	default:
		return fmt.Errorf("pion production for %v: %w", p.Code, ErrUnsupportedChannel)
	}

	t4 := c.boundNucleon(rng, tcode, rem)
	parent := p.P4.Add(t4)
	remP4 := rem.P4.Sub(t4)

	momenta, err := c.decayer.Decay(rng, parent, products, &remP4, 0)
	if err != nil {
		return kinematicf("pion production decay: %v", err)
	}

	rem.A--
	if tcode == hep.CodeProton {
		rem.Z--
	}
	rem.P4 = remP4
	p.Status = event.StatusDecayed
	for i, code := range products {
		rec.Append(event.Particle{Code: code, P4: momenta[i], Status: event.StatusStableFinal, Mother: idx, Rescatter: event.RescatterUnset})
	}
	return nil
}
