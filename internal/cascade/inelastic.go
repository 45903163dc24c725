package cascade

import (
	"fmt"
	"math/rand"

	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hep"
)

// protonCost counts how many remnant protons an outgoing or incoming
// particle accounts for in charge bookkeeping.
func protonCost(code hep.Code) int {
	switch code {
	case hep.CodeProton, hep.CodePiPlus:
		return 1
	case hep.CodePiMinus:
		return -1
	default:
		return 0
	}
}

// inelastic scatters the hadron off a single bound nucleon, with or
// without charge exchange. The struck nucleon is removed from the
// remnant and both collision products join the final state.
func (c *Cascade) inelastic(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, fate Fate) error {
	p := rec.Particle(idx)
	if rem.A < 1 {
		return fmt.Errorf("no nucleon left to strike: %w", ErrRemnantExhausted)
	}

	ppcnt := rem.ProtonFraction()
	var tcode, scode, s2code hep.Code
	if fate == FateChargeExchange {
		switch p.Code {
		case hep.CodePiPlus:
			tcode, scode, s2code = hep.CodeNeutron, hep.CodePiZero, hep.CodeProton
		case hep.CodePiMinus:
			tcode, scode, s2code = hep.CodeProton, hep.CodePiZero, hep.CodeNeutron
		case hep.CodePiZero:
			if rng.Float64() <= ppcnt {
				tcode, scode, s2code = hep.CodeProton, hep.CodePiPlus, hep.CodeNeutron
			} else {
				tcode, scode, s2code = hep.CodeNeutron, hep.CodePiMinus, hep.CodeProton
			}
		case hep.CodeProton:
			tcode, scode, s2code = hep.CodeNeutron, hep.CodeNeutron, hep.CodeProton
		case hep.CodeNeutron:
			tcode, scode, s2code = hep.CodeProton, hep.CodeProton, hep.CodeNeutron
		default:
			return fmt.Errorf("charge exchange for %v: %w", p.Code, ErrUnsupportedChannel)
		}
	} else {
		if rng.Float64() <= ppcnt {
			tcode = hep.CodeProton
		} else {
			tcode = hep.CodeNeutron
		}
		scode, s2code = p.Code, tcode
	}

	if rem.Z+protonCost(p.Code) < protonCost(scode)+protonCost(s2code) {
		return fmt.Errorf("channel needs %d protons: %w", protonCost(scode)+protonCost(s2code), ErrChargeBalance)
	}

	tm := tcode.Mass()
	t4 := c.boundNucleon(rng, tcode, rem)

	// effective projectile energy seen by the struck nucleon
	pm := p.Mass()
	eEff := (p.P4.Add(t4).M2() - tm*tm - pm*pm) / (2 * tm)
	if eEff <= pm {
		return kinematicf("effective projectile energy %.4f below rest mass", eEff)
	}
	keEff := (eEff - pm) * 1000

	class := AngleElastic
	if fate == FateChargeExchange {
		class = AngleChargeExchange
	}
	cosCM := c.angles.ScatterCosine(rng, p.Code, tcode, scode, keEff, class)
	if cosCM < -1 {
		return ErrUnphysicalAngle
	}

	p3, p4, err := TwoBodyKinematics(rng, scode.Mass(), s2code.Mass(), p.P4, t4, cosCM, 0)
	if err != nil {
		return err
	}

	// neither product may carry more kinetic energy than the probe
	// brought into the nucleus
	probeKE := rec.Probe().KinE()
	if p3.KinE(scode.Mass()) > probeKE || p4.KinE(s2code.Mass()) > probeKE {
		return kinematicf("product kinetic energy exceeds probe budget %.4f", probeKE)
	}

	rem.A--
	if tcode == hep.CodeProton {
		rem.Z--
	}
	rem.P4 = rem.P4.Sub(t4)
	p.Status = event.StatusDecayed
	rec.Append(event.Particle{Code: scode, P4: p3, Status: event.StatusStableFinal, Mother: idx, Rescatter: event.RescatterUnset})
	rec.Append(event.Particle{Code: s2code, P4: p4, Status: event.StatusStableFinal, Mother: idx, Rescatter: event.RescatterUnset})
	return nil
}

// boundNucleon builds the four-momentum of a struck nucleon, with
// Fermi motion when enabled.
func (c *Cascade) boundNucleon(rng *rand.Rand, code hep.Code, rem *Remnant) hep.FourVec {
	m := code.Mass()
	if !c.cfg.DoFermi {
		return hep.AtRest(m)
	}
	mom := c.nuclear.SampleMomentum(rng, code, rem.A, rem.Z).Scale(c.cfg.FermiScale)
	return hep.NewFourVec(mom, m)
}
