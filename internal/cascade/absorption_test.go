package cascade

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hep"
)

func TestTwoBodyAbsorptionEmitsNucleonPair(t *testing.T) {
	c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(21))
	rec := probeRecord(hep.CodePiMinus, 165)
	rem := NewRemnant(56, 26)
	qBefore := hep.CodePiMinus.Charge() + rem.Z
	eBefore := rem.P4.E + rec.Particle(1).P4.E

	if err := c.twoBodyAbsorption(rng, rec, 1, &rem, 165); err != nil {
		t.Fatalf("two-body absorption: %v", err)
	}

	if rem.A != 54 {
		t.Fatalf("remnant A = %d, want 54", rem.A)
	}
	final := rec.FinalState()
	if len(final) != 2 {
		t.Fatalf("final state size = %d, want 2", len(final))
	}
	for _, i := range final {
		if !rec.Particle(i).Code.IsNucleon() {
			t.Fatalf("absorption product %v is not a nucleon", rec.Particle(i).Code)
		}
	}
	if got := recordCharge(rec) + rem.Z; got != qBefore {
		t.Fatalf("charge after = %d, want %d", got, qBefore)
	}
	// the pair binding energy is the only loss from the particle sum
	eAfter := totalEnergy(rec, rem)
	if !approxEqual(eAfter, eBefore-bindingEnergyAbs, 1e-9) {
		t.Fatalf("energy after = %v, want %v", eAfter, eBefore-bindingEnergyAbs)
	}
}

func TestTwoBodyAbsorptionChargeConservedAcrossBranches(t *testing.T) {
	for _, probe := range []hep.Code{hep.CodePiPlus, hep.CodePiMinus, hep.CodePiZero} {
		rng := rand.New(rand.NewSource(33))
		for i := 0; i < 50; i++ {
			c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
			rec := probeRecord(probe, 165)
			rem := NewRemnant(56, 26)
			qBefore := probe.Charge() + rem.Z

			if err := c.twoBodyAbsorption(rng, rec, 1, &rem, 165); err != nil {
				t.Fatalf("%v two-body absorption: %v", probe, err)
			}
			if got := recordCharge(rec) + rem.Z; got != qBefore {
				t.Fatalf("%v charge after = %d, want %d", probe, got, qBefore)
			}
			if !rem.Valid() {
				t.Fatalf("%v left invalid remnant A=%d Z=%d", probe, rem.A, rem.Z)
			}
		}
	}
}

func TestSampleMultiplicityRespectsCeilings(t *testing.T) {
	c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 100; i++ {
		np, nn, err := c.sampleMultiplicity(rng, hep.CodePiPlus, 56, 26, 300)
		if err != nil {
			t.Fatalf("sample multiplicity: %v", err)
		}
		if np+nn < 2 {
			t.Fatalf("multiplicity %d+%d below two", np, nn)
		}
		if np > 26+1 {
			t.Fatalf("proton count %d above ceiling", np)
		}
		if nn > 30-1 {
			t.Fatalf("neutron count %d above ceiling", nn)
		}
	}
}

func TestSampleMultiplicityNucleonProbe(t *testing.T) {
	c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(29))
	for i := 0; i < 100; i++ {
		np, nn, err := c.sampleMultiplicity(rng, hep.CodeProton, 56, 26, 300)
		if err != nil {
			t.Fatalf("sample multiplicity: %v", err)
		}
		// a nucleon probe must break up at least three nucleons
		if np+nn <= 2 {
			t.Fatalf("nucleon probe multiplicity %d+%d too small", np, nn)
		}
	}
}

func TestSampleMultiplicityDeadlockOnTinyNucleus(t *testing.T) {
	c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(5))
	// the singles mean sits far above a three-nucleon cap, so the
	// gaussian loop can never accept
	_, _, err := c.sampleMultiplicity(rng, hep.CodePiPlus, 3, 1, 100)
	if !errors.Is(err, ErrSamplingDeadlock) {
		t.Fatalf("expected sampling deadlock, got %v", err)
	}
	if !errors.Is(err, ErrKinematics) {
		t.Fatalf("deadlock should be recoverable, got %v", err)
	}
}

func TestAbsorbSingleGroupBookkeeping(t *testing.T) {
	c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(41))
	rec := probeRecord(hep.CodePiPlus, 300)
	rem := NewRemnant(56, 26)
	eBefore := rem.P4.E + rec.Particle(1).P4.E

	// probe bookkeeping already applied: pi+ raises the charge
	if err := c.absorbSingleGroup(rng, rec, 1, &rem, 56, 27, 3, 2); err != nil {
		t.Fatalf("single group absorption: %v", err)
	}

	if rem.A != 51 || rem.Z != 24 {
		t.Fatalf("remnant A=%d Z=%d, want 51/24", rem.A, rem.Z)
	}
	final := rec.FinalState()
	if len(final) != 5 {
		t.Fatalf("final state size = %d, want 5", len(final))
	}
	protons := 0
	for _, i := range final {
		if rec.Particle(i).Code == hep.CodeProton {
			protons++
		}
	}
	if protons != 3 {
		t.Fatalf("emitted protons = %d, want 3", protons)
	}
	// removal energy is zero in the test config, so energy balances
	if got := totalEnergy(rec, rem); !approxEqual(got, eBefore, 1e-6) {
		t.Fatalf("energy after = %v, want %v", got, eBefore)
	}
}

func TestAbsorbCarrierGroupsSplitsLargeFinalState(t *testing.T) {
	c := newTestCascade(t, singleFate(FateAbsorption), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(53))
	rec := probeRecord(hep.CodeProton, 1200)
	rem := NewRemnant(100, 44)
	eBefore := rem.P4.E + rec.Particle(1).P4.E

	// probe bookkeeping already applied: the proton joined the remnant
	if err := c.absorbCarrierGroups(rng, rec, 1, &rem, 101, 45, 9, 11); err != nil {
		t.Fatalf("carrier group absorption: %v", err)
	}

	final := rec.FinalState()
	if len(final) != 20 {
		t.Fatalf("final state size = %d, want 20", len(final))
	}
	carriers := 0
	protons, neutrons := 0, 0
	for i := 2; i < rec.Len(); i++ {
		p := rec.Particle(i)
		if p.Status == event.StatusDecayed {
			carriers++
			continue
		}
		switch p.Code {
		case hep.CodeProton:
			protons++
		case hep.CodeNeutron:
			neutrons++
		}
	}
	if carriers != 5 {
		t.Fatalf("intermediate carriers = %d, want 5", carriers)
	}
	if protons != 9 || neutrons != 11 {
		t.Fatalf("emitted %d protons and %d neutrons, want 9/11", protons, neutrons)
	}
	if rem.A != 81 || rem.Z != 36 {
		t.Fatalf("remnant A=%d Z=%d, want 81/36", rem.A, rem.Z)
	}
	// every stable product descends from a carrier, not from the probe
	for _, i := range final {
		mother := rec.Particle(i).Mother
		if rec.Particle(mother).Status != event.StatusDecayed {
			t.Fatalf("product %d has non-carrier mother %d", i, mother)
		}
	}
	if got := totalEnergy(rec, rem); !approxEqual(got, eBefore, 1e-6) {
		t.Fatalf("energy after = %v, want %v", got, eBefore)
	}
}

func TestPionProductionAddsPion(t *testing.T) {
	c := newTestCascade(t, singleFate(FatePionProduction), stubAngles{cos: 0.2})
	rng := rand.New(rand.NewSource(61))
	rec := probeRecord(hep.CodePiPlus, 500)
	rem := NewRemnant(56, 26)
	qBefore := hep.CodePiPlus.Charge() + rem.Z

	if err := c.pionProduction(rng, rec, 1, &rem); err != nil {
		t.Fatalf("pion production: %v", err)
	}

	final := rec.FinalState()
	if len(final) != 3 {
		t.Fatalf("final state size = %d, want 3", len(final))
	}
	pions := 0
	for _, i := range final {
		if rec.Particle(i).Code.IsPion() {
			pions++
		}
	}
	if pions != 2 {
		t.Fatalf("final state pions = %d, want 2", pions)
	}
	if rem.A != 55 {
		t.Fatalf("remnant A = %d, want 55", rem.A)
	}
	if got := recordCharge(rec) + rem.Z; got != qBefore {
		t.Fatalf("charge after = %d, want %d", got, qBefore)
	}
}

func TestPionProductionBelowThresholdDegrades(t *testing.T) {
	c := newTestCascade(t, singleFate(FatePionProduction), stubAngles{cos: 0.2})
	rec := probeRecord(hep.CodePiPlus, 20)
	rem := NewRemnant(56, 26)
	err := c.pionProduction(rand.New(rand.NewSource(1)), rec, 1, &rem)
	if !errors.Is(err, ErrKinematics) {
		t.Fatalf("expected recoverable kinematics error, got %v", err)
	}
	if rem.A != 56 {
		t.Fatalf("failed production mutated remnant A = %d", rem.A)
	}
}
