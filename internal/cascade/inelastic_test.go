package cascade

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hep"
)

// recordCharge sums the charge of every stable particle.
func recordCharge(rec *event.Record) int {
	q := 0
	for _, i := range rec.FinalState() {
		q += rec.Particle(i).Code.Charge()
	}
	return q
}

func TestChargeExchangeBranches(t *testing.T) {
	tests := []struct {
		name      string
		probe     hep.Code
		wantOut   [2]hep.Code
		wantZDrop int
	}{
		{"pi+ converts on a neutron", hep.CodePiPlus, [2]hep.Code{hep.CodePiZero, hep.CodeProton}, 0},
		{"pi- converts on a proton", hep.CodePiMinus, [2]hep.Code{hep.CodePiZero, hep.CodeNeutron}, 1},
		{"proton swaps with a neutron", hep.CodeProton, [2]hep.Code{hep.CodeNeutron, hep.CodeProton}, 0},
		{"neutron swaps with a proton", hep.CodeNeutron, [2]hep.Code{hep.CodeProton, hep.CodeNeutron}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCascade(t, singleFate(FateChargeExchange), stubAngles{cos: 0.4})
			rec := probeRecord(tt.probe, 200)
			rem := NewRemnant(56, 26)
			qBefore := tt.probe.Charge() + rem.Z

			err := c.inelastic(rand.New(rand.NewSource(3)), rec, 1, &rem, FateChargeExchange)
			if err != nil {
				t.Fatalf("charge exchange: %v", err)
			}
			if rem.A != 55 {
				t.Fatalf("remnant A = %d, want 55", rem.A)
			}
			if rem.Z != 26-tt.wantZDrop {
				t.Fatalf("remnant Z = %d, want %d", rem.Z, 26-tt.wantZDrop)
			}
			final := rec.FinalState()
			if len(final) != 2 {
				t.Fatalf("final state size = %d, want 2", len(final))
			}
			if got := rec.Particle(final[0]).Code; got != tt.wantOut[0] {
				t.Fatalf("first product = %v, want %v", got, tt.wantOut[0])
			}
			if got := rec.Particle(final[1]).Code; got != tt.wantOut[1] {
				t.Fatalf("second product = %v, want %v", got, tt.wantOut[1])
			}
			if got := recordCharge(rec) + rem.Z; got != qBefore {
				t.Fatalf("charge after = %d, want %d", got, qBefore)
			}
		})
	}
}

func TestInelasticKeepsSpecies(t *testing.T) {
	c := newTestCascade(t, singleFate(FateInelastic), stubAngles{cos: 0.1})
	rec := probeRecord(hep.CodePiMinus, 165)
	rem := NewRemnant(56, 26)

	err := c.inelastic(rand.New(rand.NewSource(8)), rec, 1, &rem, FateInelastic)
	if err != nil {
		t.Fatalf("inelastic: %v", err)
	}
	final := rec.FinalState()
	if len(final) != 2 {
		t.Fatalf("final state size = %d, want 2", len(final))
	}
	if got := rec.Particle(final[0]).Code; got != hep.CodePiMinus {
		t.Fatalf("scattered species = %v, want pi-", got)
	}
	target := rec.Particle(final[1]).Code
	if !target.IsNucleon() {
		t.Fatalf("struck species = %v, want a nucleon", target)
	}
	if rem.A != 55 {
		t.Fatalf("remnant A = %d, want 55", rem.A)
	}
}

func TestInelasticProductEnergyBounded(t *testing.T) {
	c := newTestCascade(t, singleFate(FateInelastic), stubAngles{cos: 0.9})
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 200; i++ {
		rec := probeRecord(hep.CodeProton, 250)
		rem := NewRemnant(56, 26)
		if err := c.inelastic(rng, rec, 1, &rem, FateInelastic); err != nil {
			if errors.Is(err, ErrKinematics) {
				continue
			}
			t.Fatalf("inelastic: %v", err)
		}
		probeKE := rec.Probe().KinE()
		for _, j := range rec.FinalState() {
			if ke := rec.Particle(j).KinE(); ke > probeKE+1e-9 {
				t.Fatalf("product kinetic energy %v exceeds probe budget %v", ke, probeKE)
			}
		}
	}
}

func TestInelasticEmptyRemnant(t *testing.T) {
	c := newTestCascade(t, singleFate(FateInelastic), stubAngles{cos: 0.1})
	rec := probeRecord(hep.CodePiPlus, 165)
	rem := Remnant{A: 0, Z: 0, P4: hep.AtRest(hep.MassProton)}
	if err := c.inelastic(rand.New(rand.NewSource(1)), rec, 1, &rem, FateInelastic); !errors.Is(err, ErrRemnantExhausted) {
		t.Fatalf("expected ErrRemnantExhausted, got %v", err)
	}
}

func TestInelasticUnphysicalAngleIsTerminal(t *testing.T) {
	c := newTestCascade(t, singleFate(FateInelastic), stubAngles{cos: -2})
	rec := probeRecord(hep.CodePiPlus, 165)
	rem := NewRemnant(56, 26)
	if err := c.inelastic(rand.New(rand.NewSource(1)), rec, 1, &rem, FateInelastic); !errors.Is(err, ErrUnphysicalAngle) {
		t.Fatalf("expected ErrUnphysicalAngle, got %v", err)
	}
	if rem.A != 56 {
		t.Fatalf("terminal failure mutated remnant A = %d", rem.A)
	}
}

func TestChargeExchangeBlockedWithoutProtons(t *testing.T) {
	c := newTestCascade(t, singleFate(FateChargeExchange), stubAngles{cos: 0.4})
	rec := probeRecord(hep.CodeNeutron, 200)
	// neutron charge exchange needs a proton to leave the final state
	rem := Remnant{A: 4, Z: 0, P4: hep.AtRest(hep.NucleusMass(4, 0))}
	err := c.inelastic(rand.New(rand.NewSource(1)), rec, 1, &rem, FateChargeExchange)
	if !errors.Is(err, ErrChargeBalance) {
		t.Fatalf("expected ErrChargeBalance, got %v", err)
	}
}
