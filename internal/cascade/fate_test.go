package cascade

import (
	"math"
	"math/rand"
	"testing"

	"github.com/hadronlab/cascade/internal/hep"
)

// fixedSource feeds a predetermined sequence of uniform draws through
// a *rand.Rand.
type fixedSource struct {
	values []float64
	next   int
}

func (s *fixedSource) Int63() int64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return int64(v * float64(1<<63))
}

func (s *fixedSource) Seed(int64) {}

func fixedRand(values ...float64) *rand.Rand {
	return rand.New(&fixedSource{values: values})
}

// flatFractions gives every channel the same fraction.
type flatFractions struct {
	frac map[Fate]float64
}

func (f flatFractions) Frac(code hep.Code, fate Fate, keMeV float64) float64 {
	return f.frac[fate]
}

func TestSelectFateCumulativeOrder(t *testing.T) {
	c := &Cascade{fractions: flatFractions{frac: map[Fate]float64{
		FateChargeExchange: 0.1,
		FateElastic:        0.2,
		FateInelastic:      0.3,
		FateAbsorption:     0.3,
		FatePionProduction: 0.1,
	}}}

	// total fraction is 1.0, so the draw maps directly onto the
	// cumulative boundaries
	tests := []struct {
		name string
		draw float64
		want Fate
	}{
		{"low draw lands in charge exchange", 0.05, FateChargeExchange},
		{"draw under 0.3 lands in elastic", 0.25, FateElastic},
		{"draw under 0.6 lands in inelastic", 0.45, FateInelastic},
		{"draw under 0.9 lands in absorption", 0.75, FateAbsorption},
		{"high draw lands in pion production", 0.95, FatePionProduction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.selectFate(fixedRand(tt.draw), hep.CodePiPlus, 165)
			if got != tt.want {
				t.Fatalf("selectFate draw %.2f = %v, want %v", tt.draw, got, tt.want)
			}
		})
	}
}

func TestSelectFateKaonChannels(t *testing.T) {
	c := &Cascade{fractions: flatFractions{frac: map[Fate]float64{
		FateChargeExchange: 0.5,
		FateElastic:        0.5,
		FateInelastic:      0.6,
		FateAbsorption:     0.4,
		FatePionProduction: 0.5,
	}}}

	// kaons only scatter inelastically or get absorbed; the charge
	// exchange and elastic fractions must not contribute
	if got := c.selectFate(fixedRand(0.1), hep.CodeKPlus, 300); got != FateInelastic {
		t.Fatalf("low kaon draw = %v, want %v", got, FateInelastic)
	}
	if got := c.selectFate(fixedRand(0.9), hep.CodeKMinus, 300); got != FateAbsorption {
		t.Fatalf("high kaon draw = %v, want %v", got, FateAbsorption)
	}
}

func TestSelectFateZeroFractions(t *testing.T) {
	c := &Cascade{fractions: flatFractions{frac: map[Fate]float64{}}}
	if got := c.selectFate(rand.New(rand.NewSource(1)), hep.CodeProton, 100); got != FateUndefined {
		t.Fatalf("selectFate with zero fractions = %v, want %v", got, FateUndefined)
	}
}

func TestSelectFateUnknownSpecies(t *testing.T) {
	c := &Cascade{fractions: flatFractions{frac: map[Fate]float64{FateElastic: 1}}}
	if got := c.selectFate(rand.New(rand.NewSource(1)), hep.CodeGamma, 100); got != FateUndefined {
		t.Fatalf("selectFate for gamma = %v, want %v", got, FateUndefined)
	}
}

func TestParseFateRoundTrip(t *testing.T) {
	for _, fate := range Fates() {
		got, err := ParseFate(fate.String())
		if err != nil {
			t.Fatalf("parse %q: %v", fate.String(), err)
		}
		if got != fate {
			t.Fatalf("parse %q = %v, want %v", fate.String(), got, fate)
		}
	}
	if _, err := ParseFate("bogus"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestFixedRandDrawsMatch(t *testing.T) {
	rng := fixedRand(0.05, 0.5)
	if got := rng.Float64(); math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("first draw = %v, want 0.05", got)
	}
	if got := rng.Float64(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("second draw = %v, want 0.5", got)
	}
}
