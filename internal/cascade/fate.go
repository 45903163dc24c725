package cascade

import (
	"fmt"
	"math/rand"

	"github.com/hadronlab/cascade/internal/hep"
)

// Fate identifies the interaction channel chosen for an in-flight
// hadron.
type Fate int

const (
	FateUndefined Fate = iota
	FateChargeExchange
	FateElastic
	FateInelastic
	FateAbsorption
	FatePionProduction
)

func (f Fate) String() string {
	switch f {
	case FateChargeExchange:
		return "charge-exchange"
	case FateElastic:
		return "elastic"
	case FateInelastic:
		return "inelastic"
	case FateAbsorption:
		return "absorption"
	case FatePionProduction:
		return "pion-production"
	default:
		return "undefined"
	}
}

// ParseFate maps a channel label back to its Fate.
func ParseFate(label string) (Fate, error) {
	for _, f := range append(Fates(), FateUndefined) {
		if f.String() == label {
			return f, nil
		}
	}
	return FateUndefined, fmt.Errorf("unknown fate label %q", label)
}

// Fates lists every defined channel in selection order.
func Fates() []Fate {
	return []Fate{FateChargeExchange, FateElastic, FateInelastic, FateAbsorption, FatePionProduction}
}

// FractionSource supplies interaction fractions per species, channel
// and kinetic energy. Unknown combinations return zero.
type FractionSource interface {
	Frac(code hep.Code, fate Fate, keMeV float64) float64
}

const maxFateIterations = 1000

// selectFate draws a channel from the cumulative fraction distribution
// for the given species at kinetic energy keMeV. Returns FateUndefined
// when no channel can be drawn within the iteration bound.
func (c *Cascade) selectFate(rng *rand.Rand, code hep.Code, keMeV float64) Fate {
	var order []Fate
	switch {
	case code.IsPion() || code.IsNucleon():
		order = Fates()
	case code.IsKaon():
		order = []Fate{FateInelastic, FateAbsorption}
	default:
		return FateUndefined
	}

	fr := make([]float64, len(order))
	for iter := 0; iter < maxFateIterations; iter++ {
		tf := 0.0
		for i, f := range order {
			fr[i] = c.fractions.Frac(code, f, keMeV)
			tf += fr[i]
		}
		if tf <= 0 {
			return FateUndefined
		}
		r := tf * rng.Float64()
		cum := 0.0
		for i, f := range order {
			cum += fr[i]
			if r < cum {
				return f
			}
		}
	}
	return FateUndefined
}
