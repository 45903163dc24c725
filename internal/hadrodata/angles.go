package hadrodata

import (
	"math"
	"math/rand"

	"github.com/hadronlab/cascade/internal/cascade"
	"github.com/hadronlab/cascade/internal/hep"
)

// NoAngle is returned when no physical scattering solution exists for
// the requested configuration. Any value below -1 carries the same
// meaning to the caller.
const NoAngle = -2.0

// AngleModel samples two-body scattering cosines from forward-peaked
// exponential fits, exp(b cos), with a slope per channel family.
type AngleModel struct{}

// NewAngleModel returns the default angle model.
func NewAngleModel() *AngleModel {
	return &AngleModel{}
}

// ScatterCosine draws cos theta in the center-of-mass frame for the
// probe scattering into product at kinetic energy keMeV.
func (m *AngleModel) ScatterCosine(rng *rand.Rand, probe, target, product hep.Code, keMeV float64, class cascade.AngleClass) float64 {
	if probe.Mass() == 0 || target.Mass() == 0 || product.Mass() == 0 {
		return NoAngle
	}
	if keMeV <= 0 {
		return NoAngle
	}

	var slope float64
	switch class {
	case cascade.AngleElastic:
		slope = 4 + keMeV/100
	case cascade.AngleChargeExchange:
		slope = 2 + keMeV/200
	case cascade.AngleAbsorption:
		slope = 1
	default:
		return NoAngle
	}

	// inverse CDF of exp(b cos) on [-1,1]
	u := rng.Float64()
	eb := math.Exp(slope)
	emb := math.Exp(-slope)
	return math.Log(emb+u*(eb-emb)) / slope
}
