package cascade

import (
	"math/rand"

	"github.com/hadronlab/cascade/internal/hep"
)

// AngleClass selects which differential cross section family the angle
// sampler draws from.
type AngleClass int

const (
	AngleElastic AngleClass = iota
	AngleChargeExchange
	AngleAbsorption
)

// AngleSampler draws the center-of-mass polar scattering cosine for a
// two-body final state. A return value below -1 signals that no
// physical solution exists for the requested configuration.
type AngleSampler interface {
	ScatterCosine(rng *rand.Rand, probe, target, product hep.Code, keMeV float64, class AngleClass) float64
}

const degToRad = 0.0174533

// pionBounceWeights tabulates the relative probability of pion-nucleus
// elastic deflection in 2.5 degree bins.
var pionBounceWeights = [25]float64{
	5000, 4200, 3000, 2600, 2100, 1800, 1200, 750, 500, 230, 120,
	35, 9, 3, 11, 18, 29, 27, 20, 14, 10, 6, 2, 0.14, 0.19,
}

const pionBounceNorm = 47979.453

// PionElasticTheta samples the polar deflection angle in radians for
// large-angle pion-nucleus elastic scattering.
func PionElasticTheta(rng *rand.Rand) float64 {
	var angles [25]float64
	for i := range angles {
		angles[i] = 2.5 * float64(i)
	}

	r := rng.Float64()
	xsum := 0.0
	theta := 0.0
	for i := 0; i < 60; i++ {
		theta = float64(i) + 0.5
		tj := 0
		binl := 0.0
		for j := 0; j < len(angles)-1; j++ {
			binl = angles[j]
			tj = j
			if angles[j] <= theta && angles[j+1] >= theta {
				break
			}
			tj = 0
		}
		tfract := (theta - binl) / 2.5
		delp := pionBounceWeights[tj+1] - pionBounceWeights[tj]
		xsum += (pionBounceWeights[tj] + tfract*delp) / pionBounceNorm
		if xsum > r {
			break
		}
		theta = 0
	}
	return theta * degToRad
}

// nucleonBounceWeights tabulates nucleon-nucleus elastic deflection in
// 1 degree bins.
var nucleonBounceWeights = [20]float64{
	2400, 2350, 2200, 2000, 1728, 1261, 713, 312, 106, 35,
	6, 5, 10, 12, 11, 9, 6, 1, 1, 1,
}

const nucleonBounceNorm = 11967.0

// NucleonElasticTheta samples the polar deflection angle in radians for
// large-angle nucleon-nucleus elastic scattering.
func NucleonElasticTheta(rng *rand.Rand) float64 {
	var angles [20]float64
	for i := range angles {
		angles[i] = float64(i)
	}

	r := rng.Float64()
	xsum := 0.0
	theta := 0.0
	for i := 0; i < 20; i++ {
		theta = float64(i) + 0.5
		tj := 0
		binl := 0.0
		for j := 0; j < len(angles)-1; j++ {
			binl = angles[j]
			tj = j
			if angles[j] <= theta && angles[j+1] >= theta {
				break
			}
			tj = 0
		}
		tfract := (theta - binl) / 2.5
		delp := nucleonBounceWeights[tj+1] - nucleonBounceWeights[tj]
		xsum += (nucleonBounceWeights[tj] + tfract*delp) / nucleonBounceNorm
		if xsum > r {
			break
		}
		theta = 0
	}
	return theta * degToRad
}
