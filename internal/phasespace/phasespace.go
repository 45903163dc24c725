// Package phasespace generates n-body final states distributed
// uniformly over Lorentz-invariant phase space using the
// Raubold-Lynch recursive method with accept-reject unweighting.
package phasespace

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/hadronlab/cascade/internal/hep"
)

const (
	// MaxProducts bounds a single generation call.
	MaxProducts = 18

	maxUnweightTries = 500
)

// ErrTooManyProducts indicates the product list exceeds MaxProducts.
var ErrTooManyProducts = errors.New("too many decay products")

// ErrInsufficientMass indicates the parent invariant mass is below the
// product mass sum.
var ErrInsufficientMass = errors.New("parent mass below product mass sum")

// ErrUnweighting indicates the accept-reject loop hit its bound.
var ErrUnweighting = errors.New("phase-space unweighting failed")

// Generator produces phase-space decays.
type Generator struct{}

// New returns a ready generator.
func New() *Generator { return &Generator{} }

// Decay splits parent into the listed products. removalE is taken out
// of the parent energy and deposited in remnP4 on success. The
// returned momenta are in the lab frame and sum to the reduced parent.
func (g *Generator) Decay(rng *rand.Rand, parent hep.FourVec, products []hep.Code, remnP4 *hep.FourVec, removalE float64) ([]hep.FourVec, error) {
	n := len(products)
	if n < 2 {
		return nil, fmt.Errorf("need at least two products, got %d", n)
	}
	if n > MaxProducts {
		return nil, fmt.Errorf("%d products: %w", n, ErrTooManyProducts)
	}

	masses := make([]float64, n)
	massSum := 0.0
	for i, code := range products {
		masses[i] = code.Mass()
		massSum += masses[i]
	}

	work := parent
	work.E -= removalE
	teCM := work.M() - massSum
	if teCM <= 0 {
		return nil, fmt.Errorf("available energy %.4f: %w", teCM, ErrInsufficientMass)
	}

	wtMax := maxWeight(masses, teCM)
	beta := work.BoostVector()

	for try := 0; try < maxUnweightTries; try++ {
		momenta, wt := generate(rng, masses, teCM)
		if rng.Float64()*wtMax > wt {
			continue
		}
		for i := range momenta {
			momenta[i] = momenta[i].Boost(beta)
		}
		if removalE != 0 && remnP4 != nil {
			*remnP4 = remnP4.Add(hep.FourVec{E: removalE})
		}
		return momenta, nil
	}
	return nil, fmt.Errorf("after %d tries: %w", maxUnweightTries, ErrUnweighting)
}

// pdk is the two-body breakup momentum for a parent of mass a decaying
// into masses b and c.
func pdk(a, b, c float64) float64 {
	x := (a - b - c) * (a + b + c) * (a - b + c) * (a + b - c)
	return math.Sqrt(math.Max(x, 0)) / (2 * a)
}

// maxWeight returns the analytic maximum of the event weight for the
// given masses and total kinetic energy in the parent frame.
func maxWeight(masses []float64, teCM float64) float64 {
	emmax := teCM + masses[0]
	emmin := 0.0
	wt := 1.0
	for k := 1; k < len(masses); k++ {
		emmin += masses[k-1]
		emmax += masses[k]
		wt *= pdk(emmax, emmin, masses[k])
	}
	return wt
}

// generate builds one weighted event in the parent rest frame and
// returns its momenta and weight.
func generate(rng *rand.Rand, masses []float64, teCM float64) ([]hep.FourVec, float64) {
	n := len(masses)

	rno := make([]float64, n)
	rno[n-1] = 1
	if n > 2 {
		for i := 1; i < n-1; i++ {
			rno[i] = rng.Float64()
		}
		sort.Float64s(rno[1 : n-1])
	}

	invMas := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += masses[i]
		invMas[i] = rno[i]*teCM + sum
	}

	wt := 1.0
	pd := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		pd[i] = pdk(invMas[i+1], invMas[i], masses[i+1])
		wt *= pd[i]
	}

	out := make([]hep.FourVec, n)
	out[0] = hep.FourVec{
		E: math.Sqrt(pd[0]*pd[0] + masses[0]*masses[0]),
		P: hep.Vec3{Y: pd[0]},
	}
	for i := 1; ; i++ {
		out[i] = hep.FourVec{
			E: math.Sqrt(pd[i-1]*pd[i-1] + masses[i]*masses[i]),
			P: hep.Vec3{Y: -pd[i-1]},
		}

		cZ := 2*rng.Float64() - 1
		sZ := math.Sqrt(1 - cZ*cZ)
		angY := 2 * math.Pi * rng.Float64()
		cY, sY := math.Cos(angY), math.Sin(angY)
		for j := 0; j <= i; j++ {
			x, y := out[j].P.X, out[j].P.Y
			out[j].P.X = cZ*x - sZ*y
			out[j].P.Y = sZ*x + cZ*y
			x, z := out[j].P.X, out[j].P.Z
			out[j].P.X = cY*x - sY*z
			out[j].P.Z = sY*x + cY*z
		}

		if i == n-1 {
			break
		}
		b := pd[i] / math.Sqrt(pd[i]*pd[i]+invMas[i]*invMas[i])
		for j := 0; j <= i; j++ {
			out[j] = out[j].Boost(hep.Vec3{Y: b})
		}
	}
	return out, wt
}
