// Package cascade implements single-step intranuclear transport of a
// hadron through a nuclear target. A transport step selects an
// interaction channel from tabulated fractions, generates its
// kinematics with bounded retries, and commits final-state particles
// and remnant bookkeeping only when generation succeeds. Particles
// whose channel cannot be realized leave the nucleus unchanged.
package cascade

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hep"
)

// NuclearModel samples bound-nucleon momenta for a remnant with mass
// number a and charge z.
type NuclearModel interface {
	SampleMomentum(rng *rand.Rand, code hep.Code, a, z int) hep.Vec3
}

// DecayService distributes a parent four-momentum over a product list
// uniformly in phase space. removalE is taken out of the parent energy
// and deposited in remnP4 before generation. On failure remnP4 must be
// left untouched and no momenta returned.
type DecayService interface {
	Decay(rng *rand.Rand, parent hep.FourVec, products []hep.Code, remnP4 *hep.FourVec, removalE float64) ([]hep.FourVec, error)
}

// Config holds the transport tunables.
type Config struct {
	// DoFermi enables Fermi motion of struck nucleons.
	DoFermi bool
	// FermiScale multiplies every sampled Fermi momentum.
	FermiScale float64
	// RemovalEnergy is deposited in the remnant per phase-space decay,
	// GeV.
	RemovalEnergy float64
}

// DefaultConfig returns the standard transport settings.
func DefaultConfig() Config {
	return Config{DoFermi: true, FermiScale: 1.0, RemovalEnergy: 0.007}
}

// Cascade generates one interaction per in-flight hadron.
type Cascade struct {
	cfg       Config
	fractions FractionSource
	angles    AngleSampler
	nuclear   NuclearModel
	decayer   DecayService
}

// New builds a transport engine from its collaborators.
func New(cfg Config, fractions FractionSource, angles AngleSampler, nuclear NuclearModel, decayer DecayService) (*Cascade, error) {
	if fractions == nil {
		return nil, errors.New("cascade: nil fraction source")
	}
	if angles == nil {
		return nil, errors.New("cascade: nil angle sampler")
	}
	if nuclear == nil {
		return nil, errors.New("cascade: nil nuclear model")
	}
	if decayer == nil {
		return nil, errors.New("cascade: nil decay service")
	}
	return &Cascade{cfg: cfg, fractions: fractions, angles: angles, nuclear: nuclear, decayer: decayer}, nil
}

const maxKinematicsAttempts = 100

// Step transports the in-flight hadron at index idx through one
// interaction. The chosen fate is recorded on the hadron's mother. On
// any returned error the hadron has been emitted unchanged as a stable
// final-state particle; the record and remnant stay consistent and the
// caller may continue with the next particle.
func (c *Cascade) Step(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant) (Fate, error) {
	p := rec.Particle(idx)
	if p == nil {
		return FateUndefined, fmt.Errorf("transport index %d: %w", idx, event.ErrNoSuchParticle)
	}

	fate := c.selectFate(rng, p.Code, p.KinE()*1000)
	if mother := rec.Particle(p.Mother); mother != nil {
		mother.Rescatter = int(fate)
	}
	if fate == FateUndefined {
		c.emitUnchanged(p)
		return fate, fmt.Errorf("species %v at %.1f MeV: %w", p.Code, p.KinE()*1000, ErrNoFate)
	}

	var lastErr error
	for attempt := 0; attempt < maxKinematicsAttempts; attempt++ {
		err := c.generate(rng, rec, idx, rem, fate)
		if err == nil {
			return fate, nil
		}
		if !errors.Is(err, ErrKinematics) {
			c.emitUnchanged(p)
			return fate, err
		}
		lastErr = err
	}
	c.emitUnchanged(p)
	return fate, fmt.Errorf("kinematics retries exhausted for %v: %w", fate, lastErr)
}

// emitUnchanged degrades a hadron whose interaction could not be
// realized: it leaves the nucleus with its original four-momentum.
func (c *Cascade) emitUnchanged(p *event.Particle) {
	p.Status = event.StatusStableFinal
}

func (c *Cascade) generate(rng *rand.Rand, rec *event.Record, idx int, rem *Remnant, fate Fate) error {
	switch fate {
	case FateElastic:
		return c.elastic(rng, rec, idx, rem)
	case FateChargeExchange, FateInelastic:
		return c.inelastic(rng, rec, idx, rem, fate)
	case FateAbsorption, FatePionProduction:
		return c.absorb(rng, rec, idx, rem, fate)
	default:
		return fmt.Errorf("fate %v: %w", fate, ErrUnsupportedChannel)
	}
}
