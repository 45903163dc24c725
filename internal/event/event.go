// Package event holds the append-only particle record produced by one
// cascade step. The record owns particle bookkeeping: insertion order,
// mother linkage and the rescatter tag set by fate selection.
package event

import (
	"errors"

	"github.com/hadronlab/cascade/internal/hep"
)

// Status describes the lifecycle stage of a recorded particle.
type Status int

const (
	// StatusInFlight marks a hadron still propagating inside the nucleus.
	StatusInFlight Status = iota
	// StatusStableFinal marks a particle handed over to the final state.
	StatusStableFinal
	// StatusDecayed marks an intermediate particle consumed by a decay.
	StatusDecayed
)

func (s Status) String() string {
	switch s {
	case StatusInFlight:
		return "in-flight"
	case StatusStableFinal:
		return "stable"
	case StatusDecayed:
		return "decayed"
	default:
		return "unknown"
	}
}

// RescatterUnset is the rescatter tag of particles that never went
// through fate selection.
const RescatterUnset = -1

// ErrNoSuchParticle indicates an index outside the record.
var ErrNoSuchParticle = errors.New("no particle at index")

// Particle is one entry in the record.
type Particle struct {
	Code      hep.Code
	P4        hep.FourVec
	Status    Status
	Mother    int
	Rescatter int
}

// Mass returns the particle's rest mass in GeV.
func (p Particle) Mass() float64 {
	return p.Code.Mass()
}

// KinE returns the particle's kinetic energy in GeV.
func (p Particle) KinE() float64 {
	return p.P4.KinE(p.Mass())
}

// Record is an append-only particle store keyed by insertion order.
type Record struct {
	particles []Particle
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// Append stores a copy of p and returns its index.
func (r *Record) Append(p Particle) int {
	r.particles = append(r.particles, p)
	return len(r.particles) - 1
}

// Len returns the number of stored particles.
func (r *Record) Len() int {
	return len(r.particles)
}

// Particle returns a mutable reference to the particle at index i, or
// nil when i is outside the record.
func (r *Record) Particle(i int) *Particle {
	if i < 0 || i >= len(r.particles) {
		return nil
	}
	return &r.particles[i]
}

// Probe returns the primary particle that seeded the record, or nil for
// an empty record.
func (r *Record) Probe() *Particle {
	return r.Particle(0)
}

// Daughters returns the indices of all particles whose mother is i, in
// insertion order.
func (r *Record) Daughters(i int) []int {
	var out []int
	for j, p := range r.particles {
		if p.Mother == i {
			out = append(out, j)
		}
	}
	return out
}

// FinalState returns the indices of all stable final-state particles in
// insertion order.
func (r *Record) FinalState() []int {
	var out []int
	for i, p := range r.particles {
		if p.Status == StatusStableFinal {
			out = append(out, i)
		}
	}
	return out
}
