package cascade

import (
	"errors"
	"fmt"
)

// ErrKinematics indicates a recoverable failure: the requested final
// state was kinematically unreachable for this attempt. The transport
// step retries kinematics generation for the same fate.
var ErrKinematics = errors.New("kinematics generation failed")

// ErrSamplingDeadlock indicates the multiplicity rejection loop hit its
// iteration bound. It is recoverable at the transport level.
var ErrSamplingDeadlock = fmt.Errorf("multiplicity sampling exceeded iteration bound: %w", ErrKinematics)

// ErrNoFate indicates fate selection exhausted its retries without
// picking a channel. Terminal: the particle passes through unchanged.
var ErrNoFate = errors.New("no fate selected")

// ErrRemnantExhausted indicates the remnant nucleus has too few
// nucleons for the chosen channel. Terminal for this particle.
var ErrRemnantExhausted = errors.New("remnant nucleus cannot support channel")

// ErrChargeBalance indicates the channel would remove more protons than
// the remnant holds. Terminal for this particle.
var ErrChargeBalance = errors.New("too few protons in remnant")

// ErrUnphysicalAngle indicates the angle sampler found no physical
// solution. Terminal: the particle is placed outside the nucleus.
var ErrUnphysicalAngle = errors.New("no physical scattering angle")

// ErrUnsupportedChannel indicates the generator cannot handle the
// species/fate pair. Terminal for this particle.
var ErrUnsupportedChannel = errors.New("channel not supported for species")

func kinematicf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrKinematics)...)
}
