package hep

import "math"

// Vec3 is a 3-momentum or spatial vector in GeV.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v.X, s * v.Y, s * v.Z}
}

// Dot returns the scalar product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Mag2 returns |v|².
func (v Vec3) Mag2() float64 {
	return v.Dot(v)
}

// Mag returns |v|.
func (v Vec3) Mag() float64 {
	return math.Sqrt(v.Mag2())
}

// Unit returns v normalized to unit length; the zero vector maps to the
// +z axis.
func (v Vec3) Unit() Vec3 {
	m := v.Mag()
	if m == 0 {
		return Vec3{0, 0, 1}
	}
	return v.Scale(1 / m)
}

// RotateUz rotates v from a frame whose z axis points along the unit
// vector u into the frame where u is expressed.
func (v Vec3) RotateUz(u Vec3) Vec3 {
	up := u.X*u.X + u.Y*u.Y
	if up > 0 {
		up = math.Sqrt(up)
		return Vec3{
			X: (u.X*u.Z*v.X-u.Y*v.Y)/up + u.X*v.Z,
			Y: (u.Y*u.Z*v.X+u.X*v.Y)/up + u.Y*v.Z,
			Z: -up*v.X + u.Z*v.Z,
		}
	}
	if u.Z < 0 {
		return Vec3{-v.X, v.Y, -v.Z}
	}
	return v
}

// FourVec is an energy-momentum four-vector in GeV.
type FourVec struct {
	E float64
	P Vec3
}

// NewFourVec builds a four-vector from a 3-momentum and a rest mass.
func NewFourVec(p Vec3, mass float64) FourVec {
	return FourVec{E: math.Sqrt(p.Mag2() + mass*mass), P: p}
}

// AtRest returns the four-vector of a particle of the given mass at rest.
func AtRest(mass float64) FourVec {
	return FourVec{E: mass}
}

// Add returns v + w.
func (v FourVec) Add(w FourVec) FourVec {
	return FourVec{E: v.E + w.E, P: v.P.Add(w.P)}
}

// Sub returns v - w.
func (v FourVec) Sub(w FourVec) FourVec {
	return FourVec{E: v.E - w.E, P: v.P.Sub(w.P)}
}

// Scale returns v with every component multiplied by s.
func (v FourVec) Scale(s float64) FourVec {
	return FourVec{E: v.E * s, P: v.P.Scale(s)}
}

// M2 returns the invariant mass squared, which can be negative for
// space-like vectors.
func (v FourVec) M2() float64 {
	return v.E*v.E - v.P.Mag2()
}

// M returns the invariant mass, or zero for space-like vectors.
func (v FourVec) M() float64 {
	m2 := v.M2()
	if m2 <= 0 {
		return 0
	}
	return math.Sqrt(m2)
}

// KinE returns the kinetic energy for the given rest mass.
func (v FourVec) KinE(mass float64) float64 {
	return v.E - mass
}

// BoostVector returns the velocity β of the frame in which v is at rest.
func (v FourVec) BoostVector() Vec3 {
	if v.E == 0 {
		return Vec3{}
	}
	return v.P.Scale(1 / v.E)
}

// Boost applies a Lorentz boost with velocity b to v.
func (v FourVec) Boost(b Vec3) FourVec {
	b2 := b.Mag2()
	gamma := 1 / math.Sqrt(1-b2)
	bp := b.Dot(v.P)
	gamma2 := 0.0
	if b2 > 0 {
		gamma2 = (gamma - 1) / b2
	}
	return FourVec{
		E: gamma * (v.E + bp),
		P: v.P.Add(b.Scale(gamma2*bp + gamma*v.E)),
	}
}
