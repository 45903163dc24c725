// Package hep provides particle species codes, rest masses and relativistic
// four-vector arithmetic shared by the cascade packages.
package hep

import "math"

// Code identifies a particle species using PDG numbering.
type Code int

const (
	CodeUnknown Code = 0
	CodeProton  Code = 2212
	CodeNeutron Code = 2112
	CodePiPlus  Code = 211
	CodePiMinus Code = -211
	CodePiZero  Code = 111
	CodeKPlus   Code = 321
	CodeKMinus  Code = -321
	CodeGamma   Code = 22
)

// Rest masses in GeV.
const (
	MassProton  = 0.938272
	MassNeutron = 0.939565
	MassPiPlus  = 0.139570
	MassPiZero  = 0.134977
	MassKaon    = 0.493677
)

func (c Code) String() string {
	switch c {
	case CodeProton:
		return "p"
	case CodeNeutron:
		return "n"
	case CodePiPlus:
		return "pi+"
	case CodePiMinus:
		return "pi-"
	case CodePiZero:
		return "pi0"
	case CodeKPlus:
		return "K+"
	case CodeKMinus:
		return "K-"
	case CodeGamma:
		return "gamma"
	default:
		return "unknown"
	}
}

// Mass returns the rest mass in GeV, or zero for unknown species.
func (c Code) Mass() float64 {
	switch c {
	case CodeProton:
		return MassProton
	case CodeNeutron:
		return MassNeutron
	case CodePiPlus, CodePiMinus:
		return MassPiPlus
	case CodePiZero:
		return MassPiZero
	case CodeKPlus, CodeKMinus:
		return MassKaon
	default:
		return 0
	}
}

// Charge returns the electric charge in units of e.
func (c Code) Charge() int {
	switch c {
	case CodeProton, CodePiPlus, CodeKPlus:
		return 1
	case CodePiMinus, CodeKMinus:
		return -1
	default:
		return 0
	}
}

// IsNucleon reports whether c is a proton or a neutron.
func (c Code) IsNucleon() bool {
	return c == CodeProton || c == CodeNeutron
}

// IsPion reports whether c is one of the three pion states.
func (c Code) IsPion() bool {
	return c == CodePiPlus || c == CodePiMinus || c == CodePiZero
}

// IsKaon reports whether c is a charged kaon.
func (c Code) IsKaon() bool {
	return c == CodeKPlus || c == CodeKMinus
}

// ParseCode maps a species label to its Code. It accepts the labels
// produced by Code.String.
func ParseCode(label string) (Code, bool) {
	switch label {
	case "p", "proton":
		return CodeProton, true
	case "n", "neutron":
		return CodeNeutron, true
	case "pi+":
		return CodePiPlus, true
	case "pi-":
		return CodePiMinus, true
	case "pi0":
		return CodePiZero, true
	case "K+", "k+":
		return CodeKPlus, true
	case "K-", "k-":
		return CodeKMinus, true
	case "gamma":
		return CodeGamma, true
	default:
		return CodeUnknown, false
	}
}

// NucleusMass returns the rest mass in GeV of a nucleus with a nucleons,
// z of them protons, using the semi-empirical mass formula. Single
// nucleons fall back to their free masses.
func NucleusMass(a, z int) float64 {
	if a <= 0 {
		return 0
	}
	if a == 1 {
		if z == 1 {
			return MassProton
		}
		return MassNeutron
	}
	fa := float64(a)
	fz := float64(z)
	be := 15.67*fa -
		17.23*math.Pow(fa, 2.0/3.0) -
		0.714*fz*(fz-1)/math.Cbrt(fa) -
		23.2*(fa-2*fz)*(fa-2*fz)/fa
	if a%2 == 0 {
		if z%2 == 0 {
			be += 12.0 / math.Sqrt(fa)
		} else {
			be -= 12.0 / math.Sqrt(fa)
		}
	}
	return fz*MassProton + (fa-fz)*MassNeutron - be/1000.0
}
