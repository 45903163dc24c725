package cascade

import (
	"testing"

	"github.com/hadronlab/cascade/internal/hep"
)

func TestNewRemnantStartsAtRest(t *testing.T) {
	rem := NewRemnant(56, 26)
	if rem.A != 56 || rem.Z != 26 {
		t.Fatalf("remnant A=%d Z=%d, want 56/26", rem.A, rem.Z)
	}
	if rem.P4.P.Mag() != 0 {
		t.Fatalf("remnant momentum = %v, want zero", rem.P4.P)
	}
	if want := hep.NucleusMass(56, 26); rem.P4.E != want {
		t.Fatalf("remnant energy = %v, want nucleus mass %v", rem.P4.E, want)
	}
}

func TestRemnantValid(t *testing.T) {
	tests := []struct {
		name string
		a, z int
		want bool
	}{
		{"iron", 56, 26, true},
		{"bare proton", 1, 1, true},
		{"empty", 0, 0, true},
		{"negative mass number", -1, 0, false},
		{"negative charge", 4, -1, false},
		{"charge above mass number", 3, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rem := Remnant{A: tt.a, Z: tt.z}
			if got := rem.Valid(); got != tt.want {
				t.Fatalf("Valid() A=%d Z=%d = %v, want %v", tt.a, tt.z, got, tt.want)
			}
		})
	}
}

func TestRemnantProtonFraction(t *testing.T) {
	if got := (Remnant{A: 12, Z: 6}).ProtonFraction(); got != 0.5 {
		t.Fatalf("proton fraction = %v, want 0.5", got)
	}
	if got := (Remnant{}).ProtonFraction(); got != 0 {
		t.Fatalf("empty remnant fraction = %v, want 0", got)
	}
	if got := (Remnant{A: 12, Z: 6}).Neutrons(); got != 6 {
		t.Fatalf("neutrons = %d, want 6", got)
	}
}
