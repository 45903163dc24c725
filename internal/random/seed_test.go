package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	if a == b {
		t.Errorf("two seeds are identical: %d", a)
	}
}

func TestNewStreamDeterministic(t *testing.T) {
	r1 := NewStream(42)
	r2 := NewStream(42)
	for i := 0; i < 10; i++ {
		if a, b := r1.Float64(), r2.Float64(); a != b {
			t.Fatalf("draw %d diverged: %v vs %v", i, a, b)
		}
	}
}
