package hadrodata

import (
	"github.com/hadronlab/cascade/internal/cascade"
	"github.com/hadronlab/cascade/internal/hep"
)

// defaultGrid lists the built-in fraction grid. Values are coarse
// hadron-carbon fits; a database-backed table overrides them when
// configured.
var defaultGrid = []Entry{
	// pi+ and pi-: absorption peaks near the delta resonance, pion
	// production opens above threshold.
	{hep.CodePiPlus, cascade.FateChargeExchange, 50, 0.12},
	{hep.CodePiPlus, cascade.FateChargeExchange, 100, 0.11},
	{hep.CodePiPlus, cascade.FateChargeExchange, 165, 0.10},
	{hep.CodePiPlus, cascade.FateChargeExchange, 300, 0.07},
	{hep.CodePiPlus, cascade.FateChargeExchange, 500, 0.04},
	{hep.CodePiPlus, cascade.FateElastic, 50, 0.35},
	{hep.CodePiPlus, cascade.FateElastic, 100, 0.32},
	{hep.CodePiPlus, cascade.FateElastic, 165, 0.30},
	{hep.CodePiPlus, cascade.FateElastic, 300, 0.28},
	{hep.CodePiPlus, cascade.FateElastic, 500, 0.25},
	{hep.CodePiPlus, cascade.FateInelastic, 50, 0.25},
	{hep.CodePiPlus, cascade.FateInelastic, 100, 0.28},
	{hep.CodePiPlus, cascade.FateInelastic, 165, 0.30},
	{hep.CodePiPlus, cascade.FateInelastic, 300, 0.38},
	{hep.CodePiPlus, cascade.FateInelastic, 500, 0.45},
	{hep.CodePiPlus, cascade.FateAbsorption, 50, 0.28},
	{hep.CodePiPlus, cascade.FateAbsorption, 100, 0.27},
	{hep.CodePiPlus, cascade.FateAbsorption, 165, 0.25},
	{hep.CodePiPlus, cascade.FateAbsorption, 300, 0.15},
	{hep.CodePiPlus, cascade.FateAbsorption, 500, 0.08},
	{hep.CodePiPlus, cascade.FatePionProduction, 50, 0.0},
	{hep.CodePiPlus, cascade.FatePionProduction, 100, 0.0},
	{hep.CodePiPlus, cascade.FatePionProduction, 165, 0.02},
	{hep.CodePiPlus, cascade.FatePionProduction, 300, 0.10},
	{hep.CodePiPlus, cascade.FatePionProduction, 500, 0.17},
}

// mirrorSpecies copies one species' grid onto another with a uniform
// scale on every fraction.
func mirrorSpecies(t *Table, from, to hep.Code, scale float64) {
	for _, e := range t.Entries() {
		if e.Species == from {
			t.Add(to, e.Fate, e.KE, e.Frac*scale)
		}
	}
}

// Defaults returns the built-in fraction table covering pions,
// nucleons and kaons.
func Defaults() *Table {
	t := NewTable()
	for _, e := range defaultGrid {
		t.Add(e.Species, e.Fate, e.KE, e.Frac)
	}

	// negative and neutral pions follow the pi+ shapes
	mirrorSpecies(t, hep.CodePiPlus, hep.CodePiMinus, 1.0)
	mirrorSpecies(t, hep.CodePiPlus, hep.CodePiZero, 0.95)

	// nucleons: no real absorption dip, mostly elastic and inelastic
	for _, code := range []hep.Code{hep.CodeProton, hep.CodeNeutron} {
		t.Set(code, cascade.FateChargeExchange, []Point{{50, 0.08}, {150, 0.06}, {300, 0.04}, {600, 0.02}})
		t.Set(code, cascade.FateElastic, []Point{{50, 0.45}, {150, 0.40}, {300, 0.35}, {600, 0.30}})
		t.Set(code, cascade.FateInelastic, []Point{{50, 0.40}, {150, 0.45}, {300, 0.50}, {600, 0.55}})
		t.Set(code, cascade.FateAbsorption, []Point{{50, 0.07}, {150, 0.09}, {300, 0.09}, {600, 0.08}})
		t.Set(code, cascade.FatePionProduction, []Point{{50, 0.0}, {150, 0.0}, {300, 0.02}, {600, 0.05}})
	}

	// kaons interact only through scattering or absorption
	for _, code := range []hep.Code{hep.CodeKPlus, hep.CodeKMinus} {
		t.Set(code, cascade.FateInelastic, []Point{{100, 0.75}, {300, 0.80}, {600, 0.85}})
		t.Set(code, cascade.FateAbsorption, []Point{{100, 0.25}, {300, 0.20}, {600, 0.15}})
	}
	return t
}
