// Package hadrodata supplies the tabulated physics inputs of the
// transport engine: interaction fractions per species and channel, and
// empirical scattering-angle distributions.
package hadrodata

import (
	"sort"

	"github.com/hadronlab/cascade/internal/cascade"
	"github.com/hadronlab/cascade/internal/hep"
)

// Point is one kinetic-energy grid entry, KE in MeV.
type Point struct {
	KE   float64
	Frac float64
}

// Entry is one flattened table row, used for persistence.
type Entry struct {
	Species hep.Code
	Fate    cascade.Fate
	KE      float64
	Frac    float64
}

type tableKey struct {
	code hep.Code
	fate cascade.Fate
}

// Table is an in-memory fraction source with linear interpolation
// between grid points and clamping outside the grid.
type Table struct {
	fractions map[tableKey][]Point
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{fractions: make(map[tableKey][]Point)}
}

// Set stores the grid for one species/channel pair, replacing any
// previous grid. Points are kept sorted by kinetic energy.
func (t *Table) Set(code hep.Code, fate cascade.Fate, points []Point) {
	grid := make([]Point, len(points))
	copy(grid, points)
	sort.Slice(grid, func(i, j int) bool { return grid[i].KE < grid[j].KE })
	t.fractions[tableKey{code, fate}] = grid
}

// Add appends a single grid point for one species/channel pair.
func (t *Table) Add(code hep.Code, fate cascade.Fate, ke, frac float64) {
	key := tableKey{code, fate}
	grid := append(t.fractions[key], Point{KE: ke, Frac: frac})
	sort.Slice(grid, func(i, j int) bool { return grid[i].KE < grid[j].KE })
	t.fractions[key] = grid
}

// Frac returns the interpolated fraction for the species/channel pair
// at kinetic energy keMeV. Unknown pairs return zero.
func (t *Table) Frac(code hep.Code, fate cascade.Fate, keMeV float64) float64 {
	grid := t.fractions[tableKey{code, fate}]
	if len(grid) == 0 {
		return 0
	}
	if keMeV <= grid[0].KE {
		return grid[0].Frac
	}
	last := grid[len(grid)-1]
	if keMeV >= last.KE {
		return last.Frac
	}
	i := sort.Search(len(grid), func(i int) bool { return grid[i].KE >= keMeV })
	lo, hi := grid[i-1], grid[i]
	f := (keMeV - lo.KE) / (hi.KE - lo.KE)
	return lo.Frac + f*(hi.Frac-lo.Frac)
}

// Entries returns every grid point in deterministic order.
func (t *Table) Entries() []Entry {
	keys := make([]tableKey, 0, len(t.fractions))
	for k := range t.fractions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].fate < keys[j].fate
	})

	var out []Entry
	for _, k := range keys {
		for _, p := range t.fractions[k] {
			out = append(out, Entry{Species: k.code, Fate: k.fate, KE: p.KE, Frac: p.Frac})
		}
	}
	return out
}
