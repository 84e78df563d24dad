package chem

// Molecule is a transient reaction unit. Its derived fields are computed once
// at construction; pools track molecules by pointer identity.
type Molecule struct {
	Composition Composition

	Size            int
	Polarity        float64
	ElementalEnergy float64
	// BondMultiplier amplifies elemental energy with stored bond potential.
	BondMultiplier float64
	Energy         float64
}

// New derives a molecule from comp. An empty composition yields a zero-size
// molecule; callers must keep those out of pools.
func New(comp Composition, bondMultiplier float64) *Molecule {
	if bondMultiplier < 0 {
		bondMultiplier = 0
	}
	m := &Molecule{Composition: comp, BondMultiplier: bondMultiplier}
	var polarity float64
	for i, n := range comp {
		if n <= 0 {
			continue
		}
		p := Element(i).Props()
		m.Size += n
		polarity += p.Polarity * float64(n)
		m.ElementalEnergy += p.Energy * float64(n)
	}
	if m.Size > 0 {
		m.Polarity = polarity / float64(m.Size)
	}
	m.Energy = m.ElementalEnergy * bondMultiplier
	return m
}

// Simple builds a molecule with a bond multiplier of 1.
func Simple(counts map[Element]int) *Molecule {
	return New(Of(counts), 1.0)
}

// WithEnergy builds a molecule over comp whose total energy equals energy,
// deriving the bond multiplier. When the elemental energy is not positive the
// fallback multiplier is used instead.
func WithEnergy(comp Composition, energy, fallback float64) *Molecule {
	m := New(comp, 1.0)
	if m.ElementalEnergy > 0 && energy >= 0 {
		return New(comp, energy/m.ElementalEnergy)
	}
	return New(comp, fallback)
}

// Empty reports whether the molecule has no atoms.
func (m *Molecule) Empty() bool { return m == nil || m.Size == 0 }

// Clone returns an independent copy.
func (m *Molecule) Clone() *Molecule {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Has reports whether the molecule contains el.
func (m *Molecule) Has(el Element) bool { return m.Composition.Has(el) }

// String renders the composition.
func (m *Molecule) String() string {
	if m == nil {
		return "—"
	}
	return m.Composition.String()
}

// TotalEnergy sums Energy across ms.
func TotalEnergy(ms []*Molecule) float64 {
	var e float64
	for _, m := range ms {
		if m != nil {
			e += m.Energy
		}
	}
	return e
}

// TotalComposition sums the compositions of ms.
func TotalComposition(ms []*Molecule) Composition {
	var c Composition
	for _, m := range ms {
		if m != nil {
			c = c.Plus(m.Composition)
		}
	}
	return c
}
