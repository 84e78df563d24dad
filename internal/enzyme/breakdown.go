package enzyme

import (
	"protocell/internal/chem"
	"protocell/internal/core"
)

// breakDown releases a molecule's stored bond energy, optionally transmuting
// hot atoms, and fragments what is left into one or two byproducts.
func breakDown(k Catabolase, cls Class, substrates []*chem.Molecule, rng *core.RNG) *Outcome {
	if len(substrates) != 1 {
		return nil
	}
	m := substrates[0]
	comp := m.Composition
	var gain float64
	if rng.Chance(k.TransmuteProb) {
		comp, gain = transmute(comp)
	}
	byproducts := make([]*chem.Molecule, 0, 2)
	for _, piece := range fragment(comp, rng) {
		byproducts = append(byproducts, chem.New(piece, 1.0))
	}

	s := m.Energy
	p := chem.TotalEnergy(byproducts)
	raw := s - p - cls.EnergyCost
	if raw <= 0 {
		return nil
	}
	usable := k.HarvestFraction * raw
	return &Outcome{
		Consumed:            substrates,
		Byproducts:          byproducts,
		EnergyDelta:         usable,
		Usable:              usable,
		HeatDelta:           raw - usable,
		SubstrateAtomEnergy: s,
		ProductAtomEnergy:   p,
		RawDelta:            raw,
		TransmutationGain:   gain,
	}
}

// transmute turns every hot atom into the inert element and reports the
// potential released.
func transmute(comp chem.Composition) (chem.Composition, float64) {
	var gain float64
	for _, el := range comp.Elements() {
		if !el.Props().Hot {
			continue
		}
		n := comp.Get(el)
		gain += float64(n) * (el.Energy() - chem.Inert.Energy())
		comp.Set(el, 0)
		comp.Add(chem.Inert, n)
	}
	return comp, gain
}

// fragment splits comp into one or two non-empty pieces by random atom partition.
func fragment(comp chem.Composition, rng *core.RNG) []chem.Composition {
	if comp.Empty() {
		return nil
	}
	atoms := comp.Atoms()
	if len(atoms) < 2 || rng.Bool() {
		return []chem.Composition{comp}
	}
	var left, right chem.Composition
	for _, el := range atoms {
		if rng.Bool() {
			left.Add(el, 1)
		} else {
			right.Add(el, 1)
		}
	}
	if left.Empty() || right.Empty() {
		return []chem.Composition{comp}
	}
	return []chem.Composition{left, right}
}
