package enzyme

import (
	"protocell/internal/chem"
	"protocell/internal/core"
)

// transport moves up to Rate nutrient atoms out of accepted tile molecules.
// Leftover atoms of a split molecule return to the tile with the same bond
// multiplier, so the move itself is energy neutral and only the pumping cost
// is paid.
func transport(e Enzyme, k Transportase, cls Class, host Host, rng *core.RNG) *Outcome {
	pool := make([]*chem.Molecule, 0, len(host.Tile))
	for _, m := range host.Tile {
		if e.Accepts(m) && nutrientAtoms(m.Composition) > 0 {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	budget := k.Rate
	moved := 0
	out := &Outcome{}
	for _, m := range pool {
		if budget <= 0 {
			break
		}
		var taken chem.Composition
		for _, el := range m.Composition.Elements() {
			if !el.Props().Nutrient || budget <= 0 {
				continue
			}
			n := min(m.Composition.Get(el), budget)
			taken.Add(el, n)
			budget -= n
		}
		if taken.Empty() {
			continue
		}
		moved += taken.Size()
		out.Consumed = append(out.Consumed, m)
		out.Imported = append(out.Imported, chem.New(taken, m.BondMultiplier))
		if rest := m.Composition.Minus(taken); !rest.Empty() {
			out.Returned = append(out.Returned, chem.New(rest, m.BondMultiplier))
		}
	}
	if moved == 0 {
		return nil
	}
	cost := cls.EnergyCost + k.CostPerAtom*float64(moved)
	if host.Energy < cost {
		return nil
	}
	out.Debit = cost
	out.Usable = -cost
	out.RawDelta = -cost
	out.SubstrateAtomEnergy = chem.TotalEnergy(out.Consumed)
	out.ProductAtomEnergy = chem.TotalEnergy(out.Imported) + chem.TotalEnergy(out.Returned)
	return out
}

func nutrientAtoms(c chem.Composition) int {
	n := 0
	for _, el := range c.Elements() {
		if el.Props().Nutrient {
			n += c.Get(el)
		}
	}
	return n
}
