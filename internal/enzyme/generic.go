package enzyme

import (
	"protocell/internal/chem"
	"protocell/internal/core"
)

// primaryShare is the per-atom probability of landing in the primary product.
const primaryShare = 0.7

// recombine pools substrate atoms and redistributes them into a primary
// product and an optional byproduct. Released energy is harvested like a
// breakdown; an energy deficit is debited from the cell.
func recombine(k Generic, cls Class, substrates []*chem.Molecule, host Host, rng *core.RNG) *Outcome {
	if len(substrates) == 0 {
		return nil
	}
	comp := chem.TotalComposition(substrates)
	var gain float64
	if rng.Chance(k.TransmuteProb) {
		comp, gain = transmute(comp)
	}
	var primary, rest chem.Composition
	for _, el := range comp.Atoms() {
		if rng.Chance(primaryShare) {
			primary.Add(el, 1)
		} else {
			rest.Add(el, 1)
		}
	}
	if primary.Empty() {
		primary, rest = rest, primary
	}
	if primary.Empty() {
		return nil
	}

	out := &Outcome{
		Consumed:          substrates,
		Product:           chem.New(primary, 1.0),
		TransmutationGain: gain,
	}
	if !rest.Empty() {
		out.Byproducts = []*chem.Molecule{chem.New(rest, 1.0)}
	}
	s := chem.TotalEnergy(substrates)
	p := out.Product.Energy + chem.TotalEnergy(out.Byproducts)
	raw := s - p - cls.EnergyCost
	out.SubstrateAtomEnergy, out.ProductAtomEnergy, out.RawDelta = s, p, raw

	if raw >= 0 {
		usable := k.HarvestFraction * raw
		out.EnergyDelta = usable
		out.Usable = usable
		out.HeatDelta = raw - usable
		return out
	}
	if host.Energy < -raw {
		return nil
	}
	out.Debit = -raw
	out.Usable = raw
	return out
}
