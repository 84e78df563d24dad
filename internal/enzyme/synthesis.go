package enzyme

import "protocell/internal/chem"

// synthesize joins substrates into one molecule whose energy is the substrate
// energy scaled by the bond multiplier. The cell pays for the stored energy
// plus the class cost up front; the stored part is drawn from ambient heat.
func synthesize(k Anabolase, cls Class, substrates []*chem.Molecule, host Host) *Outcome {
	if len(substrates) < 2 {
		return nil
	}
	s := chem.TotalEnergy(substrates)
	product := chem.WithEnergy(chem.TotalComposition(substrates), s*k.BondMultiplier, k.BondMultiplier)
	if product.Empty() {
		return nil
	}
	p := product.Energy
	stored := p - s
	if stored < 0 {
		return nil
	}
	cost := stored + cls.EnergyCost
	if host.Energy < cost {
		return nil
	}
	return &Outcome{
		Consumed:            substrates,
		Product:             product,
		Debit:               cost,
		EnergyDelta:         0,
		Usable:              -cls.EnergyCost,
		HeatDelta:           -stored,
		SubstrateAtomEnergy: s,
		ProductAtomEnergy:   p,
		RawDelta:            s - p - cls.EnergyCost,
	}
}
