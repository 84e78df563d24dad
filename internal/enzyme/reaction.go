package enzyme

import (
	"math"

	"protocell/internal/chem"
	"protocell/internal/core"
)

// NoiseThreshold is the |rawDelta| below which a composition-preserving
// reaction is treated as a relabeling and rejected.
const NoiseThreshold = 0.01

// Environment is the local physical state a reaction runs in.
type Environment struct {
	Temperature float64
	PH          float64
}

// Host is a read-only view of the cell attempting the reaction.
type Host struct {
	// Energy bounds up-front debits.
	Energy float64
	// Tile is the shared pool of the cell's tile, read by transport.
	Tile []*chem.Molecule
}

// Outcome describes an accepted reaction. The caller applies it: Consumed
// molecules leave their pools, Debit is paid before EnergyDelta is credited.
type Outcome struct {
	Enzyme string

	Consumed   []*chem.Molecule
	Product    *chem.Molecule
	Byproducts []*chem.Molecule
	// Imported molecules enter the cell; Returned ones go back to the tile.
	Imported []*chem.Molecule
	Returned []*chem.Molecule

	Debit       float64
	EnergyDelta float64
	HeatDelta   float64
	// Usable is the net energy the cell gained (negative when it paid).
	// HeatDelta always equals RawDelta - Usable.
	Usable float64

	SubstrateAtomEnergy float64
	ProductAtomEnergy   float64
	RawDelta            float64
	TransmutationGain   float64
}

// Outputs lists every molecule the reaction emitted.
func (o *Outcome) Outputs() []*chem.Molecule {
	out := make([]*chem.Molecule, 0, 1+len(o.Byproducts)+len(o.Imported)+len(o.Returned))
	if o.Product != nil {
		out = append(out, o.Product)
	}
	out = append(out, o.Byproducts...)
	out = append(out, o.Imported...)
	return append(out, o.Returned...)
}

func (o *Outcome) degenerate() bool {
	before := chem.TotalComposition(o.Consumed)
	after := chem.TotalComposition(o.Outputs())
	return before == after && math.Abs(o.RawDelta) < NoiseThreshold
}

// Rate is the probability that e fires in env.
func Rate(e Enzyme, cls Class, env Environment) float64 {
	base := math.Min(1, cls.BaseRate*1.2)
	sigma := e.tolerance()
	dT := env.Temperature - e.TOpt
	tempFactor := math.Exp(-dT * dT / (2 * sigma * sigma))
	pHFactor := math.Exp(-math.Abs(env.PH - e.PHOpt))
	return base * tempFactor * pHFactor
}

// Attempt runs one catalytic attempt of e over available. It returns nil when
// no reaction happens, including for invalid enzymes.
func Attempt(e Enzyme, available []*chem.Molecule, env Environment, host Host, rng *core.RNG) *Outcome {
	if e.Validate() != nil {
		return nil
	}
	cls, ok := ClassFor(e.Kind)
	if !ok {
		return nil
	}

	var substrates []*chem.Molecule
	if cls.MaxInputs > 0 {
		candidates := make([]*chem.Molecule, 0, len(available))
		for _, m := range available {
			if e.Accepts(m) {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		substrates = candidates[:min(cls.MaxInputs, len(candidates))]
	}

	if rng.Float64() > Rate(e, cls, env) {
		return nil
	}

	var out *Outcome
	switch k := e.Kind.(type) {
	case Anabolase:
		out = synthesize(k, cls, substrates, host)
	case Catabolase:
		out = breakDown(k, cls, substrates, rng)
	case Transportase:
		out = transport(e, k, cls, host, rng)
	case Generic:
		out = recombine(k, cls, substrates, host, rng)
	}
	if out == nil || out.degenerate() {
		return nil
	}
	if _, ok := e.Kind.(Catabolase); ok && out.Usable <= 0 {
		return nil
	}
	out.Enzyme = e.Name()
	return out
}
