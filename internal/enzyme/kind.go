package enzyme

import "sort"

// Kind is the closed set of catalytic behaviors. Each variant carries only the
// kinetic parameters its transformation reads.
type Kind interface {
	Name() string
	isKind()
}

// Anabolase joins substrates into one product, storing energy as bond potential.
type Anabolase struct {
	BondMultiplier float64
}

// Catabolase breaks a single molecule apart and harvests the released energy.
type Catabolase struct {
	TransmuteProb   float64
	HarvestFraction float64
}

// Transportase pulls nutrient atoms from the tile pool into the cell.
type Transportase struct {
	// Rate caps the number of atoms moved per reaction.
	Rate        int
	CostPerAtom float64
}

// Generic covers every other named class; it recombines substrate atoms into
// a primary product and a byproduct.
type Generic struct {
	Type            string
	TransmuteProb   float64
	HarvestFraction float64
}

func (Anabolase) Name() string    { return "anabolase" }
func (Catabolase) Name() string   { return "catabolase" }
func (Transportase) Name() string { return "transportase" }
func (g Generic) Name() string    { return g.Type }

func (Anabolase) isKind()    {}
func (Catabolase) isKind()   {}
func (Transportase) isKind() {}
func (Generic) isKind()      {}

const (
	defaultBondMultiplier  = 1.15
	defaultHarvestFraction = 0.85
	defaultTransmuteProb   = 0.1
	defaultTransportRate   = 4
	defaultCostPerAtom     = 0.01
)

// KindFromName returns the variant for name populated with default
// parameters. Names without a specialized routine map to Generic.
// Transformations read the stored values as given, so a zero field disables
// that effect.
func KindFromName(name string) Kind {
	switch name {
	case "anabolase":
		return Anabolase{BondMultiplier: defaultBondMultiplier}
	case "catabolase":
		return Catabolase{TransmuteProb: defaultTransmuteProb, HarvestFraction: defaultHarvestFraction}
	case "transportase":
		return Transportase{Rate: defaultTransportRate, CostPerAtom: defaultCostPerAtom}
	default:
		return Generic{Type: name, TransmuteProb: defaultTransmuteProb, HarvestFraction: defaultHarvestFraction}
	}
}

// KnownKinds lists every class name in the class table, sorted.
func KnownKinds() []string {
	out := make([]string, 0, len(classes))
	for name := range classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
