package enzyme

import (
	"errors"
	"fmt"
	"math"

	"protocell/internal/chem"
)

var (
	// ErrUnknownKind is returned for enzymes whose kind has no class table entry.
	ErrUnknownKind = errors.New("enzyme: unknown kind")
	// ErrInvalidParameter is returned for out-of-range or missing numeric fields.
	ErrInvalidParameter = errors.New("enzyme: invalid parameter")
)

// DefaultTempTolerance is the temperature σ used when an enzyme leaves it unset.
const DefaultTempTolerance = 0.18

// Affinity weights elements an enzyme binds to. It only filters candidates;
// all-zero weights accept any molecule.
type Affinity [chem.NumElements]float64

// Any reports whether no element carries weight.
func (a Affinity) Any() bool {
	for _, w := range a {
		if w > 0 {
			return false
		}
	}
	return true
}

// Strengthen adds w to the weight of el.
func (a *Affinity) Strengthen(el chem.Element, w float64) {
	if int(el) < chem.NumElements {
		a[el] += w
	}
}

// Binds reports whether m shares a weighted element with a.
func (a Affinity) Binds(m *chem.Molecule) bool {
	for i, w := range a {
		if w > 0 && m.Composition.Get(chem.Element(i)) > 0 {
			return true
		}
	}
	return false
}

// MarshalYAML encodes the affinity as a symbol-keyed mapping.
func (a Affinity) MarshalYAML() (any, error) {
	out := make(map[chem.Element]float64)
	for i, w := range a {
		if w != 0 {
			out[chem.Element(i)] = w
		}
	}
	return out, nil
}

// UnmarshalYAML decodes a symbol-keyed mapping.
func (a *Affinity) UnmarshalYAML(unmarshal func(any) error) error {
	var m map[chem.Element]float64
	if err := unmarshal(&m); err != nil {
		return err
	}
	*a = Affinity{}
	for el, w := range m {
		a.Strengthen(el, w)
	}
	return nil
}

// Enzyme is one catalytic capability on a genome.
type Enzyme struct {
	Kind     Kind
	Affinity Affinity
	TOpt     float64
	PHOpt    float64
	// TempTolerance is σ of the temperature response; zero selects the default.
	TempTolerance float64
	// SecretionProb overrides the genome default when set.
	SecretionProb *float64
}

// New returns an enzyme of the named kind with default parameters.
func New(kind string, tOpt, pHOpt float64) Enzyme {
	return Enzyme{Kind: KindFromName(kind), TOpt: tOpt, PHOpt: pHOpt}
}

// Clone returns a deep copy.
func (e Enzyme) Clone() Enzyme {
	if e.SecretionProb != nil {
		p := *e.SecretionProb
		e.SecretionProb = &p
	}
	return e
}

// Name is the kind name, or "" for an enzyme without a kind.
func (e Enzyme) Name() string {
	if e.Kind == nil {
		return ""
	}
	return e.Kind.Name()
}

func (e Enzyme) tolerance() float64 {
	if e.TempTolerance > 0 {
		return e.TempTolerance
	}
	return DefaultTempTolerance
}

// Accepts reports whether m qualifies as a substrate.
func (e Enzyme) Accepts(m *chem.Molecule) bool {
	if m.Empty() {
		return false
	}
	if e.Affinity.Any() || e.Affinity.Binds(m) {
		return true
	}
	// Strained molecules are always worth breaking.
	if _, ok := e.Kind.(Catabolase); ok && m.BondMultiplier > 1 && m.Size > 1 {
		return true
	}
	return false
}

// Validate checks the enzyme is runnable.
func (e Enzyme) Validate() error {
	if _, ok := ClassFor(e.Kind); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Name())
	}
	if !unit(e.TOpt) {
		return fmt.Errorf("%w: t_opt %v", ErrInvalidParameter, e.TOpt)
	}
	if !unit(e.PHOpt) {
		return fmt.Errorf("%w: ph_opt %v", ErrInvalidParameter, e.PHOpt)
	}
	if e.TempTolerance < 0 || math.IsNaN(e.TempTolerance) {
		return fmt.Errorf("%w: temp_tolerance %v", ErrInvalidParameter, e.TempTolerance)
	}
	if e.SecretionProb != nil && !unit(*e.SecretionProb) {
		return fmt.Errorf("%w: secretion_prob %v", ErrInvalidParameter, *e.SecretionProb)
	}
	switch k := e.Kind.(type) {
	case Anabolase:
		if k.BondMultiplier < 1 || math.IsNaN(k.BondMultiplier) {
			return fmt.Errorf("%w: bond_multiplier %v", ErrInvalidParameter, k.BondMultiplier)
		}
	case Catabolase:
		if !unit(k.TransmuteProb) || !unit(k.HarvestFraction) {
			return fmt.Errorf("%w: catabolase probabilities %v/%v", ErrInvalidParameter, k.TransmuteProb, k.HarvestFraction)
		}
	case Transportase:
		if k.Rate < 0 || k.CostPerAtom < 0 {
			return fmt.Errorf("%w: transport rate %d cost %v", ErrInvalidParameter, k.Rate, k.CostPerAtom)
		}
	case Generic:
		if !unit(k.TransmuteProb) || !unit(k.HarvestFraction) {
			return fmt.Errorf("%w: %s probabilities %v/%v", ErrInvalidParameter, k.Type, k.TransmuteProb, k.HarvestFraction)
		}
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

type enzymeYAML struct {
	Type              string   `yaml:"type"`
	Affinity          Affinity `yaml:"affinity,omitempty"`
	TOpt              float64  `yaml:"t_opt"`
	PHOpt             float64  `yaml:"ph_opt"`
	TempTolerance     float64  `yaml:"temp_tolerance,omitempty"`
	SecretionProb     *float64 `yaml:"secretion_prob,omitempty"`
	BondMultiplier    *float64 `yaml:"bond_multiplier,omitempty"`
	TransmuteProb     *float64 `yaml:"transmute_prob,omitempty"`
	HarvestFraction   *float64 `yaml:"harvest_fraction,omitempty"`
	TransportRate     *int     `yaml:"transport_rate,omitempty"`
	ActiveCostPerAtom *float64 `yaml:"active_cost_per_atom,omitempty"`
}

// MarshalYAML flattens the kind into a type tag plus its parameters.
func (e Enzyme) MarshalYAML() (any, error) {
	out := enzymeYAML{
		Type:          e.Name(),
		Affinity:      e.Affinity,
		TOpt:          e.TOpt,
		PHOpt:         e.PHOpt,
		TempTolerance: e.TempTolerance,
		SecretionProb: e.SecretionProb,
	}
	switch k := e.Kind.(type) {
	case Anabolase:
		out.BondMultiplier = &k.BondMultiplier
	case Catabolase:
		out.TransmuteProb, out.HarvestFraction = &k.TransmuteProb, &k.HarvestFraction
	case Transportase:
		out.TransportRate, out.ActiveCostPerAtom = &k.Rate, &k.CostPerAtom
	case Generic:
		out.TransmuteProb, out.HarvestFraction = &k.TransmuteProb, &k.HarvestFraction
	}
	return out, nil
}

// UnmarshalYAML reads a type tag, starting from that kind's defaults and
// overriding any parameters present.
func (e *Enzyme) UnmarshalYAML(unmarshal func(any) error) error {
	var in enzymeYAML
	if err := unmarshal(&in); err != nil {
		return err
	}
	kind := KindFromName(in.Type)
	switch k := kind.(type) {
	case Anabolase:
		if in.BondMultiplier != nil {
			k.BondMultiplier = *in.BondMultiplier
		}
		kind = k
	case Catabolase:
		if in.TransmuteProb != nil {
			k.TransmuteProb = *in.TransmuteProb
		}
		if in.HarvestFraction != nil {
			k.HarvestFraction = *in.HarvestFraction
		}
		kind = k
	case Transportase:
		if in.TransportRate != nil {
			k.Rate = *in.TransportRate
		}
		if in.ActiveCostPerAtom != nil {
			k.CostPerAtom = *in.ActiveCostPerAtom
		}
		kind = k
	case Generic:
		if in.TransmuteProb != nil {
			k.TransmuteProb = *in.TransmuteProb
		}
		if in.HarvestFraction != nil {
			k.HarvestFraction = *in.HarvestFraction
		}
		kind = k
	}
	*e = Enzyme{
		Kind:          kind,
		Affinity:      in.Affinity,
		TOpt:          in.TOpt,
		PHOpt:         in.PHOpt,
		TempTolerance: in.TempTolerance,
		SecretionProb: in.SecretionProb,
	}
	return nil
}
