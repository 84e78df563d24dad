// Package chem defines the element table and derives molecule properties
// from element counts.
package chem

// Element enumerates the atomic species known to the simulation.
type Element uint8

const (
	A Element = iota
	B
	C
	D
	E
	X

	// NumElements is the size of the element table.
	NumElements = int(X) + 1
)

// Properties holds the immutable per-species descriptor.
type Properties struct {
	Symbol   string
	Mass     float64
	Polarity float64
	// Energy is the chemical potential carried by a single atom.
	Energy float64
	// Nutrient elements are pulled into cells by active transport.
	Nutrient bool
	// Hot elements carry enough potential to be transmuted into the inert element.
	Hot bool
}

var table = [NumElements]Properties{
	A: {Symbol: "A", Mass: 1.0, Polarity: 0.9, Energy: 0.5, Nutrient: true},
	B: {Symbol: "B", Mass: 1.2, Polarity: 0.4, Energy: 0.9, Nutrient: true},
	C: {Symbol: "C", Mass: 1.4, Polarity: 0.2, Energy: 0.85, Nutrient: true},
	D: {Symbol: "D", Mass: 1.8, Polarity: 0.1, Energy: 3.0, Hot: true},
	E: {Symbol: "E", Mass: 0.8, Polarity: 1.0, Energy: 2.2, Hot: true},
	X: {Symbol: "X", Mass: 1.0, Polarity: 0.6, Energy: -0.2},
}

// Inert is the element hot atoms transmute into.
const Inert = X

// Props returns the table entry for el. Out-of-range values yield the zero entry.
func (el Element) Props() Properties {
	if int(el) >= NumElements {
		return Properties{}
	}
	return table[el]
}

// String returns the element symbol.
func (el Element) String() string {
	if int(el) >= NumElements {
		return "?"
	}
	return table[el].Symbol
}

// Energy is shorthand for Props().Energy.
func (el Element) Energy() float64 { return el.Props().Energy }

// All returns every element in table order.
func All() []Element {
	out := make([]Element, NumElements)
	for i := range out {
		out[i] = Element(i)
	}
	return out
}

// Parse resolves a symbol such as "A" to its element.
func Parse(symbol string) (Element, bool) {
	for i, p := range table {
		if p.Symbol == symbol {
			return Element(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so elements can key YAML and JSON maps.
func (el Element) MarshalText() ([]byte, error) {
	return []byte(el.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (el *Element) UnmarshalText(b []byte) error {
	v, ok := Parse(string(b))
	if !ok {
		return &UnknownElementError{Symbol: string(b)}
	}
	*el = v
	return nil
}

// UnknownElementError reports a symbol missing from the element table.
type UnknownElementError struct {
	Symbol string
}

func (e *UnknownElementError) Error() string {
	return "chem: unknown element " + `"` + e.Symbol + `"`
}
