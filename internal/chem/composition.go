package chem

import (
	"strconv"
	"strings"
)

// Composition counts atoms per element. The zero value is the empty
// composition; a zero count means the element is absent and counts are never
// negative.
type Composition [NumElements]int

// Of builds a composition from element/count pairs. Non-positive counts are dropped.
func Of(counts map[Element]int) Composition {
	var c Composition
	for el, n := range counts {
		c.Add(el, n)
	}
	return c
}

// Get returns the count for el.
func (c Composition) Get(el Element) int {
	if int(el) >= NumElements {
		return 0
	}
	return c[el]
}

// Set stores n for el, normalizing negative values to zero.
func (c *Composition) Set(el Element, n int) {
	if int(el) >= NumElements {
		return
	}
	if n < 0 {
		n = 0
	}
	c[el] = n
}

// Add increments el by n; the result never drops below zero.
func (c *Composition) Add(el Element, n int) {
	c.Set(el, c.Get(el)+n)
}

// Sub decrements el by n, clamping at zero.
func (c *Composition) Sub(el Element, n int) {
	c.Set(el, c.Get(el)-n)
}

// Plus returns the element-wise sum of c and o.
func (c Composition) Plus(o Composition) Composition {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Minus returns c with o removed, clamping each count at zero.
func (c Composition) Minus(o Composition) Composition {
	for i := range c {
		c.Sub(Element(i), o[i])
	}
	return c
}

// Covers reports whether c holds at least as many atoms of every element as o.
func (c Composition) Covers(o Composition) bool {
	for i := range c {
		if c[i] < o[i] {
			return false
		}
	}
	return true
}

// Size is the total atom count.
func (c Composition) Size() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Empty reports whether no atoms are present.
func (c Composition) Empty() bool { return c.Size() == 0 }

// Has reports whether el is present.
func (c Composition) Has(el Element) bool { return c.Get(el) > 0 }

// Elements lists the present elements in table order.
func (c Composition) Elements() []Element {
	out := make([]Element, 0, NumElements)
	for i, v := range c {
		if v > 0 {
			out = append(out, Element(i))
		}
	}
	return out
}

// Atoms expands the composition into one entry per atom, in table order.
func (c Composition) Atoms() []Element {
	out := make([]Element, 0, c.Size())
	for i, v := range c {
		for k := 0; k < v; k++ {
			out = append(out, Element(i))
		}
	}
	return out
}

// FromAtoms is the inverse of Atoms.
func FromAtoms(atoms []Element) Composition {
	var c Composition
	for _, el := range atoms {
		c.Add(el, 1)
	}
	return c
}

// String renders the composition as symbol/count pairs, e.g. "A2B1".
func (c Composition) String() string {
	if c.Empty() {
		return "—"
	}
	var sb strings.Builder
	for i, v := range c {
		if v <= 0 {
			continue
		}
		sb.WriteString(Element(i).String())
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Map converts the composition into an element-keyed map of present counts.
func (c Composition) Map() map[Element]int {
	out := make(map[Element]int, NumElements)
	for i, v := range c {
		if v > 0 {
			out[Element(i)] = v
		}
	}
	return out
}

// MarshalYAML encodes the composition as a symbol-keyed mapping.
func (c Composition) MarshalYAML() (any, error) {
	return c.Map(), nil
}

// UnmarshalYAML decodes a symbol-keyed mapping.
func (c *Composition) UnmarshalYAML(unmarshal func(any) error) error {
	var m map[Element]int
	if err := unmarshal(&m); err != nil {
		return err
	}
	*c = Of(m)
	return nil
}
