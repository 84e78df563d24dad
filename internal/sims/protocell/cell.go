package protocell

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"protocell/internal/chem"
	"protocell/internal/enzyme"
	"protocell/internal/genome"
)

// State is the lifecycle stage of a cell. Dead is terminal.
type State uint8

const (
	Active State = iota
	Dead
)

func (s State) String() string {
	if s == Dead {
		return "dead"
	}
	return "active"
}

// DeathCause records why a cell died.
type DeathCause string

const (
	CauseNone         DeathCause = ""
	CauseStarvation   DeathCause = "starvation"
	CauseExhaustion   DeathCause = "exhaustion"
	CausePostDivision DeathCause = "post-division"
)

// Cell is a metabolizing agent living on one tile.
type Cell struct {
	ID string

	genome    *genome.Genome
	energy    float64
	molecules []*chem.Molecule
	starving  float64
	state     State
	cause     DeathCause
	lineage   uint64
	born      float64
	died      float64
	log       *ReactionLog

	x, y     int
	bornTick uint64
}

// NewCell returns an active cell owning g.
func NewCell(g *genome.Genome, energy, now float64) *Cell {
	return &Cell{
		ID:      uuid.NewString(),
		genome:  g,
		energy:  math.Max(0, energy),
		lineage: g.LineageID,
		born:    now,
		log:     NewReactionLog(DefaultLogCapacity),
	}
}

func (c *Cell) Genome() *genome.Genome      { return c.genome }
func (c *Cell) Energy() float64             { return c.energy }
func (c *Cell) Molecules() []*chem.Molecule { return c.molecules }
func (c *Cell) State() State                { return c.state }
func (c *Cell) Alive() bool                 { return c.state == Active }
func (c *Cell) LineageID() uint64           { return c.lineage }
func (c *Cell) BirthSimTime() float64       { return c.born }
func (c *Cell) DeathSimTime() float64       { return c.died }
func (c *Cell) DeathCause() DeathCause      { return c.cause }
func (c *Cell) ReactionLog() *ReactionLog   { return c.log }

// TimeWithoutFood is the combined starvation and thermal stress clock in
// milliseconds.
func (c *Cell) TimeWithoutFood() float64 { return c.starving }

// Pos is the tile the cell occupies.
func (c *Cell) Pos() (int, int) { return c.x, c.y }

// Age is the time lived up to now, or up to death.
func (c *Cell) Age(now float64) float64 {
	if c.state == Dead {
		return c.died - c.born
	}
	return now - c.born
}

// TotalInternalAtoms sums the sizes of the internal pool.
func (c *Cell) TotalInternalAtoms() int {
	n := 0
	for _, m := range c.molecules {
		n += m.Size
	}
	return n
}

func (c *Cell) internalCount(el chem.Element) int {
	n := 0
	for _, m := range c.molecules {
		n += m.Composition.Get(el)
	}
	return n
}

// DominantElement is the element with the most internal atoms. It reports
// false for an empty pool.
func (c *Cell) DominantElement() (chem.Element, bool) {
	total := chem.TotalComposition(c.molecules)
	best, bestN := chem.A, 0
	for _, el := range chem.All() {
		if n := total.Get(el); n > bestN {
			best, bestN = el, n
		}
	}
	return best, bestN > 0
}

type exportedLog struct {
	ID      string     `json:"id"`
	Lineage uint64     `json:"lineage"`
	State   string     `json:"state"`
	Entries []LogEntry `json:"entries"`
}

// ExportLog renders the reaction log as JSON, newest entry first.
func (c *Cell) ExportLog() ([]byte, error) {
	return json.MarshalIndent(exportedLog{
		ID:      c.ID,
		Lineage: c.lineage,
		State:   c.state.String(),
		Entries: c.log.Entries(),
	}, "", "  ")
}

type stepEnv struct {
	Temperature float64
	PH          float64
	DT          float64
	Now         float64
}

// step runs one metabolic tick of c on tile t.
func (c *Cell) step(w *World, t *Tile, env stepEnv) {
	if c.state != Active {
		return
	}
	g := c.genome

	var gained float64
	for _, e := range g.Enzymes {
		available := make([]*chem.Molecule, 0, len(t.Molecules)+len(c.molecules))
		available = append(available, t.Molecules...)
		available = append(available, c.molecules...)
		out := enzyme.Attempt(e, available,
			enzyme.Environment{Temperature: env.Temperature, PH: env.PH},
			enzyme.Host{Energy: c.energy, Tile: t.Molecules},
			w.rng)
		if out == nil {
			continue
		}
		c.apply(w, t, e, out, env.Now)
		gained += out.Usable
	}

	if limit := 2 * g.DesiredElementReserve; c.TotalInternalAtoms() < limit && len(t.Molecules) > 0 {
		m := t.Molecules[w.rng.IntN(len(t.Molecules))]
		t.RemoveMolecule(m)
		c.molecules = append(c.molecules, m)
	}

	if gained > 0 {
		c.starving = 0
	} else {
		c.starving += env.DT
	}
	if cost := g.MaintenanceCostPerSec * env.DT / 1000; cost > 0 {
		c.energy -= cost
		if c.energy <= 0 {
			c.energy = 0
			c.die(w, env.Now, CauseExhaustion)
			return
		}
	}

	dist := math.Abs(t.Temperature - g.PreferredTemp())
	c.starving += math.Pow(dist, w.cfg.Params.StressPower) * g.TempStressFactor * float64(max(1, len(g.Enzymes)))
	if c.starving > g.DecayTime {
		c.die(w, env.Now, CauseStarvation)
		return
	}

	if c.energy >= g.ReproThreshold {
		c.divide(w, env.Now)
	}
}

// apply commits a reaction outcome to the cell, its tile and the neighborhood.
func (c *Cell) apply(w *World, t *Tile, e enzyme.Enzyme, out *enzyme.Outcome, now float64) {
	for _, m := range out.Consumed {
		if !t.RemoveMolecule(m) {
			c.removeMolecule(m)
		}
	}
	c.energy = math.Max(0, c.energy-out.Debit+out.EnergyDelta)

	if !out.Product.Empty() {
		if c.shouldSecrete(w, e, out.Product) {
			w.AddProductAround(t.X, t.Y, out.Product)
		} else {
			c.molecules = append(c.molecules, out.Product)
		}
	}
	for _, b := range out.Byproducts {
		w.AddProductAround(t.X, t.Y, b)
	}
	for _, m := range out.Imported {
		if !m.Empty() {
			c.molecules = append(c.molecules, m)
		}
	}
	for _, m := range out.Returned {
		t.AddMolecule(m)
	}

	before := t.Temperature
	w.applyHeat(t.X, t.Y, out.HeatDelta)

	c.log.Push(LogEntry{
		Time:                now,
		Age:                 now - c.born,
		Enzyme:              out.Enzyme,
		Substrates:          formulas(out.Consumed),
		Product:             formula(out.Product),
		Byproducts:          formulas(out.Byproducts),
		Imported:            formulas(out.Imported),
		EnergyDelta:         out.EnergyDelta,
		Debit:               out.Debit,
		HeatDelta:           out.HeatDelta,
		TempDelta:           t.Temperature - before,
		SubstrateAtomEnergy: out.SubstrateAtomEnergy,
		ProductAtomEnergy:   out.ProductAtomEnergy,
		RawDelta:            out.RawDelta,
	})
}

// shouldSecrete keeps products until the cell holds its reserve of every
// element in them, then secretes with the enzyme's probability.
func (c *Cell) shouldSecrete(w *World, e enzyme.Enzyme, product *chem.Molecule) bool {
	for _, el := range product.Composition.Elements() {
		if c.internalCount(el) < c.genome.DesiredElementReserve {
			return false
		}
	}
	return w.rng.Chance(c.genome.SecretionProb(e))
}

func (c *Cell) removeMolecule(m *chem.Molecule) bool {
	for i, have := range c.molecules {
		if have == m {
			c.molecules = append(c.molecules[:i], c.molecules[i+1:]...)
			return true
		}
	}
	return false
}

// die marks the cell dead and releases its molecules to its tile. Only the
// first call has an effect.
func (c *Cell) die(w *World, now float64, cause DeathCause) {
	if c.state == Dead {
		return
	}
	c.state = Dead
	c.cause = cause
	c.died = now
	t := w.Tile(c.x, c.y)
	for _, m := range c.molecules {
		t.AddMolecule(m)
	}
	c.molecules = nil
	w.deaths++
	w.log.Debug("cell died",
		zap.String("id", c.ID),
		zap.String("cause", string(cause)),
		zap.Uint64("lineage", c.lineage),
		zap.Float64("age", c.Age(now)))
}

// divide splits c into itself and a mutated child on a nearby free tile. When
// no tile is free the split is undone.
func (c *Cell) divide(w *World, now float64) {
	childGenome := c.genome.Clone()
	genome.Mutate(childGenome, w.rng)
	childGenome.LineageID = c.lineage

	share := 0.5 + w.rng.Jitter(w.cfg.Params.EnergyShareJitter)
	childEnergy := c.energy * share
	c.energy -= childEnergy

	var kept, given []*chem.Molecule
	for _, m := range c.molecules {
		if w.rng.Bool() {
			given = append(given, m)
		} else {
			kept = append(kept, m)
		}
	}

	spot, ok := w.freeTileNear(c.x, c.y, w.cfg.Params.DivideRadius)
	if !ok {
		c.energy += childEnergy
		w.log.Debug("division aborted: no free tile",
			zap.String("id", c.ID),
			zap.Int("x", c.x),
			zap.Int("y", c.y))
		return
	}

	c.molecules = kept
	child := NewCell(childGenome, childEnergy, now)
	child.molecules = given
	w.place(child, spot.X, spot.Y)
	w.log.Debug("cell divided",
		zap.String("parent", c.ID),
		zap.String("child", child.ID),
		zap.Uint64("lineage", c.lineage),
		zap.Float64("child_energy", childEnergy))

	if w.rng.Chance(c.genome.PostDivideMortality) {
		c.die(w, now, CausePostDivision)
	}
}

func formula(m *chem.Molecule) string {
	if m.Empty() {
		return chem.Composition{}.String()
	}
	return m.Composition.String()
}

func formulas(ms []*chem.Molecule) []string {
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = formula(m)
	}
	return out
}
