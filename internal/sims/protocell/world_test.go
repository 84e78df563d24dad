package protocell

import (
	"math"
	"testing"

	"protocell/internal/chem"
	"protocell/internal/core"
	"protocell/internal/enzyme"
	"protocell/internal/genome"
)

func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.DT = 1
	cfg.Params.FieldJitter = 0
	cfg.Spawn.InitialCells = 0
	cfg.Spawn.Chance = 0
	return cfg
}

func inertGenome() *genome.Genome {
	opt := 0.5
	return &genome.Genome{
		ReproThreshold: 100,
		InitialEnergy:  1,
		DecayTime:      100,
		OptimalTemp:    &opt,
	}
}

func TestStarvationDeathAfterDecayTime(t *testing.T) {
	w := NewWorld(testConfig(3, 3), core.NewRNG(1), nil)
	for _, tile := range w.Tiles() {
		tile.Molecules = nil
	}
	c := NewCell(inertGenome(), 1, 0)
	held := chem.Simple(map[chem.Element]int{chem.A: 2})
	c.molecules = []*chem.Molecule{held}
	w.place(c, 1, 1)

	for i := 1; i <= 100; i++ {
		w.Step(float64(i))
		if !c.Alive() {
			t.Fatalf("cell died early at tick %d (clock %.2f)", i, c.TimeWithoutFood())
		}
	}
	w.Step(101)
	if c.Alive() {
		t.Fatalf("expected death after clock %.2f exceeded decay time", c.TimeWithoutFood())
	}
	if c.DeathCause() != CauseStarvation {
		t.Fatalf("unexpected cause %q", c.DeathCause())
	}
	if c.DeathSimTime() != 101 {
		t.Fatalf("death stamped at %v, want 101", c.DeathSimTime())
	}
	if len(c.Molecules()) != 0 {
		t.Fatalf("dead cell still holds %d molecules", len(c.Molecules()))
	}
	released := false
	for _, m := range w.Tile(1, 1).Molecules {
		if m == held {
			released = true
		}
	}
	if !released {
		t.Fatalf("internal molecule was not released to the tile")
	}
	if len(w.Tile(1, 1).Cells) != 0 {
		t.Fatalf("dead cell was not pruned")
	}

	deaths := w.deaths
	c.die(w, 200, CauseExhaustion)
	if w.deaths != deaths || c.DeathCause() != CauseStarvation {
		t.Fatalf("death transition fired twice")
	}
}

func TestDivisionConservesEnergyAndMolecules(t *testing.T) {
	w := NewWorld(testConfig(5, 5), core.NewRNG(7), nil)
	g := inertGenome()
	g.MutationRate = 1
	parent := NewCell(g, 10, 0)
	for i := 0; i < 12; i++ {
		parent.molecules = append(parent.molecules, chem.Simple(map[chem.Element]int{chem.B: 1 + i%3}))
	}
	original := append([]*chem.Molecule(nil), parent.molecules...)
	w.place(parent, 2, 2)

	parent.divide(w, 0)

	var child *Cell
	for _, c := range w.Cells() {
		if c != parent {
			child = c
		}
	}
	if child == nil {
		t.Fatalf("division produced no child")
	}
	if got := parent.Energy() + child.Energy(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("energy not conserved: %v", got)
	}
	if share := child.Energy() / 10; share < 0.45 || share > 0.55 {
		t.Fatalf("child share %v outside 0.5±0.05", share)
	}
	seen := make(map[*chem.Molecule]int)
	for _, m := range parent.Molecules() {
		seen[m]++
	}
	for _, m := range child.Molecules() {
		seen[m]++
	}
	if len(seen) != len(original) {
		t.Fatalf("molecules lost or added: have %d want %d", len(seen), len(original))
	}
	for _, m := range original {
		if seen[m] != 1 {
			t.Fatalf("molecule %v assigned %d times", m, seen[m])
		}
	}
	if child.LineageID() != parent.LineageID() {
		t.Fatalf("child lineage %d != parent %d", child.LineageID(), parent.LineageID())
	}
	if child.Genome() == parent.Genome() {
		t.Fatalf("child shares the parent genome")
	}
	cx, cy := child.Pos()
	if dx, dy := cx-2, cy-2; dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		t.Fatalf("child placed at (%d,%d), expected ring 1 around (2,2)", cx, cy)
	}
}

func TestDivisionWithoutRoomRefunds(t *testing.T) {
	w := NewWorld(testConfig(3, 3), core.NewRNG(3), nil)
	parent := NewCell(inertGenome(), 8, 0)
	parent.molecules = []*chem.Molecule{
		chem.Simple(map[chem.Element]int{chem.A: 1}),
		chem.Simple(map[chem.Element]int{chem.C: 2}),
	}
	w.place(parent, 1, 1)
	for _, tile := range w.Tiles() {
		if tile.X != 1 || tile.Y != 1 {
			w.place(NewCell(inertGenome(), 1, 0), tile.X, tile.Y)
		}
	}
	births := w.births
	before := append([]*chem.Molecule(nil), parent.molecules...)

	parent.divide(w, 0)

	if w.births != births || w.Population() != 9 {
		t.Fatalf("division should have been aborted")
	}
	if math.Abs(parent.Energy()-8) > 1e-12 {
		t.Fatalf("energy not refunded: %v", parent.Energy())
	}
	if len(parent.Molecules()) != len(before) {
		t.Fatalf("molecules not refunded: %d", len(parent.Molecules()))
	}
	for i, m := range before {
		if parent.Molecules()[i] != m {
			t.Fatalf("molecule %d changed after refund", i)
		}
	}
}

func TestFieldsStayInBounds(t *testing.T) {
	cfg := testConfig(16, 16)
	cfg.Params.FieldJitter = 0.5
	cfg.Spawn.InitialCells = 30
	cfg.Spawn.Chance = 0.2
	sim := New(cfg)
	w := sim.World()
	w.applyHeat(3, 3, 50)
	w.applyHeat(9, 9, -50)
	for i := 0; i < 300; i++ {
		sim.Step()
		for _, tile := range w.Tiles() {
			if tile.Temperature < 0 || tile.Temperature > cfg.Params.MaxTemp {
				t.Fatalf("tick %d: temperature %v out of range at (%d,%d)", i, tile.Temperature, tile.X, tile.Y)
			}
			if tile.Solute < 0 || tile.Solute > 1 {
				t.Fatalf("tick %d: solute %v out of range at (%d,%d)", i, tile.Solute, tile.X, tile.Y)
			}
		}
	}
}

func TestEnergyNeverNegative(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.DT = 50
	cfg.Spawn.InitialCells = 40
	cfg.Spawn.Chance = 0.5
	cfg.Genomes.MaintenanceCostPerSec = 2
	sim := New(cfg)
	seen := make(map[*Cell]bool)
	for i := 0; i < 200; i++ {
		sim.Step()
		for _, c := range sim.World().Cells() {
			seen[c] = true
		}
		for c := range seen {
			if c.Energy() < 0 {
				t.Fatalf("tick %d: cell %s energy %v", i, c.ID, c.Energy())
			}
			if !c.Alive() && c.DeathSimTime() < c.BirthSimTime() {
				t.Fatalf("cell %s died before birth", c.ID)
			}
		}
	}
}

func TestNewbornsSkipTheirBirthTick(t *testing.T) {
	w := NewWorld(testConfig(4, 4), core.NewRNG(2), nil)
	w.tick = 5
	c := NewCell(inertGenome(), 1, 0)
	w.place(c, 0, 0)

	w.stepCells(0)
	if c.TimeWithoutFood() != 0 {
		t.Fatalf("newborn was stepped in its birth tick")
	}
	w.Step(0)
	if c.TimeWithoutFood() != w.DT() {
		t.Fatalf("expected one tick of starvation, got %v", c.TimeWithoutFood())
	}
}

func TestBreakdownRemovesSubstrateFromTile(t *testing.T) {
	w := NewWorld(testConfig(3, 3), core.NewRNG(4), nil)
	tile := w.Tile(1, 1)
	tile.Temperature, tile.Solute = 0.5, 0.5
	strained := chem.New(chem.Of(map[chem.Element]int{chem.A: 4}), 1.3)
	tile.Molecules = []*chem.Molecule{strained}

	g := inertGenome()
	g.Enzymes = []enzyme.Enzyme{enzyme.New("catabolase", 0.5, 0.5)}
	c := NewCell(g, 1, 0)
	w.place(c, 1, 1)

	c.step(w, tile, stepEnv{Temperature: 0.5, PH: 0.5, DT: 1, Now: 0.5})

	for _, m := range tile.Molecules {
		if m == strained {
			t.Fatalf("substrate still on the tile")
		}
	}
	for _, m := range c.Molecules() {
		if m == strained {
			t.Fatalf("substrate moved into the cell")
		}
	}
	if c.Energy() <= 1 {
		t.Fatalf("breakdown should pay off, energy %v", c.Energy())
	}
	if c.TimeWithoutFood() != 0 {
		t.Fatalf("feeding should reset the starvation clock")
	}
	entries := c.ReactionLog().Entries()
	if len(entries) != 1 || entries[0].Enzyme != "catabolase" {
		t.Fatalf("unexpected log %+v", entries)
	}
	if entries[0].HeatDelta < 0 || entries[0].Substrates[0] != "A4" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestMoleculeDiffusionConservesCount(t *testing.T) {
	cfg := testConfig(8, 8)
	cfg.Params.HopBase = 0.2
	w := NewWorld(cfg, core.NewRNG(9), nil)
	count := func() int {
		n := 0
		for _, tile := range w.Tiles() {
			n += len(tile.Molecules)
		}
		return n
	}
	before := count()
	moved := false
	first := w.Tile(0, 0).Molecules[0]
	for i := 0; i < 60; i++ {
		w.diffuseMolecules()
		if w.Tile(0, 0).RemoveMolecule(first) {
			w.Tile(0, 0).AddMolecule(first)
		} else {
			moved = true
		}
	}
	if got := count(); got != before {
		t.Fatalf("diffusion changed molecule count: %d -> %d", before, got)
	}
	if !moved {
		t.Fatalf("expected a molecule to hop at the cap rate")
	}
}

func TestAddProductAroundScattersClones(t *testing.T) {
	w := NewWorld(testConfig(5, 5), core.NewRNG(11), nil)
	for _, tile := range w.Tiles() {
		tile.Molecules = nil
		tile.Solute = 0.2
	}
	m := chem.Simple(map[chem.Element]int{chem.C: 2})
	w.AddProductAround(0, 0, m)

	total := 0
	nudged := 0.0
	for _, tile := range w.Tiles() {
		for _, got := range tile.Molecules {
			if got == m {
				t.Fatalf("original molecule placed instead of a clone")
			}
			if got.Composition != m.Composition {
				t.Fatalf("clone composition %v", got.Composition)
			}
			dx, dy := min(tile.X, 5-tile.X), min(tile.Y, 5-tile.Y)
			if dx > 1 || dy > 1 {
				t.Fatalf("clone landed outside the neighborhood at (%d,%d)", tile.X, tile.Y)
			}
		}
		total += len(tile.Molecules)
		nudged += tile.Solute - 0.2
	}
	if total < 1 || total > 3 {
		t.Fatalf("expected 1-3 clones, got %d", total)
	}
	if math.Abs(nudged-0.01*float64(total)) > 1e-9 {
		t.Fatalf("solute nudge %v for %d clones", nudged, total)
	}

	w.AddProductAround(2, 2, chem.New(chem.Composition{}, 1))
	if got := w.Tile(2, 2); got.Solute != 0.2 || len(got.Molecules) != 0 {
		t.Fatalf("empty molecule changed the world")
	}
}

func TestApplyHeatSpreadsToNeighbors(t *testing.T) {
	w := NewWorld(testConfig(5, 5), core.NewRNG(1), nil)
	w.applyHeat(0, 0, 1)
	if got := w.Tile(0, 0).Temperature; math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("center temperature %v", got)
	}
	if got := w.Tile(4, 4).Temperature; math.Abs(got-0.68) > 1e-9 {
		t.Fatalf("wrapped neighbor temperature %v", got)
	}
	if got := w.Tile(2, 2).Temperature; got != 0.5 {
		t.Fatalf("distant tile changed: %v", got)
	}
}
