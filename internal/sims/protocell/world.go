package protocell

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"protocell/internal/chem"
	"protocell/internal/core"
	"protocell/internal/genome"
)

// Tile is one location of the grid. Cells are ordered bottom to top.
type Tile struct {
	X, Y        int
	Molecules   []*chem.Molecule
	Cells       []*Cell
	Temperature float64
	// Solute doubles as the pH seen by enzymes.
	Solute float64
}

// AddMolecule appends m to the pool. Empty molecules are dropped.
func (t *Tile) AddMolecule(m *chem.Molecule) {
	if m.Empty() {
		return
	}
	t.Molecules = append(t.Molecules, m)
}

// RemoveMolecule drops m by identity and reports whether it was present.
func (t *Tile) RemoveMolecule(m *chem.Molecule) bool {
	i := slices.Index(t.Molecules, m)
	if i < 0 {
		return false
	}
	t.Molecules = slices.Delete(t.Molecules, i, i+1)
	return true
}

// Occupied reports whether a living cell sits on t.
func (t *Tile) Occupied() bool {
	for _, c := range t.Cells {
		if c.Alive() {
			return true
		}
	}
	return false
}

// World is the toroidal grid of tiles and the cells living on it.
type World struct {
	cfg   Config
	torus core.Torus
	tiles []*Tile
	rng   *core.RNG
	log   *zap.Logger

	tick   uint64
	births int
	deaths int
}

// NewWorld builds a seeded grid. A nil logger discards output.
func NewWorld(cfg Config, rng *core.RNG, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	torus := core.NewTorus(cfg.Width, cfg.Height)
	w := &World{
		cfg:   cfg,
		torus: torus,
		tiles: make([]*Tile, torus.Len()),
		rng:   rng,
		log:   log,
	}
	p := cfg.Params
	for y := 0; y < torus.H; y++ {
		for x := 0; x < torus.W; x++ {
			w.tiles[y*torus.W+x] = &Tile{
				X:           x,
				Y:           y,
				Molecules:   seedMolecules(),
				Temperature: w.clampTemp(p.InitialTemp + rng.Jitter(p.FieldJitter)),
				Solute:      clamp01(p.InitialSolute + rng.Jitter(p.FieldJitter)),
			}
		}
	}
	return w
}

func seedMolecules() []*chem.Molecule {
	return []*chem.Molecule{
		chem.Simple(map[chem.Element]int{chem.A: 2}),
		chem.Simple(map[chem.Element]int{chem.B: 1}),
		chem.Simple(map[chem.Element]int{chem.A: 1, chem.B: 1}),
	}
}

func (w *World) Width() int  { return w.torus.W }
func (w *World) Height() int { return w.torus.H }

// DT is the tick length in milliseconds.
func (w *World) DT() float64 { return w.cfg.DT }

// Tile returns the tile at (x, y) after wrapping.
func (w *World) Tile(x, y int) *Tile { return w.tiles[w.torus.Index(x, y)] }

// Tiles exposes every tile in row-major order.
func (w *World) Tiles() []*Tile { return w.tiles }

// MooreNeighbors returns the eight tiles surrounding (x, y).
func (w *World) MooreNeighbors(x, y int) []*Tile {
	pts := w.torus.Moore(x, y)
	out := make([]*Tile, 0, len(pts))
	for _, p := range pts {
		out = append(out, w.Tile(p.X, p.Y))
	}
	return out
}

// Cells lists every living cell in scan order.
func (w *World) Cells() []*Cell {
	var out []*Cell
	w.scan(func(t *Tile) {
		for _, c := range t.Cells {
			if c.Alive() {
				out = append(out, c)
			}
		}
	})
	return out
}

// Population counts living cells.
func (w *World) Population() int {
	n := 0
	for _, t := range w.tiles {
		for _, c := range t.Cells {
			if c.Alive() {
				n++
			}
		}
	}
	return n
}

// scan visits tiles column by column: x-major, then y.
func (w *World) scan(fn func(t *Tile)) {
	for x := 0; x < w.torus.W; x++ {
		for y := 0; y < w.torus.H; y++ {
			fn(w.tiles[y*w.torus.W+x])
		}
	}
}

// Step advances the world by one tick. now is the simulation clock in
// seconds and only timestamps births, deaths and log entries.
func (w *World) Step(now float64) {
	w.tick++
	w.diffuseMolecules()
	w.diffuseFields()
	w.stepCells(now)
	w.prune()
}

type hop struct {
	m  *chem.Molecule
	to *Tile
}

func (w *World) hopChance(m *chem.Molecule) float64 {
	p := w.cfg.Params
	return math.Min(p.HopCap, p.HopBase+m.Polarity/float64(m.Size+1)*p.HopScale)
}

// diffuseMolecules moves molecules to a random axis-aligned neighbor. Moves
// are applied after the whole grid has been scanned.
func (w *World) diffuseMolecules() {
	var hops []hop
	w.scan(func(t *Tile) {
		kept := t.Molecules[:0]
		for _, m := range t.Molecules {
			if !w.rng.Chance(w.hopChance(m)) {
				kept = append(kept, m)
				continue
			}
			n := w.torus.VonNeumann(t.X, t.Y)[w.rng.IntN(4)]
			hops = append(hops, hop{m: m, to: w.Tile(n.X, n.Y)})
		}
		clear(t.Molecules[len(kept):])
		t.Molecules = kept
	})
	for _, h := range hops {
		h.to.Molecules = append(h.to.Molecules, h.m)
	}
}

// diffuseFields blends temperature and solute toward the Moore-9 mean,
// reading from a snapshot so every tile updates simultaneously.
func (w *World) diffuseFields() {
	alpha := w.cfg.Params.FieldAlpha
	if alpha <= 0 {
		return
	}
	n := len(w.tiles)
	temp := make([]float64, n)
	sol := make([]float64, n)
	for i, t := range w.tiles {
		temp[i], sol[i] = t.Temperature, t.Solute
	}
	for i, t := range w.tiles {
		var sumT, sumS float64
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				j := w.torus.Index(t.X+dx, t.Y+dy)
				sumT += temp[j]
				sumS += sol[j]
			}
		}
		t.Temperature = w.clampTemp((1-alpha)*temp[i] + alpha*sumT/9)
		t.Solute = clamp01((1-alpha)*sol[i] + alpha*sumS/9)
	}
}

func (w *World) stepCells(now float64) {
	w.scan(func(t *Tile) {
		if len(t.Cells) == 0 {
			return
		}
		env := stepEnv{Temperature: t.Temperature, PH: t.Solute, DT: w.cfg.DT, Now: now}
		occupants := slices.Clone(t.Cells)
		for _, c := range occupants {
			if c.bornTick == w.tick {
				continue
			}
			c.step(w, t, env)
		}
	})
}

func (w *World) prune() {
	for _, t := range w.tiles {
		t.Cells = slices.DeleteFunc(t.Cells, func(c *Cell) bool { return !c.Alive() })
	}
}

// SpawnRandomCell places a fresh cell with a factory genome on a uniformly
// random tile.
func (w *World) SpawnRandomCell(factory genome.Factory, now float64) *Cell {
	g := factory(w.rng)
	c := NewCell(g, g.InitialEnergy, now)
	w.place(c, w.rng.IntN(w.torus.W), w.rng.IntN(w.torus.H))
	w.log.Debug("cell spawned",
		zap.String("id", c.ID),
		zap.Uint64("lineage", c.lineage),
		zap.Int("enzymes", len(g.Enzymes)))
	return c
}

// place puts c on top of the tile at (x, y).
func (w *World) place(c *Cell, x, y int) {
	t := w.Tile(x, y)
	c.x, c.y = t.X, t.Y
	c.bornTick = w.tick
	t.Cells = append(t.Cells, c)
	w.births++
}

// freeTileNear searches rings of growing radius around (x, y) for a tile
// without living cells. Ties within a ring are broken at random.
func (w *World) freeTileNear(x, y, radius int) (*Tile, bool) {
	for r := 1; r <= radius; r++ {
		var free []*Tile
		for _, p := range w.torus.Ring(x, y, r) {
			if t := w.Tile(p.X, p.Y); !t.Occupied() {
				free = append(free, t)
			}
		}
		if len(free) > 0 {
			return free[w.rng.IntN(len(free))], true
		}
	}
	return nil, false
}

// AddProductAround scatters one to three copies of m over the Moore
// neighborhood of (x, y), center included. Each copy nudges its tile's
// solute upward.
func (w *World) AddProductAround(x, y int, m *chem.Molecule) {
	if m.Empty() {
		return
	}
	copies := 1 + w.rng.IntN(3)
	for i := 0; i < copies; i++ {
		t := w.Tile(x+w.rng.IntN(3)-1, y+w.rng.IntN(3)-1)
		t.AddMolecule(m.Clone())
		t.Solute = clamp01(t.Solute + w.cfg.Params.SoluteNudge)
	}
}

// applyHeat adds delta to the tile at (x, y) and an attenuated share to each
// Moore neighbor.
func (w *World) applyHeat(x, y int, delta float64) {
	if math.Abs(delta) < 1e-12 {
		return
	}
	t := w.Tile(x, y)
	t.Temperature = w.clampTemp(t.Temperature + delta)
	spread := delta * w.cfg.Params.HeatSpread
	for _, n := range w.MooreNeighbors(x, y) {
		n.Temperature = w.clampTemp(n.Temperature + spread)
	}
}

func (w *World) clampTemp(v float64) float64 {
	return math.Max(0, math.Min(w.cfg.Params.MaxTemp, v))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
