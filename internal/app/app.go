//go:build ebiten

package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"protocell/internal/render"
	"protocell/internal/sims/protocell"
)

type layer uint8

const (
	layerCells layer = iota
	layerTemperature
	layerSolute
)

// Game adapts a protocell simulation to the ebiten.Game interface.
type Game struct {
	sim     *protocell.Simulation
	painter *render.GridPainter
	field   []float64

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	layer    layer
}

// New constructs a Game for the provided simulation.
func New(sim *protocell.Simulation, scale int, seed int64) *Game {
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		field:   make([]float64, size.W*size.H),
		scale:   max(1, scale),
		seed:    seed,
	}
}

// Run opens a window and blocks until it closes.
func Run(sim *protocell.Simulation, opts Options) error {
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	g := New(sim, opts.Scale, opts.Seed)
	size := sim.Size()
	ebiten.SetWindowSize(size.W*g.scale, size.H*g.scale)
	ebiten.SetWindowTitle("protocell")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.layer = (g.layer + 1) % 3
	}

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
		if c := g.sim.Census(); c.Tick%30 == 0 {
			ebiten.SetWindowTitle(fmt.Sprintf("protocell  t=%.1fs  cells=%d  lineages=%d", c.Time, c.Population, c.Lineages))
		}
	}
	return nil
}

// Draw renders the selected layer.
func (g *Game) Draw(screen *ebiten.Image) {
	tiles := g.sim.World().Tiles()
	switch g.layer {
	case layerTemperature:
		for i, t := range tiles {
			g.field[i] = t.Temperature
		}
		g.painter.BlitHeat(screen, g.field, g.sim.Config().Params.MaxTemp, g.scale)
	case layerSolute:
		for i, t := range tiles {
			g.field[i] = t.Solute
		}
		g.painter.BlitHeat(screen, g.field, 1, g.scale)
	default:
		g.painter.BlitPalette(screen, g.sim.Cells(), g.sim.Palette(), g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
