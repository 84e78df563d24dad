package protocell

import (
	"math"

	"go.uber.org/zap"

	"protocell/internal/core"
	"protocell/internal/genome"
)

// Name identifies the simulation to runners and viewers.
const Name = "protocell"

var (
	_ core.Sim               = (*Simulation)(nil)
	_ core.ParameterProvider = (*Simulation)(nil)
)

// Simulation owns a World together with its clock and founder policy.
type Simulation struct {
	cfg     Config
	world   *World
	rng     *core.RNG
	factory genome.Factory
	log     *zap.Logger
	now     float64
	display *core.ByteGrid
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithLogger routes world events to log.
func WithLogger(log *zap.Logger) Option {
	return func(s *Simulation) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFactory replaces the config-driven founder genome factory.
func WithFactory(f genome.Factory) Option {
	return func(s *Simulation) {
		if f != nil {
			s.factory = f
		}
	}
}

// New returns a simulation reset with cfg.Seed.
func New(cfg Config, opts ...Option) *Simulation {
	s := &Simulation{
		cfg:     cfg,
		factory: genome.RandomFactory(cfg.Genomes),
		log:     zap.NewNop(),
		display: core.NewByteGrid(cfg.Width, cfg.Height),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset(0)
	return s
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return Name }

// Size reports the grid dimensions.
func (s *Simulation) Size() core.Size { return core.Size{W: s.world.Width(), H: s.world.Height()} }

// World exposes the grid.
func (s *Simulation) World() *World { return s.world }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// Now is the simulation clock in seconds.
func (s *Simulation) Now() float64 { return s.now }

// Census summarizes the current state.
func (s *Simulation) Census() Census { return s.world.Census(s.now) }

// Reset rebuilds the world and spawns the initial founders. A zero seed
// falls back to the configured one.
func (s *Simulation) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	s.rng = core.NewRNG(effective)
	s.world = NewWorld(s.cfg, s.rng, s.log)
	s.now = 0
	for i := 0; i < s.cfg.Spawn.InitialCells; i++ {
		s.world.SpawnRandomCell(s.factory, s.now)
	}
	s.log.Debug("world reset",
		zap.Int64("seed", effective),
		zap.Int("width", s.world.Width()),
		zap.Int("height", s.world.Height()),
		zap.Int("founders", s.cfg.Spawn.InitialCells))
}

// Step advances one tick, maybe spawns a founder and advances the clock.
func (s *Simulation) Step() {
	s.world.Step(s.now)
	if s.rng.Chance(s.spawnChance()) {
		s.world.SpawnRandomCell(s.factory, s.now)
	}
	s.now += s.cfg.DT / 1000
}

// spawnChance falls linearly to zero as the population approaches capacity.
func (s *Simulation) spawnChance() float64 {
	sp := s.cfg.Spawn
	if sp.Capacity <= 0 {
		return 0
	}
	room := 1 - float64(s.world.Population())/float64(sp.Capacity)
	return sp.Chance * math.Max(0, room)
}
