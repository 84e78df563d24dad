package genome

import (
	"protocell/internal/core"
)

// Factory supplies genomes for spawned cells.
type Factory func(rng *core.RNG) *Genome

// Range is an inclusive sampling interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws uniformly from r. A degenerate range returns Min.
func (r Range) Sample(rng *core.RNG) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// FactoryConfig is the generation policy for random founder genomes.
type FactoryConfig struct {
	Kinds                 []string `yaml:"kinds"`
	EnzymesMin            int      `yaml:"enzymes_min"`
	EnzymesMax            int      `yaml:"enzymes_max"`
	ReproThreshold        Range    `yaml:"repro_threshold"`
	InitialEnergy         Range    `yaml:"initial_energy"`
	DecayTime             Range    `yaml:"decay_time"`
	OptimalTemp           Range    `yaml:"optimal_temp"`
	PHOpt                 Range    `yaml:"ph_opt"`
	DefaultSecretionProb  float64  `yaml:"default_secretion_prob"`
	MutationRate          float64  `yaml:"mutation_rate"`
	PostDivideMortality   float64  `yaml:"post_divide_mortality"`
	DesiredElementReserve int      `yaml:"desired_element_reserve"`
	TempStressFactor      float64  `yaml:"temp_stress_factor"`
	MaintenanceCostPerSec float64  `yaml:"maintenance_cost_per_sec"`
	// Templates, when present, replace random generation: each founder is a
	// clone of a randomly chosen template.
	Templates []Genome `yaml:"templates,omitempty"`
}

// DefaultFactoryConfig returns the founder policy used when no config file is given.
func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		Kinds:                 []string{"anabolase", "catabolase", "transportase"},
		EnzymesMin:            1,
		EnzymesMax:            3,
		ReproThreshold:        Range{Min: 3, Max: 6},
		InitialEnergy:         Range{Min: 1.5, Max: 2.5},
		DecayTime:             Range{Min: 1000, Max: 3000},
		OptimalTemp:           Range{Min: 0.35, Max: 0.65},
		PHOpt:                 Range{Min: 0.35, Max: 0.65},
		DefaultSecretionProb:  0.15,
		MutationRate:          0.05,
		PostDivideMortality:   0,
		DesiredElementReserve: 2,
		TempStressFactor:      0.02,
		MaintenanceCostPerSec: 0.05,
	}
}

// RandomFactory builds founder genomes according to cfg. Each founder starts
// a fresh lineage.
func RandomFactory(cfg FactoryConfig) Factory {
	return func(rng *core.RNG) *Genome {
		var g *Genome
		if len(cfg.Templates) > 0 {
			g = cfg.Templates[rng.IntN(len(cfg.Templates))].Clone()
		} else {
			g = cfg.random(rng)
		}
		g.LineageID = rng.Uint64()
		return g
	}
}

func (cfg FactoryConfig) random(rng *core.RNG) *Genome {
	optimal := clamp01(cfg.OptimalTemp.Sample(rng))
	g := &Genome{
		ReproThreshold:        cfg.ReproThreshold.Sample(rng),
		InitialEnergy:         cfg.InitialEnergy.Sample(rng),
		DecayTime:             cfg.DecayTime.Sample(rng),
		DefaultSecretionProb:  cfg.DefaultSecretionProb,
		MutationRate:          cfg.MutationRate,
		PostDivideMortality:   cfg.PostDivideMortality,
		DesiredElementReserve: cfg.DesiredElementReserve,
		TempStressFactor:      cfg.TempStressFactor,
		OptimalTemp:           &optimal,
		MaintenanceCostPerSec: cfg.MaintenanceCostPerSec,
	}
	if len(cfg.Kinds) == 0 {
		return g
	}
	n := cfg.EnzymesMin
	if cfg.EnzymesMax > n {
		n += rng.IntN(cfg.EnzymesMax - n + 1)
	}
	n = min(max(n, 0), MaxEnzymes)
	for i := 0; i < n; i++ {
		e := randomEnzyme(cfg.Kinds[rng.IntN(len(cfg.Kinds))], optimal, rng)
		e.PHOpt = clamp01(cfg.PHOpt.Sample(rng))
		g.Enzymes = append(g.Enzymes, e)
	}
	return g
}
