// Package genome holds the heritable configuration of a cell and the
// mutation applied when it divides.
package genome

import (
	"errors"
	"fmt"

	"protocell/internal/enzyme"
)

// MaxEnzymes caps the enzyme list length reachable through mutation.
const MaxEnzymes = 6

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("genome: invalid")

// Genome is owned by exactly one cell and copied before mutation.
type Genome struct {
	Enzymes               []enzyme.Enzyme `yaml:"enzymes"`
	ReproThreshold        float64         `yaml:"repro_threshold"`
	InitialEnergy         float64         `yaml:"initial_energy"`
	DecayTime             float64         `yaml:"decay_time"`
	DefaultSecretionProb  float64         `yaml:"default_secretion_prob"`
	MutationRate          float64         `yaml:"mutation_rate"`
	PostDivideMortality   float64         `yaml:"post_divide_mortality"`
	DesiredElementReserve int             `yaml:"desired_element_reserve"`
	TempStressFactor      float64         `yaml:"temp_stress_factor"`
	// OptimalTemp falls back to the mean enzyme optimum when unset.
	OptimalTemp           *float64 `yaml:"optimal_temp,omitempty"`
	MaintenanceCostPerSec float64  `yaml:"maintenance_cost_per_sec"`
	LineageID             uint64   `yaml:"lineage_id,omitempty"`
}

// Clone returns a deep copy.
func (g *Genome) Clone() *Genome {
	c := *g
	c.Enzymes = make([]enzyme.Enzyme, len(g.Enzymes))
	for i, e := range g.Enzymes {
		c.Enzymes[i] = e.Clone()
	}
	if g.OptimalTemp != nil {
		t := *g.OptimalTemp
		c.OptimalTemp = &t
	}
	return &c
}

// PreferredTemp is the temperature the cell is adapted to.
func (g *Genome) PreferredTemp() float64 {
	if g.OptimalTemp != nil {
		return *g.OptimalTemp
	}
	if len(g.Enzymes) == 0 {
		return 0.5
	}
	var sum float64
	for _, e := range g.Enzymes {
		sum += e.TOpt
	}
	return sum / float64(len(g.Enzymes))
}

// SecretionProb returns e's own secretion probability or the genome default.
func (g *Genome) SecretionProb(e enzyme.Enzyme) float64 {
	if e.SecretionProb != nil {
		return *e.SecretionProb
	}
	return g.DefaultSecretionProb
}

// Validate reports configuration errors. Invalid enzymes are reported but a
// running cell would simply never fire them.
func (g *Genome) Validate() error {
	if g.DecayTime <= 0 {
		return fmt.Errorf("%w: decay_time %v", ErrInvalid, g.DecayTime)
	}
	if g.ReproThreshold <= 0 {
		return fmt.Errorf("%w: repro_threshold %v", ErrInvalid, g.ReproThreshold)
	}
	if g.InitialEnergy < 0 || g.MaintenanceCostPerSec < 0 || g.TempStressFactor < 0 || g.DesiredElementReserve < 0 {
		return fmt.Errorf("%w: negative energy or stress parameter", ErrInvalid)
	}
	for _, p := range []float64{g.DefaultSecretionProb, g.MutationRate, g.PostDivideMortality} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: probability %v outside [0,1]", ErrInvalid, p)
		}
	}
	if len(g.Enzymes) > MaxEnzymes {
		return fmt.Errorf("%w: %d enzymes exceeds %d", ErrInvalid, len(g.Enzymes), MaxEnzymes)
	}
	for i, e := range g.Enzymes {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("enzyme %d: %w", i, err)
		}
	}
	return nil
}
