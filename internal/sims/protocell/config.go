package protocell

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"protocell/internal/genome"
)

// ErrInvalidConfig is wrapped by Validate and Apply failures.
var ErrInvalidConfig = errors.New("protocell: invalid config")

// Params holds the physical constants of the world and its cells.
type Params struct {
	// Molecule hop probability is min(HopCap, HopBase + polarity/(size+1) × HopScale).
	HopCap   float64 `yaml:"hop_cap"`
	HopBase  float64 `yaml:"hop_base"`
	HopScale float64 `yaml:"hop_scale"`
	// FieldAlpha weights the Moore-9 mean when blending temperature and solute.
	FieldAlpha float64 `yaml:"field_alpha"`

	InitialTemp   float64 `yaml:"initial_temp"`
	InitialSolute float64 `yaml:"initial_solute"`
	FieldJitter   float64 `yaml:"field_jitter"`
	MaxTemp       float64 `yaml:"max_temp"`

	HeatSpread   float64 `yaml:"heat_spread"`
	SoluteNudge  float64 `yaml:"solute_nudge"`
	StressPower  float64 `yaml:"stress_power"`
	DivideRadius int     `yaml:"divide_radius"`
	// EnergyShareJitter is the full width of the child energy share around 0.5.
	EnergyShareJitter float64 `yaml:"energy_share_jitter"`
}

// Spawn controls founder placement.
type Spawn struct {
	InitialCells int     `yaml:"initial_cells"`
	Chance       float64 `yaml:"chance"`
	// Capacity is the population at which spontaneous spawning stops.
	Capacity int `yaml:"capacity"`
}

// Config controls the protocell world dimensions, physics and founder policy.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
	// DT is the tick length in milliseconds.
	DT float64 `yaml:"dt"`

	Params  Params               `yaml:"params"`
	Spawn   Spawn                `yaml:"spawn"`
	Genomes genome.FactoryConfig `yaml:"genomes"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  64,
		Height: 64,
		Seed:   1337,
		DT:     10,
		Params: Params{
			HopCap:            0.2,
			HopBase:           0,
			HopScale:          1,
			FieldAlpha:        0.1,
			InitialTemp:       0.5,
			InitialSolute:     0.5,
			FieldJitter:       0.1,
			MaxTemp:           5,
			HeatSpread:        0.18,
			SoluteNudge:       0.01,
			StressPower:       1.6,
			DivideRadius:      2,
			EnergyShareJitter: 0.1,
		},
		Spawn: Spawn{
			InitialCells: 40,
			Chance:       0.05,
			Capacity:     1500,
		},
		Genomes:  genome.DefaultFactoryConfig(),
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML file layered over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports values the world cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height))
	}
	if c.DT <= 0 {
		errs = append(errs, fmt.Errorf("%w: dt %v", ErrInvalidConfig, c.DT))
	}
	p := c.Params
	if p.FieldAlpha < 0 || p.FieldAlpha > 1 {
		errs = append(errs, fmt.Errorf("%w: field_alpha %v", ErrInvalidConfig, p.FieldAlpha))
	}
	if p.HopCap < 0 || p.HopCap > 1 {
		errs = append(errs, fmt.Errorf("%w: hop_cap %v", ErrInvalidConfig, p.HopCap))
	}
	if p.MaxTemp <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_temp %v", ErrInvalidConfig, p.MaxTemp))
	}
	if p.DivideRadius < 1 {
		errs = append(errs, fmt.Errorf("%w: divide_radius %d", ErrInvalidConfig, p.DivideRadius))
	}
	if c.Spawn.Chance < 0 || c.Spawn.Chance > 1 {
		errs = append(errs, fmt.Errorf("%w: spawn chance %v", ErrInvalidConfig, c.Spawn.Chance))
	}
	for i, tmpl := range c.Genomes.Templates {
		if err := tmpl.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("genome template %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Apply overrides fields from key/value pairs. Every usable pair is applied;
// unknown keys and unparsable values are reported together.
func (c *Config) Apply(kv map[string]string) error {
	var errs []error
	for key, v := range kv {
		if err := c.set(key, v); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) set(key, v string) error {
	p := &c.Params
	switch key {
	case "w":
		return setInt(&c.Width, v, 1)
	case "h":
		return setInt(&c.Height, v, 1)
	case "seed":
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = n
		return nil
	case "dt":
		return setFloat(&c.DT, v, 1e-9)
	case "hop_cap":
		return setFloat(&p.HopCap, v, 0)
	case "hop_base":
		return setFloat(&p.HopBase, v, 0)
	case "hop_scale":
		return setFloat(&p.HopScale, v, 0)
	case "field_alpha":
		return setFloat(&p.FieldAlpha, v, 0)
	case "initial_temp":
		return setFloat(&p.InitialTemp, v, 0)
	case "initial_solute":
		return setFloat(&p.InitialSolute, v, 0)
	case "field_jitter":
		return setFloat(&p.FieldJitter, v, 0)
	case "heat_spread":
		return setFloat(&p.HeatSpread, v, 0)
	case "solute_nudge":
		return setFloat(&p.SoluteNudge, v, 0)
	case "stress_power":
		return setFloat(&p.StressPower, v, 0)
	case "divide_radius":
		return setInt(&p.DivideRadius, v, 1)
	case "energy_share_jitter":
		return setFloat(&p.EnergyShareJitter, v, 0)
	case "initial_cells":
		return setInt(&c.Spawn.InitialCells, v, 0)
	case "spawn_chance":
		return setFloat(&c.Spawn.Chance, v, 0)
	case "capacity":
		return setInt(&c.Spawn.Capacity, v, 0)
	case "mutation_rate":
		return setFloat(&c.Genomes.MutationRate, v, 0)
	case "maintenance":
		return setFloat(&c.Genomes.MaintenanceCostPerSec, v, 0)
	case "temp_stress":
		return setFloat(&c.Genomes.TempStressFactor, v, 0)
	case "log_level":
		c.LogLevel = v
		return nil
	}
	return errors.New("unknown key")
}

func setInt(dst *int, v string, floor int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if n < floor {
		return fmt.Errorf("below %d", floor)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string, floor float64) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if f < floor {
		return fmt.Errorf("below %v", floor)
	}
	*dst = f
	return nil
}
